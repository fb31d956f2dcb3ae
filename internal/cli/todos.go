package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nextday/internal/models"
	"nextday/internal/notify"
	"nextday/internal/todo"
)

var errNoLists = errors.New("no lists yet; create one with `nextday lists add <name>`")

// openList はリストを選択し、その Todo を読み込みます。
// listID が 0 なら todoID の属するリスト、それも 0 なら先頭のリストを使います。
// Todo の通知は n に送ります。
func (a *App) openList(cmd *cobra.Command, listID, todoID int, n notify.Notifier) (*todo.List, *models.TodoList, error) {
	if err := a.requireSession(); err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()

	if listID == 0 && todoID != 0 {
		all, err := a.client.ListTodos(ctx)
		if err != nil {
			return nil, nil, a.fail("Failed to fetch todos", err)
		}
		for _, t := range all {
			if t.ID == todoID {
				listID = t.ListID
			}
		}
		if listID == 0 {
			return nil, nil, fmt.Errorf("todo %d: %w", todoID, todo.ErrUnknownTodo)
		}
	}

	list := todo.NewList(a.client, n, a.logger)
	mgr := todo.NewManager(a.client, a.notifier, a.logger)
	var loadErr error
	mgr.OnSelectionChange = func(id int, ok bool) {
		if ok {
			loadErr = list.Load(ctx, id)
		}
	}
	if err := mgr.Load(ctx); err != nil {
		return nil, nil, settle(err)
	}
	if listID != 0 {
		if err := mgr.Select(listID); err != nil {
			return nil, nil, fmt.Errorf("list %d: %w", listID, err)
		}
	}
	if loadErr != nil {
		return nil, nil, settle(loadErr)
	}

	selected, ok := mgr.Selection()
	if !ok {
		return nil, nil, errNoLists
	}
	meta, _ := findList(mgr.Lists(), selected)
	return list, meta, nil
}

func newTodosCmd(app *App) *cobra.Command {
	var listID int

	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Show and manage the todos of a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, meta, err := app.openList(cmd, listID, 0, app.notifier)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout(), app.cfg.Theme).todos(meta, list.Todos())
			return nil
		},
	}
	cmd.PersistentFlags().IntVarP(&listID, "list", "l", 0, "List id (default: the first list, or the list of the given todo)")

	cmd.AddCommand(newTodosAddCmd(app, &listID))
	cmd.AddCommand(newTodosToggleCmd(app, &listID, "done", "Mark a todo as completed", true))
	cmd.AddCommand(newTodosToggleCmd(app, &listID, "undo", "Mark a todo as incomplete", false))
	cmd.AddCommand(newTodosEditCmd(app, &listID))
	cmd.AddCommand(newTodosRmCmd(app, &listID))
	return cmd
}

func newTodosAddCmd(app *App, listID *int) *cobra.Command {
	return &cobra.Command{
		Use:   "add <content>",
		Short: "Add a todo to a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _, err := app.openList(cmd, *listID, 0, app.notifier)
			if err != nil {
				return err
			}
			list.SetDraft(strings.Join(args, " "))
			created, err := list.Add(cmd.Context(), list.Draft())
			if err != nil {
				return settle(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
}

func newTodosToggleCmd(app *App, listID *int, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, _, err := app.openList(cmd, *listID, id, app.notifier)
			if err != nil {
				return err
			}
			if _, ok := list.Find(id); !ok {
				return fmt.Errorf("todo %d: %w", id, todo.ErrUnknownTodo)
			}
			_, err = list.Toggle(cmd.Context(), id, completed, true)
			return settle(err)
		},
	}
}

func newTodosEditCmd(app *App, listID *int) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <content>",
		Short: "Change the content of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, _, err := app.openList(cmd, *listID, id, app.notifier)
			if err != nil {
				return err
			}
			if err := list.BeginEdit(id); err != nil {
				return fmt.Errorf("todo %d: %w", id, err)
			}
			list.SetEditContent(strings.Join(args[1:], " "))
			_, err = list.SaveEdit(cmd.Context())
			return settle(err)
		},
	}
}

func newTodosRmCmd(app *App, listID *int) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, _, err := app.openList(cmd, *listID, id, app.notifier)
			if err != nil {
				return err
			}
			if _, ok := list.Find(id); !ok {
				return fmt.Errorf("todo %d: %w", id, todo.ErrUnknownTodo)
			}
			return settle(list.Delete(cmd.Context(), id))
		},
	}
}
