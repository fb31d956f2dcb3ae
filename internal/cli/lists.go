package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nextday/internal/models"
	"nextday/internal/todo"
)

// loadManager はリスト一覧を取得した Manager を返します。
func (a *App) loadManager(cmd *cobra.Command) (*todo.Manager, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	mgr := todo.NewManager(a.client, a.notifier, a.logger)
	if err := mgr.Load(cmd.Context()); err != nil {
		return nil, settle(err)
	}
	return mgr, nil
}

func findList(lists []models.TodoList, id int) (*models.TodoList, bool) {
	for i := range lists {
		if lists[i].ID == id {
			return &lists[i], true
		}
	}
	return nil, false
}

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show and manage todo lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := app.loadManager(cmd)
			if err != nil {
				return err
			}
			selected, _ := mgr.Selection()
			newPrinter(cmd.OutOrStdout(), app.cfg.Theme).lists(mgr.Lists(), selected)
			return nil
		},
	}
	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsRenameCmd(app))
	cmd.AddCommand(newListsRmCmd(app))
	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := app.loadManager(cmd)
			if err != nil {
				return err
			}
			list, err := mgr.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return settle(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), list.ID)
			return nil
		},
	}
}

func newListsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			mgr, err := app.loadManager(cmd)
			if err != nil {
				return err
			}
			_, err = mgr.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			return settle(err)
		},
	}
}

func newListsRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a list and all of its todos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			mgr, err := app.loadManager(cmd)
			if err != nil {
				return err
			}
			list, ok := findList(mgr.Lists(), id)
			if !ok {
				return todo.ErrUnknownList
			}

			mgr.RequestDelete(id)
			question := fmt.Sprintf("Delete list %q? All todos in it will be deleted too.", list.Name)
			if !yes && !app.confirm(cmd, question) {
				mgr.CancelDelete()
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
				return nil
			}
			if err := mgr.ConfirmDelete(cmd.Context()); err != nil && !errors.Is(err, todo.ErrNoPendingDelete) {
				return settle(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
