package cli

import (
	"github.com/spf13/cobra"

	"nextday/internal/notify"
	"nextday/internal/tui"
)

func newFocusCmd(app *App) *cobra.Command {
	var listID int
	var minutes string

	cmd := &cobra.Command{
		Use:   "focus <todo-id>",
		Short: "Run a pomodoro timer for a todo; the todo is completed when the timer ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			notes := &notify.Recorder{}
			list, _, err := app.openList(cmd, listID, id, notes)
			replay(app.notifier, notes)
			if err != nil {
				return err
			}

			m, err := tui.NewFocus(cmd.Context(), list, notes, id, tui.FocusConfig{
				DefaultMinutes: app.cfg.DefaultMinutes,
				Minutes:        minutes,
				Theme:          app.cfg.Theme,
				Logger:         app.logger,
			})
			if err != nil {
				return err
			}

			final, err := app.runFocus(cmd.Context(), m)
			replay(app.notifier, notes)
			if err != nil {
				return err
			}
			if !final.Completed() {
				app.logger.Debug("focus session closed before completion")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&listID, "list", "l", 0, "List id (default: the list of the todo)")
	cmd.Flags().StringVarP(&minutes, "minutes", "m", "", "Session length in minutes, 1-60 (default from config)")
	return cmd
}

// replay は画面の裏で記録した通知を端末に書き出します。
func replay(to notify.Notifier, from *notify.Recorder) {
	for _, n := range from.Drain() {
		switch n.Kind {
		case notify.KindSuccess:
			to.Success(n.Message)
		case notify.KindError:
			to.Error(n.Message)
		}
	}
}
