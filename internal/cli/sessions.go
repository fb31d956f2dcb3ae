package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nextday/internal/models"
)

var errUnknownSession = errors.New("unknown session")

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List the active sessions of your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			sessions, err := app.client.ListSessions(cmd.Context())
			if err != nil {
				return app.fail("Failed to fetch sessions", err)
			}
			newPrinter(cmd.OutOrStdout(), app.cfg.Theme).sessions(sessions)
			return nil
		},
	}
	cmd.AddCommand(newSessionsRmCmd(app))
	return cmd
}

// findSession は ID またはその一意な前方一致でセッションを探します。
func findSession(sessions []models.Session, id string) (*models.Session, error) {
	var found []models.Session
	for _, s := range sessions {
		if s.ID == id {
			return &s, nil
		}
		if strings.HasPrefix(s.ID, id) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("session %s: %w", id, errUnknownSession)
	case 1:
		return &found[0], nil
	}
	return nil, fmt.Errorf("session prefix %q matches %d sessions", id, len(found))
}

func newSessionsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"revoke"},
		Short:   "End a session; its token stops working",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("invalid session id %q", args[0])
			}

			ctx := cmd.Context()
			sessions, err := app.client.ListSessions(ctx)
			if err != nil {
				return app.fail("Failed to fetch sessions", err)
			}
			target, err := findSession(sessions, id)
			if err != nil {
				return err
			}
			if err := app.client.RevokeSession(ctx, target.ID); err != nil {
				return app.fail(serverMessage(err, "Failed to end session"), err)
			}

			if target.Current {
				if app.session.Source != "env" {
					if err := app.store.Clear(); err != nil {
						return err
					}
				}
				app.notifier.Success("Session ended; you are now logged out")
				return nil
			}
			app.notifier.Success("Session ended")
			return nil
		},
	}
}
