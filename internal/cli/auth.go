package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nextday/internal/apiclient"
	"nextday/internal/models"
)

// serverMessage はサーバーが返したエラーメッセージを優先して返します。
func serverMessage(err error, fallback string) string {
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

func newRegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = app.prompt(cmd, "Name", name); err != nil {
				return err
			}
			if email, err = app.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if password, err = app.prompt(cmd, "Password", password); err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := app.client.Register(ctx, models.UserRegisterRequest{Name: name, Email: email, Password: password}); err != nil {
				return app.fail(serverMessage(err, "Registration failed"), err)
			}
			res, err := app.client.Login(ctx, email, password)
			if err != nil {
				return app.fail(serverMessage(err, "Login failed"), err)
			}
			if _, err := app.store.Save(res.Token, res.User.ID, res.User.Email, res.User.Name); err != nil {
				return err
			}
			app.notifier.Success("Account created. Logged in as " + res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 8 characters; prompted when omitted)")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = app.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if password, err = app.prompt(cmd, "Password", password); err != nil {
				return err
			}

			res, err := app.client.Login(cmd.Context(), email, password)
			if err != nil {
				return app.fail(serverMessage(err, "Login failed"), err)
			}
			if _, err := app.store.Save(res.Token, res.User.ID, res.User.Email, res.User.Name); err != nil {
				return err
			}
			app.notifier.Success("Logged in as " + res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the server and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.session != nil && !app.session.Expired(time.Now()) {
				// サーバーに届かなくても手元のセッションは消す
				if err := app.client.Logout(cmd.Context()); err != nil {
					app.logger.Debug("server logout failed", zap.Error(err))
				}
			}
			if err := app.store.Clear(); err != nil {
				return err
			}
			app.notifier.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			u, err := app.client.Profile(cmd.Context())
			if err != nil {
				return app.fail("Failed to fetch profile", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
			if app.session.Source == "env" {
				fmt.Fprintln(cmd.OutOrStdout(), "session: NEXTDAY_TOKEN")
			}
			return nil
		},
	}
}

func newProfileCmd(app *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			if name == "" && email == "" {
				return errors.New("nothing to update; pass --name and/or --email")
			}

			ctx := cmd.Context()
			current, err := app.client.Profile(ctx)
			if err != nil {
				return app.fail("Failed to fetch profile", err)
			}
			req := models.UpdateProfileRequest{Name: current.Name, Email: current.Email}
			if name != "" {
				req.Name = name
			}
			if email != "" {
				req.Email = email
			}

			u, err := app.client.UpdateProfile(ctx, req)
			if err != nil {
				return app.fail(serverMessage(err, "Failed to update profile"), err)
			}
			if app.session.Source != "env" {
				if _, err := app.store.Save(app.session.Token, u.ID, u.Email, u.Name); err != nil {
					return err
				}
			}
			app.notifier.Success("Profile updated successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	return cmd
}

func newPasswdCmd(app *App) *cobra.Command {
	var current, next string
	var revokeOthers bool

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			var err error
			if current, err = app.prompt(cmd, "Current password", current); err != nil {
				return err
			}
			if next, err = app.prompt(cmd, "New password", next); err != nil {
				return err
			}

			req := models.ChangePasswordRequest{CurrentPassword: current, NewPassword: next, RevokeOtherSessions: revokeOthers}
			revoked, err := app.client.ChangePassword(cmd.Context(), req)
			if err != nil {
				return app.fail(serverMessage(err, "Failed to change password"), err)
			}
			app.notifier.Success("Password updated successfully")
			if revokeOthers {
				app.notifier.Success(fmt.Sprintf("Ended %d other session(s)", revoked))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password (at least 8 characters)")
	cmd.Flags().BoolVar(&revokeOthers, "revoke-other-sessions", false, "End every other session of your account")
	return cmd
}

func newForgotPasswordCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = app.prompt(cmd, "Email", email); err != nil {
				return err
			}
			if err := app.client.ForgotPassword(cmd.Context(), email); err != nil {
				return app.fail(serverMessage(err, "Failed to request password reset"), err)
			}
			app.notifier.Success("If the address is registered, a reset link has been sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	return cmd
}

func newResetPasswordCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if password, err = app.prompt(cmd, "New password", password); err != nil {
				return err
			}
			if err := app.client.ResetPassword(cmd.Context(), args[0], password); err != nil {
				return app.fail(serverMessage(err, "Failed to reset password"), err)
			}
			app.notifier.Success("Password reset successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password (at least 8 characters)")
	return cmd
}
