// Package cli は nextday コマンドです。
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nextday/internal/apiclient"
	"nextday/internal/config"
	"nextday/internal/logging"
	"nextday/internal/notify"
	"nextday/internal/tui"
	"nextday/internal/user"
)

var (
	errNotLoggedIn    = errors.New("not logged in; run `nextday login`")
	errSessionExpired = errors.New("session expired; run `nextday login`")
)

// App はコマンド間で共有する状態です。
type App struct {
	ServerURL  string
	ConfigPath string
	SessionDir string
	Verbose    bool

	cfg      *config.Client
	logger   *zap.Logger
	store    *user.Store
	client   *apiclient.Client
	notifier notify.Notifier
	session  *user.Session
	in       *bufio.Reader

	// runFocus はフォーカス画面を実行します。テストで差し替えます。
	runFocus func(ctx context.Context, m *tui.Focus) (*tui.Focus, error)
}

// reportedError は利用者に通知済みのエラーです。Execute は再表示しません。
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// settle はコンポーネントが通知済みのリクエスト失敗を reportedError にします。
func settle(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apiclient.ErrRequestFailed) {
		return reportedError{err}
	}
	return err
}

// NewRootCmd は nextday のルートコマンドを作ります。
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{runFocus: tui.RunFocus})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nextday",
		Short:         "NextDay todo lists and pomodoro timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  nextday login --email you@example.com
  nextday lists add Work
  nextday todos add --list 1 Write report
  nextday focus 3 --minutes 25
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", "", "API server URL (overrides config and NEXTDAY_SERVER)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.yaml (default ~/.nextday/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.SessionDir, "session-dir", "", "Directory holding session.json (default ~/.nextday)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log requests to stderr")
	_ = cmd.PersistentFlags().MarkHidden("session-dir")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newPasswdCmd(app))
	cmd.AddCommand(newForgotPasswordCmd(app))
	cmd.AddCommand(newResetPasswordCmd(app))
	cmd.AddCommand(newSessionsCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newTodosCmd(app))
	cmd.AddCommand(newFocusCmd(app))
	return cmd
}

// Execute はコマンドを実行し、終了コードを返します。
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: "+err.Error())
	}
	if errors.Is(err, apiclient.ErrUnauthenticated) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Your session is invalid or expired; run `nextday login`.")
	}
	return 1
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClient(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.ServerURL != "" {
		cfg.ServerURL = strings.TrimRight(a.ServerURL, "/")
	}
	a.cfg = cfg
	a.logger = logging.NewCLI(a.Verbose)

	dir := a.SessionDir
	if dir == "" {
		if dir, err = config.ClientDir(); err != nil {
			return err
		}
	}
	a.store = user.NewStore(dir)
	if a.session, err = a.store.Load(); err != nil {
		return err
	}

	token := ""
	if a.session != nil {
		token = a.session.Token
	}
	a.client = apiclient.New(cfg.ServerURL, token, a.logger)
	a.notifier = notify.NewConsole(cmd.ErrOrStderr(), cfg.Theme)
	a.logger.Debug("client configured", zap.String("server", cfg.ServerURL), zap.Bool("session", a.session != nil))
	return nil
}

// requireSession はログイン済みであることを確認します。
func (a *App) requireSession() error {
	if a.session == nil {
		return errNotLoggedIn
	}
	if a.session.Expired(time.Now()) {
		return errSessionExpired
	}
	return nil
}

// fail は失敗を通知して reportedError を返します。
func (a *App) fail(msg string, err error) error {
	a.logger.Debug(msg, zap.Error(err))
	a.notifier.Error(msg)
	return reportedError{fmt.Errorf("%s: %w", strings.ToLower(msg), err)}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// readLine は標準入力から 1 行読みます。改行は含みません。
func (a *App) readLine(r io.Reader) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(r)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt は値が空なら端末から入力を求めます。
func (a *App) prompt(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), label+": ")
	v, err := a.readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(v), nil
}

// confirm は y/N の確認を求めます。
func (a *App) confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), question+" [y/N] ")
	v, err := a.readLine(cmd.InOrStdin())
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes":
		return true
	}
	return false
}
