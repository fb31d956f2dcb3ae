// Package tui はターミナル上のポモドーロ画面です。
package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"nextday/internal/notify"
	"nextday/internal/pomodoro"
	"nextday/internal/todo"
)

const (
	confettiFrames   = 30
	confettiInterval = 80 * time.Millisecond
	confettiCount    = 40
	confettiWidth    = 44
	confettiHeight   = 6
)

type tickMsg struct{ gen int }

type fadeMsg struct{ gen int }

type closeMsg struct{}

type confettiMsg struct{}

type completedMsg struct{ err error }

// FocusConfig はフォーカス画面の設定です。
type FocusConfig struct {
	// DefaultMinutes は閉じたあとに戻る作業時間です。
	DefaultMinutes int
	// Minutes が空でなければ開いた直後に入力欄へ設定します。
	Minutes string
	Theme   string
	Logger  *zap.Logger
}

type particle struct {
	x, y  int
	glyph string
	color lipgloss.TerminalColor
}

// Focus は 1 件の todo に対するポモドーロダイアログを表示する bubbletea モデルです。
type Focus struct {
	ctx    context.Context
	list   *todo.List
	notes  *notify.Recorder
	logger *zap.Logger
	styles Styles

	timer   *pomodoro.Timer
	content string
	input   textinput.Model
	bar     progress.Model

	// after は遅延メッセージを作ります。テストでは即時に差し替えます。
	after func(d time.Duration, msg tea.Msg) tea.Cmd

	tickGen        int
	completePend   bool
	completing     bool
	closeRequested bool
	done           bool
	completed      bool
	confetti       []particle
	confettiLeft   int

	// pending は実行中の完了リクエストが終わると閉じます。
	mu      sync.Mutex
	pending chan struct{}
}

// NewFocus は todoID をタイマー対象にしてダイアログを開きます。
// todo が表示中のリストに無い場合や完了済みの場合はエラーです。
func NewFocus(ctx context.Context, list *todo.List, notes *notify.Recorder, todoID int, cfg FocusConfig) (*Focus, error) {
	if err := list.StartTimer(todoID); err != nil {
		return nil, err
	}
	t, _ := list.Find(todoID)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Focus{
		ctx:     ctx,
		list:    list,
		notes:   notes,
		logger:  logger,
		styles:  NewStyles(cfg.Theme),
		content: t.Content,
		after: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
	m.timer = pomodoro.NewTimer(cfg.DefaultMinutes, func(int) { m.completePend = true })
	m.timer.Open(todoID)
	if cfg.Minutes != "" {
		if _, err := m.timer.SetDuration(cfg.Minutes); err != nil {
			return nil, err
		}
	}

	m.input = textinput.New()
	m.input.Prompt = "Duration (minutes): "
	m.input.CharLimit = 2
	m.input.Width = 3
	m.input.SetValue(strconv.Itoa(m.timer.Minutes()))
	m.input.Focus()

	m.bar = progress.New(
		progress.WithGradient(m.styles.GradientStart, m.styles.GradientEnd),
		progress.WithoutPercentage(),
	)
	m.bar.Width = 40
	return m, nil
}

// Timer はダイアログが保持するタイマーです。
func (m *Focus) Timer() *pomodoro.Timer { return m.timer }

// Completed はタイマーが最後まで進み、todo の完了に成功したかを返します。
func (m *Focus) Completed() bool { return m.completed }

func (m *Focus) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Focus) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		w := msg.Width - 12
		if w > 60 {
			w = 60
		}
		if w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen || !m.counting() {
			return m, nil
		}
		cmds := []tea.Cmd{m.apply(m.timer.Tick())}
		if m.completePend {
			m.completePend = false
			cmds = append(cmds, m.completeCmd())
		}
		if m.counting() {
			cmds = append(cmds, m.tick())
		}
		return m, tea.Batch(cmds...)

	case fadeMsg:
		m.timer.FadeInQuote(msg.gen)
		return m, nil

	case confettiMsg:
		if m.confettiLeft <= 0 {
			m.confetti = nil
			return m, nil
		}
		m.confettiLeft--
		for i := range m.confetti {
			m.confetti[i].y++
			m.confetti[i].x += rand.IntN(3) - 1
		}
		return m, m.after(confettiInterval, confettiMsg{})

	case completedMsg:
		m.completing = false
		if msg.err == nil {
			m.completed = true
		} else {
			m.logger.Debug("complete timed todo failed", zap.Error(msg.err))
		}
		if m.closeRequested {
			return m, m.apply(m.timer.Finish())
		}
		return m, nil

	case closeMsg:
		return m, m.finish()
	}
	return m, nil
}

func (m *Focus) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return m.interrupt()
	}

	switch m.timer.State() {
	case pomodoro.ConfirmingEarlyClose:
		switch key {
		case "y", "Y":
			return m.apply(m.timer.ConfirmClose())
		case "n", "N", "esc":
			return m.apply(m.timer.CancelClose())
		}
		return nil

	case pomodoro.Completed:
		if key == "q" || key == "esc" {
			return m.finish()
		}
		return nil
	}

	switch key {
	case "q", "esc":
		return m.apply(m.timer.RequestClose())
	case "enter", " ", "p":
		return m.toggle()
	}

	if m.timer.DurationLocked() || (msg.Type == tea.KeyRunes && !digits(msg.Runes)) {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, err := m.timer.SetDuration(m.input.Value()); err != nil {
		m.logger.Debug("set duration rejected", zap.Error(err))
	}
	return cmd
}

// interrupt は ctrl+c を閉じる操作として扱います。
// 計測中は確認を挟み、確認中にもう一度押されると閉じます。
func (m *Focus) interrupt() tea.Cmd {
	switch m.timer.State() {
	case pomodoro.ConfirmingEarlyClose:
		return m.apply(m.timer.ConfirmClose())
	case pomodoro.Completed:
		return m.finish()
	}
	return m.apply(m.timer.RequestClose())
}

// finish は完了後のダイアログを閉じます。完了リクエストの応答前なら応答を待ちます。
func (m *Focus) finish() tea.Cmd {
	if m.completing {
		m.closeRequested = true
		return nil
	}
	return m.apply(m.timer.Finish())
}

func digits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m *Focus) toggle() tea.Cmd {
	m.timer.Toggle()
	if m.timer.State() == pomodoro.Running {
		m.input.SetValue(strconv.Itoa(m.timer.Minutes()))
		m.input.Blur()
		return m.tick()
	}
	m.tickGen++
	return m.input.Focus()
}

// apply は Effects を bubbletea のコマンドに変換します。
func (m *Focus) apply(e pomodoro.Effects) tea.Cmd {
	var cmds []tea.Cmd
	if e.ScheduleFadeIn {
		cmds = append(cmds, m.after(pomodoro.FadeDelay, fadeMsg{gen: e.FadeGeneration}))
	}
	if e.Celebrate {
		m.notes.Success(pomodoro.CompletedMessage)
		m.startConfetti()
		cmds = append(cmds, m.after(confettiInterval, confettiMsg{}))
	}
	if e.ScheduleClose {
		cmds = append(cmds, m.after(pomodoro.CloseDelay, closeMsg{}))
	}
	if e.Close {
		m.close()
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

func (m *Focus) close() {
	m.done = true
	m.tickGen++
	m.list.ClearTimer()
}

func (m *Focus) counting() bool {
	s := m.timer.State()
	return s == pomodoro.Running || s == pomodoro.ConfirmingEarlyClose
}

func (m *Focus) tick() tea.Cmd {
	m.tickGen++
	return m.after(pomodoro.TickInterval, tickMsg{gen: m.tickGen})
}

func (m *Focus) completeCmd() tea.Cmd {
	m.completing = true
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		done := make(chan struct{})
		m.mu.Lock()
		m.pending = done
		m.mu.Unlock()
		defer close(done)
		return completedMsg{err: list.CompleteTimed(ctx)}
	}
}

// wait は実行中の完了リクエストがあれば終わるまで待ちます。
func (m *Focus) wait() {
	m.mu.Lock()
	done := m.pending
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (m *Focus) startConfetti() {
	glyphs := []string{"*", "•", "✦", "◆", "▲", "●"}
	m.confetti = make([]particle, confettiCount)
	for i := range m.confetti {
		m.confetti[i] = particle{
			x:     rand.IntN(confettiWidth),
			y:     -rand.IntN(confettiHeight),
			glyph: glyphs[rand.IntN(len(glyphs))],
			color: m.styles.Confetti[rand.IntN(len(m.styles.Confetti))],
		}
	}
	m.confettiLeft = confettiFrames
}

func (m *Focus) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	if len(m.confetti) > 0 {
		b.WriteString(m.renderConfetti())
		b.WriteString("\n")
	}

	var sections []string
	sections = append(sections, m.styles.Title.Render("🍅 Focus: "+m.content))

	q, visible := m.timer.Quote()
	if visible {
		sections = append(sections, "", m.styles.Quote.Render("“"+q.Text+"”"), m.styles.Author.Render("- "+q.Author))
	} else {
		sections = append(sections, "", "", "")
	}

	clock := m.styles.Clock
	if m.timer.State() == pomodoro.Paused {
		clock = m.styles.Paused
	}
	sections = append(sections, "", clock.Render(m.timer.Clock()), m.bar.ViewAs(m.timer.Progress()), "")

	if m.timer.DurationLocked() {
		sections = append(sections, m.styles.Help.Render(fmt.Sprintf("Duration: %d minutes", m.timer.Minutes())))
	} else {
		sections = append(sections, m.input.View())
	}

	sections = append(sections, "")
	switch m.timer.State() {
	case pomodoro.ConfirmingEarlyClose:
		sections = append(sections, m.styles.Warn.Render("The timer is still running. Close and discard this session? [y/N]"))
	case pomodoro.Completed:
		sections = append(sections, m.styles.Success.Render("🎉 "+pomodoro.CompletedMessage))
	case pomodoro.Running:
		sections = append(sections, m.styles.Help.Render("[p]ause  [q] close"))
	default:
		sections = append(sections, m.styles.Help.Render("[enter] start  [q] close"))
	}

	if n, ok := m.notes.Last(); ok && n.Kind == notify.KindError {
		sections = append(sections, m.styles.Error.Render("✖ "+n.Message))
	}

	b.WriteString(m.styles.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)))
	b.WriteString("\n")
	return b.String()
}

func (m *Focus) renderConfetti() string {
	rows := make([][]string, confettiHeight)
	for i := range rows {
		rows[i] = make([]string, confettiWidth)
		for j := range rows[i] {
			rows[i][j] = " "
		}
	}
	for _, p := range m.confetti {
		if p.y < 0 || p.y >= confettiHeight || p.x < 0 || p.x >= confettiWidth {
			continue
		}
		rows[p.y][p.x] = lipgloss.NewStyle().Foreground(p.color).Render(p.glyph)
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, "")
	}
	return strings.Join(lines, "\n")
}

// RunFocus はフォーカス画面を端末で実行し、終了後のモデルを返します。
// 完了リクエストが実行中なら、その結果が反映されてから戻ります。
func RunFocus(ctx context.Context, m *Focus) (*Focus, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	m.wait()
	m.list.ClearTimer()
	if err != nil {
		return m, fmt.Errorf("focus: %w", err)
	}
	if f, ok := final.(*Focus); ok {
		return f, nil
	}
	return m, nil
}
