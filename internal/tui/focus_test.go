package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextday/internal/models"
	"nextday/internal/notify"
	"nextday/internal/pomodoro"
	"nextday/internal/todo"
)

type fakeTodos struct {
	todos     []models.Todo
	updates   []models.UpdateTodoRequest
	updateErr error
	// started と release が設定されていれば UpdateTodo は開始を知らせ、release まで待ちます。
	started chan struct{}
	release chan struct{}
}

func (f *fakeTodos) ListTodos(ctx context.Context) ([]models.Todo, error) {
	return append([]models.Todo(nil), f.todos...), nil
}

func (f *fakeTodos) CreateTodo(ctx context.Context, listID int, content string) (*models.Todo, error) {
	t := models.Todo{ID: len(f.todos) + 1, Content: content, ListID: listID}
	f.todos = append(f.todos, t)
	return &t, nil
}

func (f *fakeTodos) UpdateTodo(ctx context.Context, id int, patch models.UpdateTodoRequest) (*models.Todo, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	f.updates = append(f.updates, patch)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		if patch.Completed != nil {
			f.todos[i].Completed = *patch.Completed
		}
		if patch.Content != nil {
			f.todos[i].Content = *patch.Content
		}
		t := f.todos[i]
		return &t, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeTodos) DeleteTodo(ctx context.Context, id int) error { return nil }

func setupFocus(t *testing.T, minutes string) (*Focus, *fakeTodos, *todo.List, *notify.Recorder) {
	t.Helper()
	api := &fakeTodos{todos: []models.Todo{
		{ID: 1, Content: "Write report", ListID: 10},
		{ID: 2, Content: "Already done", ListID: 10, Completed: true},
	}}
	notes := &notify.Recorder{}
	list := todo.NewList(api, notes, zap.NewNop())
	require.NoError(t, list.Load(context.Background(), 10))

	m, err := NewFocus(context.Background(), list, notes, 1, FocusConfig{
		DefaultMinutes: 25,
		Minutes:        minutes,
		Theme:          "plain",
	})
	require.NoError(t, err)
	m.after = func(d time.Duration, msg tea.Msg) tea.Cmd {
		return func() tea.Msg { return msg }
	}
	return m, api, list, notes
}

// run はコマンドを実行して得られたメッセージを平坦に集めます。
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Focus, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

// tick は現在の世代の tickMsg を n 回送り、最後のコマンドを返します。
func tick(m *Focus, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = m.Update(tickMsg{gen: m.tickGen})
	}
	return cmd
}

func TestNewFocus_RejectsInvalidTarget(t *testing.T) {
	api := &fakeTodos{todos: []models.Todo{{ID: 2, Content: "done", ListID: 10, Completed: true}}}
	notes := &notify.Recorder{}
	list := todo.NewList(api, notes, zap.NewNop())
	require.NoError(t, list.Load(context.Background(), 10))

	_, err := NewFocus(context.Background(), list, notes, 2, FocusConfig{DefaultMinutes: 25})
	assert.ErrorIs(t, err, todo.ErrTodoCompleted)

	_, err = NewFocus(context.Background(), list, notes, 99, FocusConfig{DefaultMinutes: 25})
	assert.ErrorIs(t, err, todo.ErrUnknownTodo)

	_, ok := list.TimerTarget()
	assert.False(t, ok)
}

func TestFocus_CompletesTodo(t *testing.T) {
	m, api, list, notes := setupFocus(t, "1")
	assert.Equal(t, pomodoro.Configuring, m.Timer().State())
	assert.Contains(t, m.View(), "01:00")
	assert.Contains(t, m.View(), "Write report")

	press(m, "enter")
	require.Equal(t, pomodoro.Running, m.Timer().State())

	tick(m, 59)
	assert.Equal(t, "00:01", m.Timer().Clock())

	msgs := run(tick(m, 1))
	assert.Equal(t, pomodoro.Completed, m.Timer().State())
	assert.Contains(t, m.View(), pomodoro.CompletedMessage)

	n, ok := notes.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: pomodoro.CompletedMessage}, n)

	_, more := find[tickMsg](msgs)
	assert.False(t, more, "ticking stops on completion")

	done, ok := find[completedMsg](msgs)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.Len(t, api.updates, 1)
	assert.True(t, *api.updates[0].Completed)

	_, ok = find[closeMsg](msgs)
	require.True(t, ok)

	m.Update(done)
	assert.True(t, m.Completed())
	updated, _ := list.Find(1)
	assert.True(t, updated.Completed)

	_, cmd := m.Update(closeMsg{})
	_, quit := find[tea.QuitMsg](run(cmd))
	assert.True(t, quit)
	assert.Equal(t, "", m.View())
	_, ok = list.TimerTarget()
	assert.False(t, ok)
}

func TestFocus_CloseWaitsForCompletion(t *testing.T) {
	m, _, _, _ := setupFocus(t, "1")
	press(m, "enter")
	msgs := run(tick(m, 60))
	done, ok := find[completedMsg](msgs)
	require.True(t, ok)

	_, cmd := m.Update(closeMsg{})
	assert.Nil(t, run(cmd))
	assert.Equal(t, pomodoro.Completed, m.Timer().State())

	_, cmd = m.Update(done)
	_, quit := find[tea.QuitMsg](run(cmd))
	assert.True(t, quit)
}

func TestFocus_CompletionFailureIsReported(t *testing.T) {
	m, api, list, notes := setupFocus(t, "1")
	api.updateErr = errors.New("boom")

	press(m, "enter")
	done, ok := find[completedMsg](run(tick(m, 60)))
	require.True(t, ok)
	require.Error(t, done.err)

	m.Update(done)
	assert.False(t, m.Completed())
	n, _ := notes.Last()
	assert.Equal(t, notify.KindError, n.Kind)
	assert.Equal(t, "Failed to complete todo after timer", n.Message)

	id, ok := list.TimerTarget()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestFocus_EarlyClose(t *testing.T) {
	m, api, list, _ := setupFocus(t, "")
	press(m, "enter")
	tick(m, 5)

	press(m, "q")
	assert.Equal(t, pomodoro.ConfirmingEarlyClose, m.Timer().State())
	assert.Contains(t, m.View(), "discard this session")

	press(m, "n")
	assert.Equal(t, pomodoro.Running, m.Timer().State())
	assert.Equal(t, "24:55", m.Timer().Clock())

	press(m, "q")
	tick(m, 2)
	assert.Equal(t, "24:53", m.Timer().Clock(), "countdown continues while confirming")

	_, quit := find[tea.QuitMsg](run(press(m, "y")))
	assert.True(t, quit)
	assert.Empty(t, api.updates)
	_, ok := list.TimerTarget()
	assert.False(t, ok)
}

func TestFocus_CtrlCWhileRunningAsksFirst(t *testing.T) {
	m, api, list, _ := setupFocus(t, "")
	press(m, "enter")
	tick(m, 3)

	_, quit := find[tea.QuitMsg](run(press(m, "ctrl+c")))
	assert.False(t, quit)
	assert.Equal(t, pomodoro.ConfirmingEarlyClose, m.Timer().State())
	assert.Contains(t, m.View(), "discard this session")

	press(m, "n")
	assert.Equal(t, pomodoro.Running, m.Timer().State())

	press(m, "ctrl+c")
	_, quit = find[tea.QuitMsg](run(press(m, "ctrl+c")))
	assert.True(t, quit, "a second ctrl+c confirms")
	assert.Empty(t, api.updates)
	_, ok := list.TimerTarget()
	assert.False(t, ok)
}

func TestFocus_CtrlCBeforeStartCloses(t *testing.T) {
	m, _, list, _ := setupFocus(t, "")

	_, quit := find[tea.QuitMsg](run(press(m, "ctrl+c")))
	assert.True(t, quit)
	assert.Equal(t, pomodoro.Idle, m.Timer().State())
	_, ok := list.TimerTarget()
	assert.False(t, ok)
}

func TestFocus_CtrlCWaitsForCompletion(t *testing.T) {
	m, api, list, _ := setupFocus(t, "1")
	press(m, "enter")
	done, ok := find[completedMsg](run(tick(m, 60)))
	require.True(t, ok)

	_, quit := find[tea.QuitMsg](run(press(m, "ctrl+c")))
	assert.False(t, quit, "close waits for the completion response")
	assert.Equal(t, pomodoro.Completed, m.Timer().State())

	_, cmd := m.Update(done)
	_, quit = find[tea.QuitMsg](run(cmd))
	assert.True(t, quit)
	assert.True(t, m.Completed())
	require.Len(t, api.updates, 1)
	updated, _ := list.Find(1)
	assert.True(t, updated.Completed)
}

func TestFocus_WaitBlocksOnInflightCompletion(t *testing.T) {
	m, api, _, _ := setupFocus(t, "1")
	api.started = make(chan struct{})
	api.release = make(chan struct{})
	m.wait()

	press(m, "enter")
	cmd := tick(m, 60)
	go run(cmd)
	<-api.started

	waited := make(chan struct{})
	go func() {
		m.wait()
		close(waited)
	}()
	select {
	case <-waited:
		t.Fatal("wait returned while the request was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(api.release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after the request finished")
	}
	assert.Len(t, api.updates, 1)
}

func TestFocus_DurationInput(t *testing.T) {
	m, _, _, _ := setupFocus(t, "")
	assert.Equal(t, 25, m.Timer().Minutes())

	press(m, "backspace", "backspace")
	assert.Equal(t, 1, m.Timer().Minutes(), "empty input falls back to one minute")

	press(m, "9", "x", "0")
	assert.Equal(t, 60, m.Timer().Minutes())
	assert.Equal(t, "60:00", m.Timer().Clock())

	press(m, "enter")
	press(m, "backspace", "5")
	assert.Equal(t, 60, m.Timer().Minutes(), "input is locked while running")
	assert.Contains(t, m.View(), "Duration: 60 minutes")
}

func TestFocus_PauseDropsStaleTicks(t *testing.T) {
	m, _, _, _ := setupFocus(t, "")
	press(m, "enter")
	stale := m.tickGen
	tick(m, 3)

	press(m, "p")
	assert.Equal(t, pomodoro.Paused, m.Timer().State())
	m.Update(tickMsg{gen: stale})
	m.Update(tickMsg{gen: m.tickGen})
	assert.Equal(t, "24:57", m.Timer().Clock())

	press(m, "p")
	tick(m, 1)
	assert.Equal(t, "24:56", m.Timer().Clock())
}

func TestFocus_QuoteFade(t *testing.T) {
	m, _, _, _ := setupFocus(t, "")
	m.Timer().Rand = func(n int) int { return 3 }
	press(m, "enter")

	msgs := run(tick(m, pomodoro.QuoteInterval))
	fade, ok := find[fadeMsg](msgs)
	require.True(t, ok)
	_, visible := m.Timer().Quote()
	assert.False(t, visible)

	m.Update(fade)
	q, visible := m.Timer().Quote()
	assert.True(t, visible)
	assert.Equal(t, pomodoro.Quotes[3], q)
	assert.Contains(t, m.View(), pomodoro.Quotes[3].Author)
}

func TestNewStyles_Themes(t *testing.T) {
	for _, theme := range []string{"dark", "light", "plain", ""} {
		s := NewStyles(theme)
		assert.NotEmpty(t, s.Confetti, theme)
		assert.NotEmpty(t, s.GradientStart, theme)
	}
}
