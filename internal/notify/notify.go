// Package notify は操作結果の一時的な通知を表示します。
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier は成功・失敗の通知先です。
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Console は lipgloss で色付けした1行の通知を書き出します。
type Console struct {
	w            io.Writer
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewConsole は theme ("dark", "light", "plain") に合わせた Console を作ります。
func NewConsole(w io.Writer, theme string) *Console {
	c := &Console{w: w}
	switch theme {
	case "plain":
		c.successStyle = lipgloss.NewStyle()
		c.errorStyle = lipgloss.NewStyle()
	case "light":
		c.successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
		c.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true)
	default:
		c.successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		c.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	}
	return c
}

func (c *Console) Success(msg string) {
	fmt.Fprintln(c.w, c.successStyle.Render("✔ "+msg))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.w, c.errorStyle.Render("✖ "+msg))
}

// Kind は通知の種類です。
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

type Notification struct {
	Kind    Kind
	Message string
}

// Recorder は通知を記録するだけの Notifier です。TUI はこれを画面に描画します。
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: k, Message: msg})
}

// All は記録された通知のコピーを返します。
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last は最後の通知を返します。
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Drain は記録をすべて取り出して空にします。
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}
