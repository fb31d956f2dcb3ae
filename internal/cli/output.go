package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"nextday/internal/models"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

type printer struct {
	w        io.Writer
	id       lipgloss.Style
	done     lipgloss.Style
	check    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
}

func newPrinter(w io.Writer, theme string) printer {
	p := printer{
		w:        w,
		id:       lipgloss.NewStyle().Faint(true),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		check:    lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Faint(true),
	}
	switch theme {
	case "plain":
		p.id, p.done, p.selected, p.muted = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	case "light":
		p.check = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
	default:
		p.check = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	}
	return p
}

func (p printer) lists(lists []models.TodoList, selected int) {
	if len(lists) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("No lists yet. Create one with `nextday lists add <name>`."))
		return
	}
	for _, l := range lists {
		marker, name := "  ", l.Name
		if l.ID == selected {
			marker, name = "> ", p.selected.Render(l.Name)
		}
		fmt.Fprintf(p.w, "%s%s  %s\n", marker, p.id.Render(fmt.Sprintf("%3d", l.ID)), name)
	}
}

func (p printer) todos(list *models.TodoList, todos []models.Todo) {
	fmt.Fprintln(p.w, p.selected.Render(list.Name))
	if len(todos) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("  No todos yet."))
		return
	}
	for _, t := range todos {
		box, content := boxUnchecked, t.Content
		if t.Completed {
			box, content = p.check.Render(boxChecked), p.done.Render(t.Content)
		}
		fmt.Fprintf(p.w, "  %s  %s %s\n", p.id.Render(fmt.Sprintf("%3d", t.ID)), box, content)
	}
}

// sessions はセッション一覧を表示します。現在のセッションには "*" が付きます。
func (p printer) sessions(sessions []models.Session) {
	for _, s := range sessions {
		marker := "  "
		if s.Current {
			marker = "* "
		}
		agent := s.UserAgent
		if agent == "" {
			agent = "unknown client"
		}
		fmt.Fprintf(p.w, "%s%s  %s  %-15s  %s\n",
			marker,
			p.id.Render(s.ID),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.IPAddress,
			p.muted.Render(agent),
		)
	}
}
