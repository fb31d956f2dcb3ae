package tui

import "github.com/charmbracelet/lipgloss"

// Styles はフォーカス画面の配色です。
type Styles struct {
	Title   lipgloss.Style
	Clock   lipgloss.Style
	Paused  lipgloss.Style
	Quote   lipgloss.Style
	Author  lipgloss.Style
	Help    lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Frame   lipgloss.Style

	GradientStart string
	GradientEnd   string
	Confetti      []lipgloss.TerminalColor
}

// NewStyles は theme ("dark", "light", "plain") の配色を返します。
func NewStyles(theme string) Styles {
	s := Styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Clock:  lipgloss.NewStyle().Bold(true).Padding(0, 2),
		Paused: lipgloss.NewStyle().Bold(true).Padding(0, 2).Faint(true),
		Quote:  lipgloss.NewStyle().Italic(true),
		Author: lipgloss.NewStyle().Faint(true),
		Help:   lipgloss.NewStyle().Faint(true),
		Frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}

	switch theme {
	case "plain":
		s.Warn = lipgloss.NewStyle().Bold(true)
		s.Success = lipgloss.NewStyle()
		s.Error = lipgloss.NewStyle().Bold(true)
		s.GradientStart, s.GradientEnd = "#888888", "#888888"
		s.Confetti = []lipgloss.TerminalColor{lipgloss.NoColor{}}
	case "light":
		s.Title = s.Title.Foreground(lipgloss.Color("124"))
		s.Clock = s.Clock.Foreground(lipgloss.Color("124"))
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("130")).Bold(true)
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true)
		s.Frame = s.Frame.BorderForeground(lipgloss.Color("245"))
		s.GradientStart, s.GradientEnd = "#C0392B", "#E67E22"
		s.Confetti = []lipgloss.TerminalColor{lipgloss.Color("124"), lipgloss.Color("28"), lipgloss.Color("20"), lipgloss.Color("130"), lipgloss.Color("90")}
	default:
		s.Title = s.Title.Foreground(lipgloss.Color("203"))
		s.Clock = s.Clock.Foreground(lipgloss.Color("203"))
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		s.Frame = s.Frame.BorderForeground(lipgloss.Color("8"))
		s.GradientStart, s.GradientEnd = "#FF6B6B", "#FFD93D"
		s.Confetti = []lipgloss.TerminalColor{lipgloss.Color("203"), lipgloss.Color("214"), lipgloss.Color("226"), lipgloss.Color("42"), lipgloss.Color("39"), lipgloss.Color("171")}
	}
	return s
}
