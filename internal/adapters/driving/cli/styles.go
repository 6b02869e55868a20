package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// Output styles. Rendering is skipped when stdout is not a terminal so
// piped output stays plain.
var (
	referenceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	kindStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	levelStyles = map[domain.ComplianceLevel]lipgloss.Style{
		domain.LevelHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		domain.LevelMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		domain.LevelLow:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		domain.LevelNone:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// stdoutIsTTY is a variable for tests.
var stdoutIsTTY = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// render applies a style when writing to a terminal.
func render(style lipgloss.Style, s string) string {
	if !stdoutIsTTY() {
		return s
	}
	return style.Render(s)
}

// renderLevel styles a compliance level.
func renderLevel(level domain.ComplianceLevel) string {
	style, ok := levelStyles[level]
	if !ok {
		return level.String()
	}
	return render(style, level.String())
}
