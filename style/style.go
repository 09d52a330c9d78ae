// Package style holds the lipgloss styles used by pf's terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pf-cli/pf/color"
	"github.com/pf-cli/pf/key"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/viper"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer painting its input in c. Colors are skipped when
// cli.colored is off.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string {
		if !viper.GetBool(key.CliColored) {
			return s
		}
		return Colored(c, "").Render(s)
	}
}

// Truncate cuts s to width cells, ending with an ellipsis when cut.
func Truncate(width int) func(string) string {
	return func(s string) string {
		if width <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(width), "…")
	}
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Semantic renderers.
var (
	Success = Fg(color.Green)
	Warning = Fg(color.Yellow)
	Failure = Fg(color.Red)
	Accent  = Fg(color.Purple)
)

// Tag renders s as a padded colored block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// ErrorTitle is the banner printed before fatal errors.
var ErrorTitle = Tag(color.New("230"), color.Red)
