// Package progress draws a one-line spinner on stderr while a crawl runs.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pf-cli/pf/icon"
	"github.com/pf-cli/pf/style"
	"github.com/pf-cli/pf/util"
)

type (
	pageMsg  struct{ url string }
	itemMsg  struct{ strategy string }
	foundMsg struct{ url string }
	doneMsg  struct{}
)

// Model is the bubbletea model behind Reporter.
type Model struct {
	spinnerC spinner.Model

	site  string
	pages int
	items int
	found int
	last  string
	width int
	done  bool

	misses int
}

// New returns a model for a crawl of site.
func New(site string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{spinnerC: s, site: site}
}

func (m Model) Init() tea.Cmd {
	return m.spinnerC.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case pageMsg:
		m.pages++
		return m, nil
	case itemMsg:
		m.items++
		if msg.strategy == "" {
			m.misses++
		}
		return m, nil
	case foundMsg:
		m.found++
		m.last = msg.url
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinnerC, cmd = m.spinnerC.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s, %s, %s",
		m.spinnerC.View(),
		style.Bold(m.site),
		util.Quantify(m.pages, "page", "pages"),
		util.Quantify(m.items, "item", "items"),
		style.Success(util.Quantify(m.found, "video", "videos")),
	)

	if m.misses > 0 {
		fmt.Fprintf(&b, " %s", style.Faint(fmt.Sprintf("(%d without video)", m.misses)))
	}

	if m.last != "" {
		fmt.Fprintf(&b, " %s %s", icon.Get(icon.Link), style.Faint(m.last))
	}

	return style.Truncate(m.width)(b.String())
}
