// Package tui implements the interactive patch review screen: the parsed
// operations are rendered as markdown in a scrollable viewport and the user
// confirms or rejects the apply.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	glam "github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/stitchpatch/stitch/pkg/patch"
)

type model struct {
	markdown string
	vp       viewport.Model
	ready    bool
	approved bool
	done     bool

	titleStyle  lipgloss.Style
	footerStyle lipgloss.Style
}

func newModel(markdown string) *model {
	return &model{
		markdown: markdown,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("129")).
			PaddingLeft(1).
			PaddingRight(1),
		footerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight - footerHeight
		}
		m.vp.SetContent(m.renderMarkdown(msg.Width))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "enter":
			m.approved = true
			m.done = true
			return m, tea.Quit
		case "n", "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if !m.ready {
		return "loading…"
	}
	header := m.titleStyle.Render("Review patch") + "\n"
	footer := "\n" + m.footerStyle.Render("y apply · n cancel · ↑/↓ scroll")
	return header + m.vp.View() + footer
}

// renderMarkdown renders the summary through glamour, falling back to the raw
// markdown when the renderer cannot be built.
func (m *model) renderMarkdown(width int) string {
	if width < 10 {
		width = 10
	}
	renderer, err := glam.NewTermRenderer(
		glam.WithAutoStyle(),
		glam.WithWordWrap(width-2),
	)
	if err != nil {
		return m.markdown
	}
	out, err := renderer.Render(m.markdown)
	if err != nil {
		return m.markdown
	}
	return out
}

// Run shows the review screen for the given patches and reports whether the
// user approved applying them.
func Run(patches []patch.Patch) (bool, error) {
	m := newModel(SummaryMarkdown(patches))
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	result, ok := final.(*model)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", final)
	}
	return result.approved, nil
}

// SummaryMarkdown renders the parsed operations as markdown for the review
// screen: one section per file with its hunks or added lines fenced.
func SummaryMarkdown(patches []patch.Patch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Patch review\n\n%d operation(s).\n", len(patches))
	for _, p := range patches {
		switch p.Op {
		case patch.OpUpdate:
			fmt.Fprintf(&b, "\n## Update `%s`\n", p.Path)
			for _, hunk := range p.Hunks {
				b.WriteString("\n```diff\n")
				for _, line := range hunk.Lines {
					switch line.Kind {
					case patch.LineAdded:
						b.WriteString("+")
					case patch.LineRemoved:
						b.WriteString("-")
					default:
						b.WriteString(" ")
					}
					b.WriteString(line.Text)
					b.WriteString("\n")
				}
				b.WriteString("```\n")
			}
		case patch.OpAdd:
			fmt.Fprintf(&b, "\n## Add `%s`\n\n```\n", p.Path)
			for _, line := range p.AddLines {
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("```\n")
		case patch.OpDelete:
			fmt.Fprintf(&b, "\n## Delete `%s`\n", p.Path)
		}
	}
	return b.String()
}
