package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/machviz/machina/pkg/manifest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DiagramListModel - Interactive diagram selection
// =============================================================================

// DiagramListModel is the bubbletea model for picking a diagram from a
// manifest that defines more than one.
type DiagramListModel struct {
	Entries  []manifest.Entry
	Cursor   int
	Selected *manifest.Entry
}

// NewDiagramListModel creates a new diagram list model.
func NewDiagramListModel(entries []manifest.Entry) DiagramListModel {
	return DiagramListModel{Entries: entries}
}

func (m DiagramListModel) Init() tea.Cmd {
	return nil
}

func (m DiagramListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Entries[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DiagramListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-25s  %s", cursor, e.Name, listDimStyle.Render(e.Kind))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickDiagram runs the interactive picker and returns the chosen entry,
// or nil if the user quit without selecting.
func pickDiagram(entries []manifest.Entry) (*manifest.Entry, error) {
	p := tea.NewProgram(NewDiagramListModel(entries))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run diagram picker: %w", err)
	}
	model, ok := final.(DiagramListModel)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model %T", final)
	}
	return model.Selected, nil
}
