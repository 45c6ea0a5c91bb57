package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mhertel/xdsmview/pkg/dsm"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for interactive exploration.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Interactively explore the diagrams of a document",
		Long: `Browse opens a terminal UI over the document's diagram hierarchy.
The node list shows the current diagram; pressing enter on a scenario node
descends into its subdiagram, and esc returns to the parent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := xdsm.ReadFile(args[0])
			if err != nil {
				return err
			}

			model := NewBrowseModel(doc)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// BrowseModel - Interactive diagram browser
// =============================================================================

// BrowseModel is the bubbletea model for walking a document's diagram
// hierarchy. It shows the nodes of one diagram at a time; scenario nodes
// can be entered, and a stack tracks the path back to the root.
type BrowseModel struct {
	Document xdsm.Document
	Current  string   // name of the diagram being shown
	Stack    []string // parent diagram names, root first
	Cursor   int
	Height   int
	Offset   int
}

// NewBrowseModel creates a browser model positioned at the root diagram.
func NewBrowseModel(doc xdsm.Document) BrowseModel {
	current := xdsm.RootName
	if _, ok := doc[current]; !ok {
		// Fall back to the first diagram for documents without a root key.
		if names := doc.Names(); len(names) > 0 {
			current = names[0]
		}
	}
	return BrowseModel{
		Document: doc,
		Current:  current,
		Height:   15,
	}
}

// diagram returns the diagram being shown, or nil.
func (m BrowseModel) diagram() *xdsm.Diagram {
	return m.Document[m.Current]
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	dg := m.diagram()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if dg != nil && m.Cursor < len(dg.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if dg == nil || m.Cursor >= len(dg.Nodes) {
				return m, nil
			}
			node := dg.Nodes[m.Cursor]
			if node.IsScenario() {
				if _, ok := m.Document[node.SubXDSM]; ok {
					m.Stack = append(m.Stack, m.Current)
					m.Current = node.SubXDSM
					m.Cursor = 0
					m.Offset = 0
				}
			}
		case "esc", "left", "h":
			if len(m.Stack) > 0 {
				m.Current = m.Stack[len(m.Stack)-1]
				m.Stack = m.Stack[:len(m.Stack)-1]
				m.Cursor = 0
				m.Offset = 0
			} else if msg.String() == "esc" {
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ descend  esc back  q quit"))
	b.WriteString("\n\n")

	dg := m.diagram()
	if dg == nil {
		b.WriteString(listDimStyle.Render("missing diagram"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(dg.Nodes) {
		end = len(dg.Nodes)
	}

	for i := m.Offset; i < end; i++ {
		node := dg.Nodes[i]
		label := fmt.Sprintf("%s %s", node.DisplayName(), listDimStyle.Render("["+nodeKind(node)+"]"))
		if node.IsScenario() {
			label += listDimStyle.Render(" » " + node.SubXDSM)
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("› ") + listNormalStyle.Render(label))
		} else {
			b.WriteString("  " + listNormalStyle.Render(label))
		}
		b.WriteString("\n")
	}

	matrix := dsm.Build(dg)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges · %d feedback · %d loops",
		dg.NodeCount(), dg.EdgeCount(), len(matrix.Feedback()), len(matrix.Loops()))))

	return b.String()
}

// breadcrumb renders the navigation path from the root to the current
// diagram.
func (m BrowseModel) breadcrumb() string {
	if len(m.Stack) == 0 {
		return m.Current
	}
	return strings.Join(append(append([]string{}, m.Stack...), m.Current), " / ")
}
