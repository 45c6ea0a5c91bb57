package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mhertel/xdsmview/pkg/dsm"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// matrixCommand creates the matrix command for printing the design structure
// matrix of a diagram.
func (c *CLI) matrixCommand() *cobra.Command {
	var diagram string
	var showVariables bool

	cmd := &cobra.Command{
		Use:   "matrix [file]",
		Short: "Print the design structure matrix of a diagram",
		Long: `Matrix prints the coupling structure of one diagram as a design structure
matrix: rows are producers, columns consumers, and each filled cell lists the
variables flowing between two nodes. Feedback couplings (cells below the
diagonal in workflow order) and coupling loops are reported separately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatrix(args[0], diagram, showVariables)
		},
	}

	cmd.Flags().StringVar(&diagram, "diagram", xdsm.RootName, "diagram to analyze")
	cmd.Flags().BoolVar(&showVariables, "variables", false, "show coupling variables in cells")

	return cmd
}

func (c *CLI) runMatrix(path, name string, showVariables bool) error {
	doc, err := xdsm.ReadFile(path)
	if err != nil {
		return err
	}

	dg, ok := doc[name]
	if !ok {
		return fmt.Errorf("diagram %q not found (have: %s)", name, strings.Join(doc.Names(), ", "))
	}

	m := dsm.Build(dg)
	ids := m.IDs()

	fmt.Println(StyleTitle.Render("DSM: " + name))
	fmt.Println(renderMatrixTable(m, ids, showVariables))

	if feedback := m.Feedback(); len(feedback) > 0 {
		printWarning("%d feedback coupling(s)", len(feedback))
		for _, fb := range feedback {
			fmt.Println("  " + styleFeedback.Render(fmt.Sprintf("%s %s %s", fb.From, iconArrow, fb.To)) +
				StyleDim.Render("  ("+strings.Join(fb.Variables, ", ")+")"))
		}
	}
	if loops := m.Loops(); len(loops) > 0 {
		printInfo("%d coupling loop(s)", len(loops))
		for _, loop := range loops {
			printDetail("%s", strings.Join(loop, " ⇄ "))
		}
	}
	return nil
}

// renderMatrixTable builds the styled DSM grid. Diagonal cells show the node
// id; off-diagonal cells mark couplings.
func renderMatrixTable(m *dsm.Matrix, ids []string, showVariables bool) string {
	headers := append([]string{""}, ids...)

	rows := make([][]string, 0, len(ids))
	for _, from := range ids {
		row := make([]string, 0, len(ids)+1)
		row = append(row, from)
		for _, to := range ids {
			switch {
			case from == to:
				row = append(row, StyleDim.Render("·"))
			case m.HasCoupling(from, to):
				cell := "x"
				if showVariables {
					cell = strings.Join(m.Variables(from, to), ",")
				}
				row = append(row, StyleHighlight.Render(cell))
			default:
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}
