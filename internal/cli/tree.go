package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// treeCommand creates the tree command for printing the scenario hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the resolved scenario hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(args[0], root)
		},
	}

	cmd.Flags().StringVar(&root, "root", xdsm.RootName, "diagram to start from")

	return cmd
}

func (c *CLI) runTree(path, rootName string) error {
	doc, err := xdsm.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := doc.ResolveFrom(rootName)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(tree.Name))
	printTreeNodes(tree, "")
	printDetail("depth %d", tree.Depth())
	return nil
}

// printTreeNodes prints the nodes of a diagram, recursing into subdiagrams
// at the scenario node that references them.
func printTreeNodes(t *xdsm.Tree, indent string) {
	children := make(map[string]*xdsm.Tree, len(t.Children))
	for _, child := range t.Children {
		children[child.NodeID] = child
	}

	for i, node := range t.Diagram.Nodes {
		connector := "├─"
		childIndent := indent + "│  "
		if i == len(t.Diagram.Nodes)-1 {
			connector = "└─"
			childIndent = indent + "   "
		}

		label := StyleValue.Render(node.DisplayName())
		if node.IsScenario() {
			label = styleScenario.Render(node.DisplayName())
		}
		detail := StyleDim.Render(fmt.Sprintf("[%s]", nodeKind(node)))
		fmt.Printf("%s%s %s %s\n", indent, connector, label, detail)

		if child, ok := children[node.ID]; ok {
			fmt.Printf("%s%s\n", childIndent, StyleDim.Render(child.Name))
			printTreeNodes(child, childIndent)
		}
	}
}

// nodeKind returns a short label for a node's role.
func nodeKind(n xdsm.Node) string {
	if n.Type == "" {
		return "analysis"
	}
	return strings.ToLower(n.Type)
}
