package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/mhertel/xdsmview/pkg/errors"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var checkCycles bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate an XDSM workflow document",
		Long: `Validate checks a workflow document against the format rules: every
referenced node and subdiagram must exist, node identifiers must be unique
within a diagram, and workflows must start at the user boundary. With
--cycles, subdiagram references are also resolved to detect cyclic nesting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], checkCycles)
		},
	}

	cmd.Flags().BoolVar(&checkCycles, "cycles", true, "resolve subdiagrams to detect cyclic nesting")

	return cmd
}

func (c *CLI) runValidate(path string, checkCycles bool) error {
	p := newProgress(c.Logger)

	doc, err := xdsm.ReadFile(path)
	if err != nil {
		printError("%s", apperrors.UserMessage(err))
		printDetail("code: %s", apperrors.GetCode(err))
		return err
	}

	if checkCycles {
		if _, err := doc.Resolve(); err != nil {
			printError("%s", apperrors.UserMessage(err))
			printDetail("code: %s", apperrors.GetCode(err))
			return err
		}
	}

	p.done(fmt.Sprintf("Validated %d diagrams", len(doc)))

	printSuccess("Document is valid")
	if root, ok := doc.Root(); ok {
		printStats(len(doc), root.NodeCount(), root.EdgeCount(), false)
	}
	return nil
}
