package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/machviz/machina/pkg/manifest"
)

// listCommand creates the list command for inspecting manifests.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <manifest>",
		Short: "List the diagrams defined in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(args[0])
		},
	}
}

// runList prints each manifest entry with its validation status and size.
func (c *CLI) runList(path string) error {
	file, err := manifest.Load(path)
	if err != nil {
		return err
	}

	entries := file.Entries()
	printInfo("%d diagrams in %s", len(entries), path)
	for _, e := range entries {
		built, err := file.Build(e.Name)
		if err != nil {
			printWarning("%s (%s): %v", e.Name, e.Kind, err)
			continue
		}
		nodes, edges := diagramCounts(built.Diagram)
		printDetail("%-25s %-8s %s", e.Name, e.Kind, fmt.Sprintf("%d nodes, %d edges", nodes, edges))
	}
	return nil
}
