package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/machviz/machina/pkg/manifest"
	"github.com/machviz/machina/pkg/sink"
)

// previewCommand creates the preview command for compiling and opening output.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	var shapes shapeFlags

	cmd := &cobra.Command{
		Use:   "preview <manifest> [diagram]",
		Short: "Render a diagram, compile it with pdflatex, and open the PDF",
		Long: `Render a diagram, compile it with pdflatex, and open the PDF.

The preview command renders the selected diagram to TikZ, runs pdflatex on the
result, and opens the produced PDF with the platform viewer. pdflatex exit
codes are ignored: LaTeX frequently reports recoverable errors while still
producing usable output.

Requires pdflatex on PATH.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			return c.runPreview(cmd.Context(), args[0], name, output, noCache, shapes)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "TeX output file (default: <diagram>.tex)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	shapes.register(cmd)

	return cmd
}

// runPreview renders to TeX, compiles, and opens the result.
func (c *CLI) runPreview(ctx context.Context, path, name, output string, noCache bool, shapes shapeFlags) error {
	file, err := manifest.Load(path)
	if err != nil {
		return err
	}

	entries, err := selectEntries(file, name, false)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("Nothing selected")
		return nil
	}
	entry := entries[0]

	target := output
	if target == "" {
		target = entry.Name + ".tex"
	}
	if strings.ToLower(filepath.Ext(target)) != ".tex" {
		return fmt.Errorf("preview needs a .tex target, got %q", target)
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	if err := c.renderOne(ctx, file, entry, target, renderOptions{shapes: shapes}, store); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Compiling with pdflatex...")
	spinner.Start()
	err = sink.Preview(ctx, target)
	if err != nil {
		spinner.StopWithError("Preview failed")
		return err
	}
	spinner.StopWithSuccess("Opened " + strings.TrimSuffix(target, ".tex") + ".pdf")
	return nil
}
