package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/machviz/machina/pkg/cache"
	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/layout"
	"github.com/machviz/machina/pkg/manifest"
	"github.com/machviz/machina/pkg/render/graphviz"
	"github.com/machviz/machina/pkg/sink"
)

// renderCacheTTL bounds how long rendered artifacts stay valid.
const renderCacheTTL = 24 * time.Hour

// shapeFlags collects the layout flags shared by render and preview.
type shapeFlags struct {
	kind    string
	radius  int
	columns int
	spacing int
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "shape", "", "node layout: circle or grid (default: from manifest)")
	cmd.Flags().IntVar(&f.radius, "radius", 0, "circle radius in bp (0 = scale with node count)")
	cmd.Flags().IntVarP(&f.columns, "columns", "c", 0, "grid column count")
	cmd.Flags().IntVar(&f.spacing, "spacing", 0, "grid spacing in bp")
}

// shape resolves the flags into a layout shape, or nil if none were given.
func (f *shapeFlags) shape() (layout.Shape, error) {
	if f.kind == "" {
		return nil, nil
	}
	def := manifest.ShapeDef{Kind: f.kind, Radius: f.radius, Columns: f.columns, Spacing: f.spacing}
	return def.Shape()
}

// renderCommand creates the render command for generating diagram output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		format  string
		all     bool
		noCache bool
	)
	var shapes shapeFlags

	cmd := &cobra.Command{
		Use:   "render <manifest> [diagram]",
		Short: "Render manifest diagrams to TikZ or DOT",
		Long: `Render manifest diagrams to TikZ or DOT.

The render command reads a manifest file (TOML or JSON) defining named finite
state machines and directed graphs, and writes the rendered output for one or
all of them. The output format is chosen by the target file extension (.tex,
.dot, .gv) or the --format flag.

When the manifest defines several diagrams and none is named on the command
line, an interactive picker is shown.

Rendered artifacts are cached locally for faster subsequent runs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			return c.runRender(cmd.Context(), args[0], name, renderOptions{
				output:  output,
				format:  format,
				all:     all,
				noCache: noCache,
				hint:    args[0],
				shapes:  shapes,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <diagram>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tex (default), dot")
	cmd.Flags().BoolVar(&all, "all", false, "render every diagram in the manifest")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	shapes.register(cmd)

	return cmd
}

// renderOptions carries the resolved render command flags.
type renderOptions struct {
	output  string
	format  string
	all     bool
	noCache bool
	hint    string // manifest path for the suggested preview command; empty to suppress
	shapes  shapeFlags
}

// runRender loads the manifest, selects diagrams, and writes output files.
func (c *CLI) runRender(ctx context.Context, path, name string, opts renderOptions) error {
	file, err := manifest.Load(path)
	if err != nil {
		return err
	}

	entries, err := selectEntries(file, name, opts.all)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("Nothing selected")
		return nil
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	prog := newProgress(c.Logger)
	for _, e := range entries {
		target := opts.output
		if target == "" || opts.all {
			target = defaultOutput(e.Name, opts.format)
		}
		if err := c.renderOne(ctx, file, e, target, opts, store); err != nil {
			return err
		}
	}
	if len(entries) > 1 {
		prog.done(fmt.Sprintf("Rendered %d diagrams", len(entries)))
	}
	return nil
}

// renderOne renders a single manifest entry to its target file.
func (c *CLI) renderOne(ctx context.Context, file *manifest.File, e manifest.Entry, target string, opts renderOptions, store cache.Cache) error {
	kind, err := outputKind(target, opts.format)
	if err != nil {
		return err
	}

	built, err := file.Build(e.Name)
	if err != nil {
		return err
	}

	shape, err := opts.shapes.shape()
	if err != nil {
		return err
	}
	if shape == nil {
		shape = built.Shape
	}
	if shape == nil && built.Kind == manifest.KindFSM {
		shape = layout.Circle{}
	}

	key := renderKey(file, e, shape, kind)
	content, cached, err := c.renderCached(ctx, store, key, built.Diagram, kind, shape)
	if err != nil {
		return err
	}

	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", target, err)
	}

	nodes, edges := diagramCounts(built.Diagram)
	printSuccess("Rendered %s", e.Name)
	printFile(target)
	printStats(nodes, edges, cached)
	if opts.hint != "" && kind == sink.KindTeX {
		printNewline()
		printNextStep("Preview", fmt.Sprintf("machina preview %s %s", opts.hint, e.Name))
	}
	return nil
}

// renderCached renders through the artifact cache.
func (c *CLI) renderCached(ctx context.Context, store cache.Cache, key string, d diagram.Diagram, kind sink.Kind, shape layout.Shape) (string, bool, error) {
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("cache hit", "key", key)
		return string(data), true, nil
	}

	out, err := sink.Render(ctx, d, kind, sink.Options{Shape: shape, Converter: graphviz.New()})
	if err != nil {
		return "", false, err
	}
	if err := store.Set(ctx, key, []byte(out), renderCacheTTL); err != nil {
		c.Logger.Debug("cache write failed", "err", err)
	}
	return out, false, nil
}

// renderKey derives a cache key from the raw definition, shape, and format.
func renderKey(file *manifest.File, e manifest.Entry, shape layout.Shape, kind sink.Kind) string {
	var def any
	switch e.Kind {
	case manifest.KindFSM:
		def = file.FSMs[e.Name]
	case manifest.KindDigraph:
		def = file.Digraphs[e.Name]
	}
	return cache.RenderKey(e.Kind, def, shapeFingerprint(shape), string(kind))
}

// shapeFingerprint serializes a shape for cache keying.
func shapeFingerprint(shape layout.Shape) string {
	if shape == nil {
		return ""
	}
	data, err := json.Marshal(shape)
	if err != nil {
		return fmt.Sprintf("%#v", shape)
	}
	return fmt.Sprintf("%T:%s", shape, data)
}

// selectEntries resolves which manifest diagrams to render.
func selectEntries(file *manifest.File, name string, all bool) ([]manifest.Entry, error) {
	entries := file.Entries()
	switch {
	case all:
		return entries, nil
	case name != "":
		for _, e := range entries {
			if e.Name == name {
				return []manifest.Entry{e}, nil
			}
		}
		// Surface the same error the manifest build would.
		if _, err := file.Build(name); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("diagram %q not found", name)
	case len(entries) == 1:
		return entries, nil
	default:
		picked, err := pickDiagram(entries)
		if err != nil {
			return nil, err
		}
		if picked == nil {
			return nil, nil
		}
		return []manifest.Entry{*picked}, nil
	}
}

// outputKind resolves the output format from the explicit flag or the
// target file extension.
func outputKind(target, format string) (sink.Kind, error) {
	if format != "" {
		switch format {
		case "tex":
			return sink.KindTeX, nil
		case "dot":
			return sink.KindDOT, nil
		default:
			return "", fmt.Errorf("unknown format %q (want tex or dot)", format)
		}
	}
	return sink.KindForPath(target)
}

// defaultOutput builds the default output filename for a diagram.
func defaultOutput(name, format string) string {
	ext := ".tex"
	if format == "dot" {
		ext = ".dot"
	}
	return name + ext
}

// diagramCounts extracts node and edge counts for status output.
func diagramCounts(d diagram.Diagram) (nodes, edges int) {
	switch v := d.(type) {
	case *diagram.FSM:
		return v.StateCount(), len(v.Transitions())
	case *diagram.Digraph:
		seen := map[string]struct{}{}
		for _, e := range v.Edges() {
			seen[e.From] = struct{}{}
			seen[e.To] = struct{}{}
		}
		return len(seen), v.EdgeCount()
	}
	return 0, 0
}
