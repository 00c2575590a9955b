package sink

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/machviz/machina/pkg/errors"
)

// Preview compiles a generated TeX file with pdflatex and opens the
// resulting PDF with the platform opener.
//
// The compile and open steps are fire-and-forget: their exit codes are
// not inspected, matching the contract that the core's responsibility
// ends at producing correct markup. Preview only reports errors that
// prevent the tools from starting at all (e.g. pdflatex not installed).
func Preview(ctx context.Context, texPath string) error {
	dir := filepath.Dir(texPath)

	compile := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", filepath.Base(texPath))
	compile.Dir = dir
	if err := compile.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start pdflatex")
	}
	_ = compile.Wait() // exit code deliberately ignored

	pdf := strippedExt(texPath) + ".pdf"
	open := exec.CommandContext(ctx, opener(), pdf)
	if err := open.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open %s", pdf)
	}
	// Fire and forget: the viewer outlives the command.
	go func() { _ = open.Wait() }()
	return nil
}

func strippedExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}

// opener returns the platform command that opens a file with its default
// application.
func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}
