// Package convert wraps the external document tools the pipeline shells out
// to: pandoc for docx-to-PDF conversion and pdflatex for typesetting the
// assembled document. For both, success is judged by the output file
// existing afterward, not by the process exit code.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Pandoc converts word-processing documents to PDF with page geometry that
// matches the assembled document's layout.
type Pandoc struct {
	Binary string
	Engine string
}

// NewPandoc returns a converter using the given pandoc binary. The xelatex
// engine is required for the fonts found in externally authored briefs.
func NewPandoc(binary string) *Pandoc {
	if binary == "" {
		binary = "pandoc"
	}
	return &Pandoc{Binary: binary, Engine: "xelatex"}
}

// Convert renders inputPath to a PDF at outputPath. Callers decide success
// by checking outputPath; the returned error carries pandoc's output for
// logging.
func (p *Pandoc) Convert(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-V", "geometry:margin=0.6in",
		"-V", "geometry:bottom=1in",
		"-V", "pagestyle=empty",
		"--quiet",
		"--pdf-engine=" + p.Engine,
		"-o", outputPath,
		inputPath,
	}
	cmd := exec.CommandContext(ctx, p.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pandoc failed for %s: %w: %s", inputPath, err, stderr.String())
	}
	return nil
}
