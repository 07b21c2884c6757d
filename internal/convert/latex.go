package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// PDFLaTeX typesets a .tex source into a PDF alongside it. The caller runs
// it twice so \pageref numbers in the index sections resolve against the
// final layout.
type PDFLaTeX struct {
	Binary string
}

func NewPDFLaTeX(binary string) *PDFLaTeX {
	if binary == "" {
		binary = "pdflatex"
	}
	return &PDFLaTeX{Binary: binary}
}

// Render runs one typesetting pass over sourcePath. pdflatex exits non-zero
// on recoverable layout warnings even when it produces a usable PDF, so the
// caller treats the output file's existence as the success signal and the
// returned error as diagnostic only.
func (t *PDFLaTeX) Render(ctx context.Context, sourcePath string) error {
	cmd := exec.CommandContext(ctx, t.Binary,
		"-interaction=nonstopmode",
		"-output-directory", filepath.Dir(sourcePath),
		sourcePath,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pdflatex pass over %s: %w: %s", sourcePath, err, tail(out.Bytes(), 512))
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
