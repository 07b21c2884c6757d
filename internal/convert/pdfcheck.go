package convert

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCheck validates converter and typesetter output. Relaxed validation,
// since pandoc and pdflatex both emit slightly nonconforming but renderable
// files.
type PDFCheck struct {
	conf *model.Configuration
}

func NewPDFCheck() *PDFCheck {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCheck{conf: conf}
}

// PageCount validates the file as a PDF and returns its page count.
func (c *PDFCheck) PageCount(path string) (int, error) {
	if err := api.ValidateFile(path, c.conf); err != nil {
		return 0, fmt.Errorf("invalid pdf %s: %w", path, err)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}
	return n, nil
}
