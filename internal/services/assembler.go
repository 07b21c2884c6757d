package services

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/wheatondebate/briefdex/internal/models"
)

//go:embed template.tex
var templateTex string

// docTemplate uses LaTeX-safe delimiters so template actions survive inside
// TeX source.
var docTemplate = template.Must(template.New("indexed_briefs").Delims(`\VAR{`, `}`).Parse(templateTex))

// Typesetter runs one layout pass over a .tex source, producing a PDF next
// to it. The assembler judges success by the PDF's existence.
type Typesetter interface {
	Render(ctx context.Context, sourcePath string) error
}

// AssemblerConfig holds configuration for the document assembler.
type AssemblerConfig struct {
	CacheDir string
	WorkDir  string
	BaseName string
}

// Assembler merges the cached PDFs and index sections into one typeset
// document.
type Assembler struct {
	typesetter Typesetter
	checker    PDFChecker
	config     AssemblerConfig
	log        *slog.Logger
}

func NewAssembler(typesetter Typesetter, checker PDFChecker, config AssemblerConfig, log *slog.Logger) *Assembler {
	if config.BaseName == "" {
		config.BaseName = "indexed_briefs"
	}
	if config.WorkDir == "" {
		config.WorkDir = "."
	}
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{typesetter: typesetter, checker: checker, config: config, log: log}
}

// templateData is the escaped, path-resolved form of the indexes.
type templateData struct {
	Categories   []texCategory
	Alphabetical []texEntry
	Pages        []texPage
}

type texCategory struct {
	Label   string
	Entries []texEntry
}

type texEntry struct {
	Anchor string
	Title  string
}

type texPage struct {
	Anchor string
	Title  string
	Path   string
}

// Assemble renders the composite document and returns the path of the final
// PDF. The typesetter runs twice: the first pass resolves anchor positions,
// the second picks up correct page numbers in the index sections.
func (a *Assembler) Assemble(ctx context.Context, idx models.Indexes) (string, error) {
	data, err := a.prepare(idx)
	if err != nil {
		return "", err
	}

	texPath := filepath.Join(a.config.WorkDir, a.config.BaseName+".tex")
	source, err := os.Create(texPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", texPath, err)
	}
	if err := docTemplate.Execute(source, data); err != nil {
		source.Close()
		return "", fmt.Errorf("template substitution failed: %w", err)
	}
	if err := source.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", texPath, err)
	}
	a.log.Info("Document source generated.", "path", texPath, "briefs", len(data.Pages))

	for pass := 1; pass <= 2; pass++ {
		if err := a.typesetter.Render(ctx, texPath); err != nil {
			// pdflatex reports layout warnings through its exit code; the
			// output file decides whether the pass actually failed.
			a.log.Warn("Typesetter exited with error.", "pass", pass, "error", err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	pdfPath := filepath.Join(a.config.WorkDir, a.config.BaseName+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", ErrTypesetFailed
	}
	pages, err := a.checker.PageCount(pdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTypesetFailed, err)
	}
	a.log.Info("Document typeset.", "path", pdfPath, "pages", pages)

	a.cleanByproducts(texPath, pdfPath)
	return pdfPath, nil
}

// prepare validates anchor uniqueness and escapes every string headed into
// TeX source.
func (a *Assembler) prepare(idx models.Indexes) (templateData, error) {
	var data templateData

	seen := make(map[string]bool, len(idx.Pages))
	for _, page := range idx.Pages {
		if seen[page.Anchor] {
			return data, fmt.Errorf("%w: %s", ErrDuplicateAnchor, page.Anchor)
		}
		seen[page.Anchor] = true
		data.Pages = append(data.Pages, texPage{
			Anchor: page.Anchor,
			Title:  escapeLaTeX(page.Title),
			Path:   filepath.ToSlash(filepath.Join(a.config.CacheDir, page.ID+".pdf")),
		})
	}

	for _, section := range idx.Categories {
		tex := texCategory{Label: escapeLaTeX(section.Label)}
		for _, entry := range section.Entries {
			tex.Entries = append(tex.Entries, texEntry{Anchor: entry.Anchor, Title: escapeLaTeX(entry.Title)})
		}
		data.Categories = append(data.Categories, tex)
	}
	for _, entry := range idx.Alphabetical {
		data.Alphabetical = append(data.Alphabetical, texEntry{Anchor: entry.Anchor, Title: escapeLaTeX(entry.Title)})
	}
	return data, nil
}

// cleanByproducts removes everything the typesetter left behind other than
// the final PDF and the retained source.
func (a *Assembler) cleanByproducts(texPath, pdfPath string) {
	entries, err := os.ReadDir(a.config.WorkDir)
	if err != nil {
		a.log.Warn("Could not scan work dir for byproducts.", "error", err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, a.config.BaseName) {
			continue
		}
		path := filepath.Join(a.config.WorkDir, name)
		if path == texPath || path == pdfPath {
			continue
		}
		if err := os.Remove(path); err != nil {
			a.log.Warn("Could not remove byproduct.", "path", path, "error", err)
		}
	}
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// escapeLaTeX makes spreadsheet-sourced text safe inside TeX source.
func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
