package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wheatondebate/briefdex/internal/models"
	"github.com/wheatondebate/briefdex/internal/schema"
)

// dateLayout is the month/day/year format used in the spreadsheet.
const dateLayout = "01/02/2006"

// linkPattern extracts the Drive file id embedded in a share link.
var linkPattern = regexp.MustCompile(`d/([^/]+)/`)

// TableExporter is the slice of the Drive client the loader needs.
type TableExporter interface {
	ExportCSV(ctx context.Context, fileID string) ([]byte, error)
}

// LoaderConfig holds configuration for the metadata table loader.
type LoaderConfig struct {
	SheetID string
	Schema  schema.Table
}

// Loader fetches the briefs spreadsheet and parses it into BriefRecords.
type Loader struct {
	store  TableExporter
	config LoaderConfig
	log    *slog.Logger
}

func NewLoader(store TableExporter, config LoaderConfig, log *slog.Logger) (*Loader, error) {
	if err := config.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{store: store, config: config, log: log}, nil
}

// Load exports the sheet as CSV and returns the brief records sorted by
// date ascending. OrderIndex reflects each row's position before the sort
// and stays stable for anchor generation. Rows without a usable title or
// link are excluded; a bad date on a retained row fails the whole load.
func (l *Loader) Load(ctx context.Context) ([]models.BriefRecord, error) {
	raw, err := l.store.ExportCSV(ctx, l.config.SheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata table: %w", err)
	}
	records, err := l.parse(raw)
	if err != nil {
		return nil, err
	}
	l.log.Info("Metadata table loaded.", "rows", len(records))
	return records, nil
}

func (l *Loader) parse(raw []byte) ([]models.BriefRecord, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv export: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet export is empty", ErrSchema)
	}

	cols, err := resolveColumns(rows[0], l.config.Schema)
	if err != nil {
		return nil, err
	}

	var records []models.BriefRecord
	for i, row := range rows[1:] {
		title := strings.TrimSpace(cell(row, cols.title))
		if title == "" {
			continue
		}
		match := linkPattern.FindStringSubmatch(cell(row, cols.link))
		if match == nil {
			continue
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(cell(row, cols.date)))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q", ErrMalformedDate, i+2, cell(row, cols.date))
		}
		records = append(records, models.BriefRecord{
			ID:         match[1],
			Title:      title,
			Date:       date,
			Categories: collectCategories(row, cols.categories),
			OrderIndex: i,
		})
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Date.Before(records[b].Date)
	})
	return records, nil
}

type columnIndexes struct {
	title      int
	link       int
	date       int
	categories []int
}

// resolveColumns maps the configured column names onto header positions.
// A configured column missing from the header is a schema error.
func resolveColumns(header []string, s schema.Table) (columnIndexes, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("%w: column %q not found in sheet header", ErrSchema, name)
		}
		return i, nil
	}

	var cols columnIndexes
	var err error
	if cols.title, err = lookup(s.TitleColumn); err != nil {
		return cols, err
	}
	if cols.link, err = lookup(s.LinkColumn); err != nil {
		return cols, err
	}
	if cols.date, err = lookup(s.DateColumn); err != nil {
		return cols, err
	}
	for _, name := range s.CategoryColumns {
		i, err := lookup(name)
		if err != nil {
			return cols, err
		}
		cols.categories = append(cols.categories, i)
	}
	return cols, nil
}

// collectCategories unions the category cells of one row, skipping blanks
// and duplicates.
func collectCategories(row []string, indexes []int) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, i := range indexes {
		label := strings.TrimSpace(cell(row, i))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// cell reads a column defensively; short rows read as empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
