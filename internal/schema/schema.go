// Package schema describes how to read the briefs spreadsheet: which
// columns hold the title, link and date, and which columns contribute
// category labels. Columns are resolved by header name, never by position.
package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table names the spreadsheet columns the loader reads.
type Table struct {
	TitleColumn     string   `yaml:"title_column"`
	LinkColumn      string   `yaml:"link_column"`
	DateColumn      string   `yaml:"date_column"`
	CategoryColumns []string `yaml:"category_columns"`
}

// Default returns the schema of the debate team's spreadsheet.
func Default() Table {
	return Table{
		TitleColumn: "Title",
		LinkColumn:  "Link",
		DateColumn:  "Date",
		CategoryColumns: []string{
			"Category 1",
			"Category 2",
			"Category 3",
			"Category 4",
			"Category 5",
			"Category 6",
		},
	}
}

// Load reads a schema from a YAML file and validates it.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read schema file: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("schema file %s: %w", path, err)
	}
	return t, nil
}

// Validate checks that every required column is named.
func (t Table) Validate() error {
	switch {
	case t.TitleColumn == "":
		return fmt.Errorf("title_column must be set")
	case t.LinkColumn == "":
		return fmt.Errorf("link_column must be set")
	case t.DateColumn == "":
		return fmt.Errorf("date_column must be set")
	case len(t.CategoryColumns) == 0:
		return fmt.Errorf("at least one category column must be set")
	}
	return nil
}
