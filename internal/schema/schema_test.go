package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default schema invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `title_column: Brief Title
link_column: Document Link
date_column: Submitted
category_columns:
  - Topic A
  - Topic B
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.TitleColumn != "Brief Title" || table.DateColumn != "Submitted" {
		t.Errorf("loaded schema = %+v", table)
	}
	if len(table.CategoryColumns) != 2 {
		t.Errorf("category columns = %v, want 2", table.CategoryColumns)
	}
}

func TestLoadRejectsIncompleteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte("title_column: Title\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a schema without link/date/category columns")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		ok    bool
	}{
		{"complete", Table{TitleColumn: "T", LinkColumn: "L", DateColumn: "D", CategoryColumns: []string{"C"}}, true},
		{"no title", Table{LinkColumn: "L", DateColumn: "D", CategoryColumns: []string{"C"}}, false},
		{"no link", Table{TitleColumn: "T", DateColumn: "D", CategoryColumns: []string{"C"}}, false},
		{"no date", Table{TitleColumn: "T", LinkColumn: "L", CategoryColumns: []string{"C"}}, false},
		{"no categories", Table{TitleColumn: "T", LinkColumn: "L", DateColumn: "D"}, false},
	}
	for _, tt := range tests {
		err := tt.table.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
