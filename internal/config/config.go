package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob the pipeline reads from the environment. Defaults
// match the debate team's production spreadsheet and folders.
type Config struct {
	SheetID         string        `env:"BRIEFS_SHEET_ID" envDefault:"1PstwVA00z1YY-3FAcQcfgmM83SWUe2jR7e2I4zEhThM"`
	BriefsFolderID  string        `env:"BRIEFS_FOLDER_ID" envDefault:"1LJ8aOEvfg6Q1jgNjto_mdN2u1rVkhWc5"`
	PublishFolderID string        `env:"PUBLISH_FOLDER_ID" envDefault:"1PSgntCxfM-2YidrIjS8hzfzdzoDGv0ze"`
	PublishMarker   string        `env:"PUBLISH_MARKER" envDefault:"GlckOayFQgdIdOqRBOL8"`
	CredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"client_id.json"`
	CacheDir        string        `env:"BRIEF_CACHE_DIR" envDefault:"pdf_data"`
	WorkDir         string        `env:"BRIEF_WORK_DIR" envDefault:"."`
	SchemaFile      string        `env:"BRIEF_SCHEMA_FILE"`
	RetryCount      int           `env:"SYNC_RETRY_COUNT" envDefault:"10"`
	RetryDelay      time.Duration `env:"SYNC_RETRY_DELAY" envDefault:"1s"`
	PandocBin       string        `env:"PANDOC_BIN" envDefault:"pandoc"`
	PDFLaTeXBin     string        `env:"PDFLATEX_BIN" envDefault:"pdflatex"`

	// Optional: per-run reports in Firestore when a project is set.
	FirestoreProject string `env:"FIRESTORE_PROJECT"`
	ReportCollection string `env:"REPORT_COLLECTION" envDefault:"brief_runs"`

	// Optional: dated copies of published PDFs in GCS when a bucket is set.
	ArchiveBucket string `env:"ARCHIVE_BUCKET"`
}

// Load parses configuration from environment variables and verifies the
// credentials file exists. A missing credentials file aborts before the
// pipeline starts.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, fmt.Errorf("client credentials not found at %s, create a credentials file first: %w", cfg.CredentialsFile, err)
	}
	return &cfg, nil
}
