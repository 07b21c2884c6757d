package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wheatondebate/briefdex/internal/config"
	"github.com/wheatondebate/briefdex/internal/convert"
	"github.com/wheatondebate/briefdex/internal/gcp"
	"github.com/wheatondebate/briefdex/internal/schema"
)

// NewFromConfig wires a complete pipeline from configuration: one Drive
// client shared by every stage, pandoc and pdflatex wrappers, and the
// optional Firestore report store and GCS archive when configured. The
// returned cleanup closes whatever clients were opened.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Pipeline, func(), error) {
	if log == nil {
		log = slog.Default()
	}

	drive, err := gcp.NewDriveClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	tableSchema := schema.Default()
	if cfg.SchemaFile != "" {
		tableSchema, err = schema.Load(cfg.SchemaFile)
		if err != nil {
			return nil, nil, err
		}
	}

	loader, err := NewLoader(drive, LoaderConfig{SheetID: cfg.SheetID, Schema: tableSchema}, log)
	if err != nil {
		return nil, nil, err
	}

	checker := convert.NewPDFCheck()
	syncer := NewSyncer(drive, convert.NewPandoc(cfg.PandocBin), checker, SyncerConfig{
		CacheDir:       cfg.CacheDir,
		BriefsFolderID: cfg.BriefsFolderID,
		RetryCount:     cfg.RetryCount,
		RetryDelay:     cfg.RetryDelay,
	}, log)

	assembler := NewAssembler(convert.NewPDFLaTeX(cfg.PDFLaTeXBin), checker, AssemblerConfig{
		CacheDir: cfg.CacheDir,
		WorkDir:  cfg.WorkDir,
	}, log)

	var closers []func() error

	var archiver Archiver
	if cfg.ArchiveBucket != "" {
		store, err := gcp.NewArchiveStore(ctx, cfg.ArchiveBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("archive store: %w", err)
		}
		archiver = store
		closers = append(closers, store.Close)
	}

	publisher := NewPublisher(drive, archiver, PublisherConfig{
		Marker:   cfg.PublishMarker,
		FolderID: cfg.PublishFolderID,
	}, log)

	var recorder RunRecorder
	if cfg.FirestoreProject != "" {
		store, err := gcp.NewReportStore(ctx, cfg.FirestoreProject, cfg.ReportCollection)
		if err != nil {
			return nil, nil, fmt.Errorf("report store: %w", err)
		}
		recorder = store
		closers = append(closers, store.Close)
	}

	cleanup := func() {
		for _, close := range closers {
			if err := close(); err != nil {
				log.Warn("Error closing client.", "error", err)
			}
		}
	}
	return NewPipeline(loader, syncer, assembler, publisher, recorder, log), cleanup, nil
}
