package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/wheatondebate/briefdex/internal/gcp"
	"github.com/wheatondebate/briefdex/internal/models"
)

// BriefStore is the slice of the Drive client the syncer needs.
type BriefStore interface {
	GetFileInfo(ctx context.Context, fileID string) (*models.FileInfo, error)
	ExportDocx(ctx context.Context, fileID string) ([]byte, error)
	GetMedia(ctx context.Context, fileID string) ([]byte, error)
	AddParent(ctx context.Context, fileID, folderID string) error
}

// Converter turns a word-processing document into a PDF. Success is judged
// by the output file existing afterward.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// PDFChecker verifies converter output is a readable PDF.
type PDFChecker interface {
	PageCount(path string) (int, error)
}

// SyncerConfig holds configuration for the cache synchronizer.
type SyncerConfig struct {
	CacheDir       string
	BriefsFolderID string
	RetryCount     int
	RetryDelay     time.Duration
}

// Syncer reconciles brief records against the local PDF cache: it converts
// whatever is missing or stale and drops records that can't be fetched or
// converted. One record's failure never aborts the batch.
type Syncer struct {
	store     BriefStore
	converter Converter
	checker   PDFChecker
	config    SyncerConfig
	log       *slog.Logger
}

func NewSyncer(store BriefStore, converter Converter, checker PDFChecker, config SyncerConfig, log *slog.Logger) *Syncer {
	if config.RetryCount <= 0 {
		config.RetryCount = 10
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{store: store, converter: converter, checker: checker, config: config, log: log}
}

// Sync processes records sequentially and returns the survivors in input
// order plus the drop reasons for the rest.
func (s *Syncer) Sync(ctx context.Context, records []models.BriefRecord) ([]models.BriefRecord, []models.DroppedBrief, error) {
	if err := os.MkdirAll(s.config.CacheDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create cache dir %s: %w", s.config.CacheDir, err)
	}

	var kept []models.BriefRecord
	var dropped []models.DroppedBrief
	for _, rec := range records {
		logCtx := s.log.With("briefId", rec.ID, "title", rec.Title)
		if err := s.syncOne(ctx, logCtx, rec); err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			logCtx.Warn("Brief dropped from this run.", "reason", err)
			dropped = append(dropped, models.DroppedBrief{ID: rec.ID, Title: rec.Title, Reason: err.Error()})
			continue
		}
		kept = append(kept, rec)
	}
	s.log.Info("Cache synchronized.", "kept", len(kept), "dropped", len(dropped))
	return kept, dropped, nil
}

// syncOne brings one brief's cached PDF up to date. Every returned error is
// a drop reason, not a batch failure.
func (s *Syncer) syncOne(ctx context.Context, logCtx *slog.Logger, rec models.BriefRecord) error {
	info, err := s.getInfoWithRetry(ctx, logCtx, rec.ID)
	if err != nil {
		if gcp.StatusOf(err) == gcp.StatusNotFound {
			return ErrNotShared
		}
		return err
	}

	pdfPath := s.cachePath(rec.ID)
	if fresh(pdfPath, info.ModifiedTime) {
		logCtx.Debug("Cached PDF is fresh, skipping conversion.")
		return s.shareIfNeeded(ctx, logCtx, rec.ID, info)
	}

	data, err := s.fetchContent(ctx, rec.ID, info.MIMEType)
	if err != nil {
		return err
	}

	docxPath := filepath.Join(s.config.CacheDir, rec.ID+".docx")
	if err := os.WriteFile(docxPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	defer os.Remove(docxPath)

	if err := s.converter.Convert(ctx, docxPath, pdfPath); err != nil {
		logCtx.Warn("Converter exited with error.", "error", err)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return ErrConversionFailed
	}
	pages, err := s.checker.PageCount(pdfPath)
	if err != nil {
		// An unreadable PDF would corrupt the assembled document, so the
		// stale artifact cannot stay in the cache either.
		os.Remove(pdfPath)
		return fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	logCtx.Info("Brief converted.", "pages", pages)

	return s.shareIfNeeded(ctx, logCtx, rec.ID, info)
}

// getInfoWithRetry fetches file metadata, retrying transient store errors a
// fixed number of times with a fixed delay.
func (s *Syncer) getInfoWithRetry(ctx context.Context, logCtx *slog.Logger, fileID string) (*models.FileInfo, error) {
	var lastErr error
	for attempt := 0; attempt <= s.config.RetryCount; attempt++ {
		info, err := s.store.GetFileInfo(ctx, fileID)
		if err == nil {
			return info, nil
		}
		if gcp.StatusOf(err) != gcp.StatusTransient {
			return nil, err
		}
		lastErr = err
		logCtx.Warn("Transient store error, will retry.",
			"attempt", attempt+1,
			"maxRetries", s.config.RetryCount,
			"error", err,
		)
		select {
		case <-time.After(s.config.RetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("metadata fetch for %s failed after all retries: %w", fileID, lastErr)
}

// fetchContent downloads the document bytes according to the source type.
func (s *Syncer) fetchContent(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	switch mimeType {
	case models.MimeGoogleDoc:
		return s.store.ExportDocx(ctx, fileID)
	case models.MimeDocx:
		return s.store.GetMedia(ctx, fileID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrWrongFormat, mimeType)
	}
}

// shareIfNeeded puts the source file into the team folder when it isn't
// there already.
func (s *Syncer) shareIfNeeded(ctx context.Context, logCtx *slog.Logger, fileID string, info *models.FileInfo) error {
	if slices.Contains(info.Parents, s.config.BriefsFolderID) {
		return nil
	}
	if err := s.store.AddParent(ctx, fileID, s.config.BriefsFolderID); err != nil {
		return fmt.Errorf("failed to share brief: %w", err)
	}
	logCtx.Info("Brief added to team folder.")
	return nil
}

func (s *Syncer) cachePath(id string) string {
	return filepath.Join(s.config.CacheDir, id+".pdf")
}

// fresh reports whether a cached PDF exists and is at least as new as the
// remote copy.
func fresh(pdfPath string, remoteModified time.Time) bool {
	stat, err := os.Stat(pdfPath)
	if err != nil {
		return false
	}
	return !stat.ModTime().Before(remoteModified)
}
