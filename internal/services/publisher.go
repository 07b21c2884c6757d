package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wheatondebate/briefdex/internal/gcp"
	"github.com/wheatondebate/briefdex/internal/models"
)

// PublishStore is the slice of the Drive client the publisher needs.
type PublishStore interface {
	ListFiles(ctx context.Context) ([]models.RemoteFile, error)
	Delete(ctx context.Context, fileID string) error
	CreatePDF(ctx context.Context, name, description, folderID, localPath string) (*models.RemoteFile, error)
}

// Archiver keeps a dated copy of the published PDF outside Drive. Optional.
type Archiver interface {
	Archive(ctx context.Context, localPath, objectName string) error
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	Marker   string
	FolderID string
}

// Publisher replaces the previously published composite PDF with a new one.
// The marker description, not the name, identifies the current artifact.
type Publisher struct {
	store    PublishStore
	archiver Archiver
	config   PublisherConfig
	log      *slog.Logger
	now      func() time.Time
}

func NewPublisher(store PublishStore, archiver Archiver, config PublisherConfig, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{store: store, archiver: archiver, config: config, log: log, now: time.Now}
}

// FindCurrent returns the published artifacts carrying the marker. After a
// successful run there is at most one.
func (p *Publisher) FindCurrent(ctx context.Context) ([]models.RemoteFile, error) {
	files, err := p.store.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	var current []models.RemoteFile
	for _, f := range files {
		if f.Description == p.config.Marker && f.MIMEType == models.MimePDF {
			current = append(current, f)
		}
	}
	return current, nil
}

// Publish deletes the previous artifact and uploads the new PDF. Deleting a
// file that has already vanished is tolerated; any other deletion error is
// fatal, since leaving two current artifacts would break the lookup.
func (p *Publisher) Publish(ctx context.Context, pdfPath string) (*models.RemoteFile, error) {
	old, err := p.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up previous artifact: %w", err)
	}
	for _, f := range old {
		if err := p.store.Delete(ctx, f.ID); err != nil {
			if gcp.StatusOf(err) == gcp.StatusNotFound {
				p.log.Info("Previous artifact already gone.", "fileId", f.ID)
				continue
			}
			return nil, fmt.Errorf("failed to delete previous artifact %s: %w", f.ID, err)
		}
		p.log.Info("Previous artifact deleted.", "fileId", f.ID, "name", f.Name)
	}

	today := p.now().Format("2006-01-02")
	name := fmt.Sprintf("Indexed Briefs (%s)", today)
	created, err := p.store.CreatePDF(ctx, name, p.config.Marker, p.config.FolderID, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to upload new artifact: %w", err)
	}
	p.log.Info("New artifact published.", "fileId", created.ID, "name", created.Name)

	if p.archiver != nil {
		objectName := fmt.Sprintf("indexed-briefs/%s.pdf", today)
		if err := p.archiver.Archive(ctx, pdfPath, objectName); err != nil {
			// The Drive publish already succeeded; a missed archive copy is
			// recoverable on the next run.
			p.log.Warn("Failed to archive published PDF.", "object", objectName, "error", err)
		}
	}
	return created, nil
}
