package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wheatondebate/briefdex/internal/models"
)

// RunRecorder persists per-run reports. Optional; a nil recorder disables
// reporting.
type RunRecorder interface {
	Start(ctx context.Context, report models.RunReport) error
	Finish(ctx context.Context, runID string, report models.RunReport) error
}

// Pipeline runs the five stages in order: load, sync, index, assemble,
// publish. Stages run sequentially in one goroutine; the cache directory is
// owned by a single run at a time.
type Pipeline struct {
	loader    *Loader
	syncer    *Syncer
	assembler *Assembler
	publisher *Publisher
	recorder  RunRecorder
	log       *slog.Logger
}

func NewPipeline(loader *Loader, syncer *Syncer, assembler *Assembler, publisher *Publisher, recorder RunRecorder, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		loader:    loader,
		syncer:    syncer,
		assembler: assembler,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
	}
}

// Run executes the whole pipeline once. Record-level failures are reported
// and dropped inside the syncer; any error returned here is fatal for the
// run and nothing gets published.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := p.log.With("runId", runID)
	report := models.RunReport{
		RunID:     runID,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if p.recorder != nil {
		if err := p.recorder.Start(ctx, report); err != nil {
			log.Warn("Could not start run report.", "error", err)
		}
	}

	err := p.run(ctx, log, &report)
	if err != nil {
		report.Status = models.RunStatusFailed
		report.ErrorDetails = err.Error()
	} else {
		report.Status = models.RunStatusSucceeded
	}
	if p.recorder != nil {
		if ferr := p.recorder.Finish(ctx, runID, report); ferr != nil {
			log.Warn("Could not finalize run report.", "error", ferr)
		}
	}
	return err
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, report *models.RunReport) error {
	records, err := p.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load metadata table: %w", err)
	}

	kept, dropped, err := p.syncer.Sync(ctx, records)
	if err != nil {
		return fmt.Errorf("synchronize cache: %w", err)
	}
	report.BriefCount = len(kept)
	report.DroppedCount = len(dropped)
	report.Dropped = dropped
	if len(kept) == 0 {
		log.Warn("No briefs survived synchronization; the document will be empty.")
	}

	indexes := BuildIndexes(kept)

	pdfPath, err := p.assembler.Assemble(ctx, indexes)
	if err != nil {
		return fmt.Errorf("assemble document: %w", err)
	}

	if _, err := p.publisher.Publish(ctx, pdfPath); err != nil {
		return fmt.Errorf("publish document: %w", err)
	}
	log.Info("Run complete.", "briefs", len(kept), "dropped", len(dropped))
	return nil
}

// SyncOnly runs stages 1 and 2, refreshing the cache without building or
// publishing anything.
func (p *Pipeline) SyncOnly(ctx context.Context) ([]models.BriefRecord, []models.DroppedBrief, error) {
	records, err := p.loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load metadata table: %w", err)
	}
	return p.syncer.Sync(ctx, records)
}

// BuildOnly runs stages 1 through 4 and returns the path of the rendered
// PDF without publishing it.
func (p *Pipeline) BuildOnly(ctx context.Context) (string, error) {
	kept, _, err := p.SyncOnly(ctx)
	if err != nil {
		return "", err
	}
	return p.assembler.Assemble(ctx, BuildIndexes(kept))
}

// CurrentArtifact reports the published artifacts carrying the marker.
func (p *Pipeline) CurrentArtifact(ctx context.Context) ([]models.RemoteFile, error) {
	return p.publisher.FindCurrent(ctx)
}
