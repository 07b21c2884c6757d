package gcp

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/wheatondebate/briefdex/internal/models"
)

// ReportStore persists one RunReport document per pipeline run. It is
// optional: the pipeline runs fine without it when no project is configured.
type ReportStore struct {
	client     *firestore.Client
	collection string
}

// NewReportStore creates a Firestore-backed report store for the given
// project ID. It centralizes client creation for all services.
func NewReportStore(ctx context.Context, projectID, collection string) (*ReportStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a report store")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &ReportStore{client: client, collection: collection}, nil
}

// Start writes the initial RUNNING report for a run, keyed by run ID.
func (s *ReportStore) Start(ctx context.Context, report models.RunReport) error {
	_, err := s.client.Collection(s.collection).Doc(report.RunID).Set(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to create run report %s: %w", report.RunID, err)
	}
	return nil
}

// Finish records the terminal state of the run, its counts and the briefs
// that were dropped along the way.
func (s *ReportStore) Finish(ctx context.Context, runID string, report models.RunReport) error {
	updates := []firestore.Update{
		{Path: "status", Value: report.Status},
		{Path: "finishedAt", Value: time.Now()},
		{Path: "briefCount", Value: report.BriefCount},
		{Path: "droppedCount", Value: report.DroppedCount},
	}
	if report.ErrorDetails != "" {
		updates = append(updates, firestore.Update{Path: "errorDetails", Value: report.ErrorDetails})
	}
	if len(report.Dropped) > 0 {
		updates = append(updates, firestore.Update{Path: "dropped", Value: report.Dropped})
	}
	if _, err := s.client.Collection(s.collection).Doc(runID).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to finalize run report %s: %w", runID, err)
	}
	return nil
}

func (s *ReportStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
