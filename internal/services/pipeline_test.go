package services

import (
	"context"
	"testing"
	"time"

	"github.com/wheatondebate/briefdex/internal/models"
)

// newTestPipeline wires the full pipeline over fakes: two briefs in the
// sheet, one of which has the wrong format and gets dropped.
func newTestPipeline(t *testing.T, recorder RunRecorder) (*Pipeline, *fakeDrive) {
	t.Helper()
	drive := newFakeDrive()
	drive.csv = []byte(testHeader +
		"x,Aff Brief,https://docs.google.com/document/d/ABC123/view,01/02/2023,Affirmative,\n" +
		"x,Neg Brief,https://docs.google.com/document/d/XYZ789/view,01/01/2023,Negative,\n")
	drive.infos["ABC123"] = googleDocInfo(time.Now().Add(-time.Hour))
	drive.docx["ABC123"] = []byte("docx-bytes")
	badFormat := googleDocInfo(time.Now().Add(-time.Hour))
	badFormat.MIMEType = "image/png"
	drive.infos["XYZ789"] = badFormat

	loader, err := NewLoader(drive, LoaderConfig{SheetID: "sheet", Schema: testSchema}, nil)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	cacheDir := t.TempDir()
	syncer := NewSyncer(drive, &fakeConverter{}, &fakeChecker{}, SyncerConfig{
		CacheDir:       cacheDir,
		BriefsFolderID: testFolderID,
		RetryCount:     1,
		RetryDelay:     time.Millisecond,
	}, nil)
	assembler := NewAssembler(&fakeTypesetter{}, &fakeChecker{}, AssemblerConfig{
		CacheDir: cacheDir,
		WorkDir:  t.TempDir(),
	}, nil)
	publisher := newTestPublisher(drive, nil)
	return NewPipeline(loader, syncer, assembler, publisher, recorder, nil), drive
}

func TestPipelineRunPublishesAndReports(t *testing.T) {
	recorder := &fakeRecorder{}
	pipeline, drive := newTestPipeline(t, recorder)

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(drive.created) != 1 {
		t.Fatalf("created %d artifacts, want 1", len(drive.created))
	}

	if len(recorder.started) != 1 || len(recorder.finished) != 1 {
		t.Fatalf("reports: started=%d finished=%d, want 1/1", len(recorder.started), len(recorder.finished))
	}
	final := recorder.finished[0]
	if final.Status != models.RunStatusSucceeded {
		t.Errorf("status = %s, want SUCCEEDED", final.Status)
	}
	if final.BriefCount != 1 || final.DroppedCount != 1 {
		t.Errorf("counts = %d kept/%d dropped, want 1/1", final.BriefCount, final.DroppedCount)
	}
	if len(final.Dropped) != 1 || final.Dropped[0].ID != "XYZ789" {
		t.Errorf("dropped = %+v, want the wrong-format brief", final.Dropped)
	}
}

func TestPipelineRunWithoutRecorder(t *testing.T) {
	pipeline, _ := newTestPipeline(t, nil)
	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run without recorder: %v", err)
	}
}

func TestPipelineRunFailsOnLoadError(t *testing.T) {
	recorder := &fakeRecorder{}
	pipeline, drive := newTestPipeline(t, recorder)
	drive.csv = []byte("Timestamp,Wrong,Header\n")

	if err := pipeline.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded with a broken sheet header")
	}
	if len(drive.created) != 0 {
		t.Errorf("artifact published despite a fatal load error")
	}
	if len(recorder.finished) != 1 || recorder.finished[0].Status != models.RunStatusFailed {
		t.Errorf("final report = %+v, want FAILED", recorder.finished)
	}
}

func TestPipelineBuildOnlyDoesNotPublish(t *testing.T) {
	pipeline, drive := newTestPipeline(t, nil)
	pdfPath, err := pipeline.BuildOnly(context.Background())
	if err != nil {
		t.Fatalf("BuildOnly: %v", err)
	}
	if pdfPath == "" {
		t.Error("BuildOnly returned empty path")
	}
	if len(drive.created) != 0 || len(drive.deleted) != 0 {
		t.Errorf("BuildOnly touched remote artifacts")
	}
}
