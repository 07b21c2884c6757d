package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wheatondebate/briefdex/internal/models"
)

// fakeDrive implements TableExporter, BriefStore and PublishStore in memory.
type fakeDrive struct {
	csv    []byte
	csvErr error

	infos     map[string]*models.FileInfo
	infoErrs  map[string][]error // consumed before infos answers
	infoCalls map[string]int

	docx  map[string][]byte
	media map[string][]byte

	addedParents []string // "<fileID>:<folderID>"

	files      []models.RemoteFile
	deleteErrs map[string]error
	deleted    []string
	created    []createdFile
	createErr  error
}

type createdFile struct {
	name        string
	description string
	folderID    string
	localPath   string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		infos:      make(map[string]*models.FileInfo),
		infoErrs:   make(map[string][]error),
		infoCalls:  make(map[string]int),
		docx:       make(map[string][]byte),
		media:      make(map[string][]byte),
		deleteErrs: make(map[string]error),
	}
}

func (d *fakeDrive) ExportCSV(ctx context.Context, fileID string) ([]byte, error) {
	if d.csvErr != nil {
		return nil, d.csvErr
	}
	return d.csv, nil
}

func (d *fakeDrive) GetFileInfo(ctx context.Context, fileID string) (*models.FileInfo, error) {
	d.infoCalls[fileID]++
	if errs := d.infoErrs[fileID]; len(errs) > 0 {
		err := errs[0]
		d.infoErrs[fileID] = errs[1:]
		return nil, err
	}
	info, ok := d.infos[fileID]
	if !ok {
		return nil, fmt.Errorf("fake: no info for %s", fileID)
	}
	return info, nil
}

func (d *fakeDrive) ExportDocx(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := d.docx[fileID]
	if !ok {
		return nil, fmt.Errorf("fake: no docx for %s", fileID)
	}
	return data, nil
}

func (d *fakeDrive) GetMedia(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := d.media[fileID]
	if !ok {
		return nil, fmt.Errorf("fake: no media for %s", fileID)
	}
	return data, nil
}

func (d *fakeDrive) AddParent(ctx context.Context, fileID, folderID string) error {
	d.addedParents = append(d.addedParents, fileID+":"+folderID)
	return nil
}

func (d *fakeDrive) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	return d.files, nil
}

func (d *fakeDrive) Delete(ctx context.Context, fileID string) error {
	if err := d.deleteErrs[fileID]; err != nil {
		return err
	}
	d.deleted = append(d.deleted, fileID)
	return nil
}

func (d *fakeDrive) CreatePDF(ctx context.Context, name, description, folderID, localPath string) (*models.RemoteFile, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.created = append(d.created, createdFile{name: name, description: description, folderID: folderID, localPath: localPath})
	return &models.RemoteFile{ID: fmt.Sprintf("created-%d", len(d.created)), Name: name, Description: description, MIMEType: models.MimePDF}, nil
}

// fakeConverter writes a stub PDF unless told to fail.
type fakeConverter struct {
	calls []string
	fail  bool
}

func (c *fakeConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	c.calls = append(c.calls, inputPath)
	if c.fail {
		return fmt.Errorf("fake converter failure")
	}
	return os.WriteFile(outputPath, []byte("%PDF-fake"), 0o644)
}

// fakeChecker approves any file that exists.
type fakeChecker struct {
	pages int
	errs  map[string]error
}

func (c *fakeChecker) PageCount(path string) (int, error) {
	if err := c.errs[path]; err != nil {
		return 0, err
	}
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	if c.pages == 0 {
		return 1, nil
	}
	return c.pages, nil
}

// fakeTypesetter simulates pdflatex: writes the output PDF and the usual
// byproducts next to the source.
type fakeTypesetter struct {
	calls      int
	skipOutput bool
}

func (t *fakeTypesetter) Render(ctx context.Context, sourcePath string) error {
	t.calls++
	if t.skipOutput {
		return fmt.Errorf("fake typesetter failure")
	}
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	for _, ext := range []string{".aux", ".log"} {
		if err := os.WriteFile(base+ext, []byte("byproduct"), 0o644); err != nil {
			return err
		}
	}
	return os.WriteFile(base+".pdf", []byte("%PDF-fake-final"), 0o644)
}

// fakeArchiver records archive calls.
type fakeArchiver struct {
	objects []string
	err     error
}

func (a *fakeArchiver) Archive(ctx context.Context, localPath, objectName string) error {
	if a.err != nil {
		return a.err
	}
	a.objects = append(a.objects, objectName)
	return nil
}

// fakeRecorder records run reports.
type fakeRecorder struct {
	started  []models.RunReport
	finished []models.RunReport
}

func (r *fakeRecorder) Start(ctx context.Context, report models.RunReport) error {
	r.started = append(r.started, report)
	return nil
}

func (r *fakeRecorder) Finish(ctx context.Context, runID string, report models.RunReport) error {
	r.finished = append(r.finished, report)
	return nil
}
