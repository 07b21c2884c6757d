package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/wheatondebate/briefdex/internal/models"
)

// Status classifies a Drive API error for the retry/drop policy.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusTransient
	StatusOther
)

// StatusOf maps an error from any Drive call onto the retry/drop taxonomy:
// 404 means the file was never shared with the service account, 5xx and 429
// are worth retrying, everything else is terminal for the record.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 404:
			return StatusNotFound
		case gerr.Code == 429 || gerr.Code >= 500:
			return StatusTransient
		}
	}
	return StatusOther
}

// DriveClient wraps the Drive v3 service. It is created once per run and
// passed to every component that talks to Drive; there is no ambient
// singleton.
type DriveClient struct {
	svc *drive.Service
}

// NewDriveClient builds a Drive client from a credentials file with full
// drive scope. It centralizes client creation for all pipeline stages.
func NewDriveClient(ctx context.Context, credentialsFile string) (*DriveClient, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("credentialsFile must be provided to create a drive client")
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	return &DriveClient{svc: svc}, nil
}

// ExportCSV exports a Drive spreadsheet as CSV bytes.
func (c *DriveClient) ExportCSV(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Export(fileID, models.MimeCSV).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export sheet %s as csv: %w", fileID, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv export of %s: %w", fileID, err)
	}
	return data, nil
}

// GetFileInfo fetches the parent folders, MIME type and last-modified time
// of a file.
func (c *DriveClient) GetFileInfo(ctx context.Context, fileID string) (*models.FileInfo, error) {
	f, err := c.svc.Files.Get(fileID).Fields("parents, mimeType, modifiedTime").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s: %w", fileID, err)
	}
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse modifiedTime %q for %s: %w", f.ModifiedTime, fileID, err)
	}
	return &models.FileInfo{
		Parents:      f.Parents,
		MIMEType:     f.MimeType,
		ModifiedTime: modified,
	}, nil
}

// ExportDocx exports a native Google Doc in word-processing format.
func (c *DriveClient) ExportDocx(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Export(fileID, models.MimeDocx).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as docx: %w", fileID, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read docx export of %s: %w", fileID, err)
	}
	return data, nil
}

// GetMedia downloads a file's content as-is.
func (c *DriveClient) GetMedia(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", fileID, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s: %w", fileID, err)
	}
	return data, nil
}

// AddParent adds a file to a folder without detaching its other parents.
func (c *DriveClient) AddParent(ctx context.Context, fileID, folderID string) error {
	_, err := c.svc.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		Fields("id, parents").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add %s to folder %s: %w", fileID, folderID, err)
	}
	return nil
}

// ListFiles lists all files visible to the client with the fields the
// publisher needs to recognize the current artifact.
func (c *DriveClient) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	var files []models.RemoteFile
	call := c.svc.Files.List().Fields("nextPageToken, files(id, name, description, mimeType)").Context(ctx)
	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			files = append(files, models.RemoteFile{
				ID:          f.Id,
				Name:        f.Name,
				Description: f.Description,
				MIMEType:    f.MimeType,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list drive files: %w", err)
	}
	return files, nil
}

// Delete removes a file permanently.
func (c *DriveClient) Delete(ctx context.Context, fileID string) error {
	if err := c.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", fileID, err)
	}
	return nil
}

// CreatePDF uploads a local PDF into a folder with the given name and
// description.
func (c *DriveClient) CreatePDF(ctx context.Context, name, description, folderID, localPath string) (*models.RemoteFile, error) {
	reader, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s for upload: %w", localPath, err)
	}
	defer reader.Close()

	meta := &drive.File{
		Name:        name,
		Description: description,
		MimeType:    models.MimePDF,
		Parents:     []string{folderID},
	}
	created, err := c.svc.Files.Create(meta).
		Media(reader, googleapi.ContentType(models.MimePDF)).
		Fields("id, name, description, mimeType").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return &models.RemoteFile{
		ID:          created.Id,
		Name:        created.Name,
		Description: created.Description,
		MIMEType:    created.MimeType,
	}, nil
}
