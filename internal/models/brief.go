package models

import (
	"fmt"
	"time"
)

// MIME types the pipeline cares about on the Drive side.
const (
	MimeGoogleDoc = "application/vnd.google-apps.document"
	MimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePDF       = "application/pdf"
	MimeCSV       = "text/csv"
)

// BriefRecord is one row of the metadata spreadsheet after parsing.
// OrderIndex is the row's position before the date sort; it stays stable for
// the life of the run and keys the cross-reference anchors in the assembled
// document.
type BriefRecord struct {
	ID         string
	Title      string
	Date       time.Time
	Categories []string
	OrderIndex int
}

// Anchor returns the label used to cross-reference this brief's first page
// in the assembled document.
func (b BriefRecord) Anchor() string {
	return fmt.Sprintf("brief-%d", b.OrderIndex)
}

// FileInfo is the subset of Drive file metadata the synchronizer needs.
type FileInfo struct {
	Parents      []string
	MIMEType     string
	ModifiedTime time.Time
}

// RemoteFile describes a file in the Drive listing, enough to recognize and
// replace the previously published artifact.
type RemoteFile struct {
	ID          string
	Name        string
	Description string
	MIMEType    string
}

// DroppedBrief records why a brief was excluded from the current run.
type DroppedBrief struct {
	ID     string `firestore:"id"`
	Title  string `firestore:"title"`
	Reason string `firestore:"reason"`
}

// IndexEntry is one line of an index section: a display title paired with
// the anchor whose resolved page number the line points at.
type IndexEntry struct {
	Anchor string
	Title  string
}

// CategorySection groups the entries for one category label.
type CategorySection struct {
	Label   string
	Entries []IndexEntry
}

// PageEntry drives the physical assembly order: one cached PDF embedded
// under its anchor.
type PageEntry struct {
	Anchor string
	Title  string
	ID     string
}

// Indexes holds the three views over the synchronized records that the
// assembler substitutes into the document template.
type Indexes struct {
	Categories   []CategorySection
	Alphabetical []IndexEntry
	Pages        []PageEntry
}
