package services

import "errors"

// Failure classes named across the pipeline. Record-level errors are caught
// at the per-record boundary in the syncer and turned into drops; the rest
// abort the run.
var (
	// ErrMalformedDate aborts the whole load when a retained row's date
	// doesn't parse.
	ErrMalformedDate = errors.New("malformed date")

	// ErrSchema aborts the load when a configured column is missing from
	// the sheet header.
	ErrSchema = errors.New("sheet schema mismatch")

	// ErrNotShared drops a record whose source file the client cannot see.
	ErrNotShared = errors.New("file not shared with the debate team")

	// ErrWrongFormat drops a record whose source is neither a Google Doc
	// nor a word-processing document.
	ErrWrongFormat = errors.New("wrong format, the file is not a google doc")

	// ErrConversionFailed drops a record whose conversion produced no PDF.
	ErrConversionFailed = errors.New("converting file failed")

	// ErrDuplicateAnchor aborts the build when two records map to the same
	// cross-reference anchor.
	ErrDuplicateAnchor = errors.New("duplicate anchor")

	// ErrTypesetFailed aborts the build when typesetting produced no PDF.
	ErrTypesetFailed = errors.New("typesetting produced no pdf")
)
