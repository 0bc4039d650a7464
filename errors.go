package main

import (
	"errors"
	"fmt"
	"io/fs"
)

// ExtractionError marks a fatal failure while preparing the working tree.
// Nothing can be mapped without one, so the run stops here.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RenderError marks a fatal failure while writing a report artifact.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ClassificationError marks a single entry that could not be classified.
// The entry is dropped and counted; the run keeps going.
type ClassificationError struct {
	Path string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("could not classify %s: %v", e.Path, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// isPermission reports whether err is a permission problem rather than a
// general filesystem failure. Permission-denied entries stay in the report,
// flagged inaccessible, instead of being dropped.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
