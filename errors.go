package resumepdf

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for library operations.
var (
	ErrNotFound       = errors.New("record or field not found")
	ErrUpstream       = errors.New("record store request failed")
	ErrRender         = errors.New("document rendering failed")
	ErrEngine         = errors.New("rendering engine failed")
	ErrRenderTimeout  = errors.New("rendering engine did not settle in time")
	ErrUpload         = errors.New("artifact upload failed")
	ErrNoBaseTemplate = errors.New("no base resume found")
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")

	// Validation errors.
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrInvalidRecordID = errors.New("invalid record id")
)

// UpstreamError is a non-success response from the record store.
// errors.Is reports ErrUpstream for every UpstreamError and ErrNotFound
// for 404 responses.
type UpstreamError struct {
	Op         string // e.g. "pages.retrieve"
	StatusCode int
	Code       string // store error code, e.g. "object_not_found"
	Message    string
	Body       []byte // raw payload for diagnostics
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: status %d (%s): %s", ErrUpstream, e.Op, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s: status %d: %s", ErrUpstream, e.Op, e.StatusCode, msg)
}

// Is matches ErrUpstream, and ErrNotFound for 404 responses.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Stage names a step of a pipeline run.
type Stage string

// Pipeline and derivation stages.
const (
	StageFetch        Stage = "fetch"
	StageRender       Stage = "render"
	StageRasterize    Stage = "rasterize"
	StagePublish      Stage = "publish"
	StageBacklink     Stage = "backlink"
	StageDeriveBase   Stage = "derive.base"
	StageDeriveCreate Stage = "derive.create"
	StageDeriveLink   Stage = "derive.link"
)

// StageError records which stage of a run failed.
type StageError struct {
	Stage    Stage
	RecordID string
	Err      error
}

func (e *StageError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.RecordID, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failed stage carried by err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

func stageErr(stage Stage, recordID string, err error) error {
	return &StageError{Stage: stage, RecordID: recordID, Err: err}
}
