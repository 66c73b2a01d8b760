// Package document defines the per-file record tracked through the
// extraction lifecycle.
package document

import (
	"encoding/json"
	"time"
)

// Stage is a named phase in the fixed processing lifecycle.
type Stage string

const (
	StageQueued           Stage = "queued"
	StageRotationCheck    Stage = "rotation_check"
	StageTextExtraction   Stage = "text_extraction"
	StageSchemaExtraction Stage = "schema_extraction"
	StagePolicyDetection  Stage = "policy_detection"
	StageClaimExtraction  Stage = "claim_extraction"
	StageValidation       Stage = "validation"
	StageComplete         Stage = "complete"
	StageError            Stage = "error"
)

// Terminal reports whether the stage is a final state.
// A document that reached a terminal stage is never mutated again.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// Metadata is the derived summary computed once on successful extraction.
// It is distinct from the raw passthrough result.
type Metadata struct {
	Insurer    string `json:"insurer"`
	Format     string `json:"format"`
	Confidence int    `json:"confidence"`
	ClaimCount int    `json:"claim_count"`
}

// Document is one tracked upload. Identifier, name, size and page count are
// immutable after creation; everything else is written through the registry.
type Document struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"-"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages,omitempty"`

	Stage   Stage  `json:"stage"`
	Message string `json:"message,omitempty"`

	// Result is the backend's extracted_schema object, verbatim.
	Result json.RawMessage `json:"result,omitempty"`
	// Claims are the individual claim objects from Result, each verbatim.
	Claims []json.RawMessage `json:"-"`

	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New creates a document record in the queued state.
func New(id, name, path string, size int64, pages int) *Document {
	return &Document{
		ID:      id,
		Name:    name,
		Path:    path,
		Size:    size,
		Pages:   pages,
		Stage:   StageQueued,
		Message: "Waiting in queue",
	}
}

// Settled reports whether the document reached a terminal stage.
func (d *Document) Settled() bool {
	return d.Stage.Terminal()
}
