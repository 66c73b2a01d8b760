package extract

import (
	"encoding/json"
	"math"

	"github.com/claimlens/claimlens/internal/document"
)

// Response is the backend's envelope for /api/extract-full.
type Response struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Data    *Payload `json:"data,omitempty"`
}

// Payload is the extraction result inside a successful envelope.
// All fields are optional; the backend contract is loose and the documented
// fallbacks in ProjectMetadata cover anything missing.
type Payload struct {
	ExtractedSchema *Schema             `json:"extracted_schema,omitempty"`
	Metadata        *ExtractionMetadata `json:"extraction_metadata,omitempty"`
	Summary         *Summary            `json:"summary,omitempty"`
}

// ExtractionMetadata describes how the backend processed the file.
type ExtractionMetadata struct {
	SourceFile string `json:"source_file,omitempty"`
	Method     string `json:"method,omitempty"`
}

// Summary carries backend-computed aggregates over the extracted claims.
type Summary struct {
	AvgConfidence *float64 `json:"avg_confidence,omitempty"`
	ClaimsCount   *int     `json:"claims_count,omitempty"`
}

// Schema preserves the extracted_schema object verbatim while also exposing
// the claims list. Raw is the exact bytes the backend sent; Claims holds each
// claim object unparsed so field order survives for export.
type Schema struct {
	Raw    json.RawMessage
	Claims []json.RawMessage
}

// UnmarshalJSON keeps the original bytes and pulls out the claims array.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.Raw = append(json.RawMessage(nil), data...)
	var inner struct {
		Claims []json.RawMessage `json:"claims"`
	}
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}
	s.Claims = inner.Claims
	return nil
}

// MarshalJSON emits the verbatim schema object.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Raw == nil {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// Fallbacks for the loosely specified response fields. These mirror the
// backend's documented defaults, not inferred validation.
const (
	DefaultInsurer    = "Unknown"
	DefaultFormat     = "standard"
	DefaultConfidence = 95
)

// ProjectMetadata derives the UI-facing summary from a payload.
// Every field has a defined fallback so a minimal `{claims: []}` payload
// still projects cleanly.
func ProjectMetadata(p *Payload) document.Metadata {
	meta := document.Metadata{
		Insurer:    DefaultInsurer,
		Format:     DefaultFormat,
		Confidence: DefaultConfidence,
	}
	if p == nil {
		return meta
	}
	if p.Metadata != nil {
		if p.Metadata.SourceFile != "" {
			meta.Insurer = p.Metadata.SourceFile
		}
		if p.Metadata.Method != "" {
			meta.Format = p.Metadata.Method
		}
	}
	if p.Summary != nil && p.Summary.AvgConfidence != nil {
		meta.Confidence = int(math.Round(*p.Summary.AvgConfidence * 100))
	}
	switch {
	case p.Summary != nil && p.Summary.ClaimsCount != nil:
		meta.ClaimCount = *p.Summary.ClaimsCount
	case p.ExtractedSchema != nil:
		meta.ClaimCount = len(p.ExtractedSchema.Claims)
	}
	return meta
}
