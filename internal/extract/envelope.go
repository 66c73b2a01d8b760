package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeSchema documents the expected response shape. Everything beyond the
// success flag is optional; the schema exists to surface drift in the backend
// contract through logs, not to reject responses.
const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "error": {"type": "string"},
    "data": {
      "type": "object",
      "properties": {
        "extracted_schema": {
          "type": "object",
          "properties": {
            "claims": {"type": "array", "items": {"type": "object"}}
          }
        },
        "extraction_metadata": {
          "type": "object",
          "properties": {
            "source_file": {"type": "string"},
            "method": {"type": "string"}
          }
        },
        "summary": {
          "type": "object",
          "properties": {
            "avg_confidence": {"type": "number", "minimum": 0, "maximum": 1},
            "claims_count": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

var (
	envelopeOnce     sync.Once
	compiledEnvelope *jsonschema.Schema
	envelopeErr      error
)

// validateEnvelope checks raw response bytes against the documented envelope.
func validateEnvelope(raw []byte) error {
	envelopeOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("envelope.json", strings.NewReader(envelopeSchema)); err != nil {
			envelopeErr = err
			return
		}
		compiledEnvelope, envelopeErr = compiler.Compile("envelope.json")
	})
	if envelopeErr != nil {
		return fmt.Errorf("envelope schema unavailable: %w", envelopeErr)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return compiledEnvelope.Validate(v)
}
