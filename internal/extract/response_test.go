package extract

import (
	"encoding/json"
	"testing"

	"github.com/claimlens/claimlens/internal/document"
)

func TestSchemaUnmarshal(t *testing.T) {
	raw := `{"policy":"P-1","claims":[{"id":"c1"},{"id":"c2"}]}`

	var s Schema
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if string(s.Raw) != raw {
		t.Errorf("raw bytes not preserved: %s", s.Raw)
	}
	if len(s.Claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(s.Claims))
	}
	if string(s.Claims[0]) != `{"id":"c1"}` {
		t.Errorf("claim not verbatim: %s", s.Claims[0])
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != raw {
		t.Errorf("marshal did not round-trip: %s", out)
	}
}

func TestProjectMetadata(t *testing.T) {
	floatPtr := func(f float64) *float64 { return &f }
	intPtr := func(i int) *int { return &i }

	t.Run("all fields present", func(t *testing.T) {
		meta := ProjectMetadata(&Payload{
			ExtractedSchema: &Schema{Claims: []json.RawMessage{[]byte(`{}`)}},
			Metadata:        &ExtractionMetadata{SourceFile: "acme_form.pdf", Method: "vision"},
			Summary:         &Summary{AvgConfidence: floatPtr(0.904), ClaimsCount: intPtr(1)},
		})
		want := document.Metadata{Insurer: "acme_form.pdf", Format: "vision", Confidence: 90, ClaimCount: 1}
		if meta != want {
			t.Errorf("got %+v, want %+v", meta, want)
		}
	})

	t.Run("minimal payload uses fallbacks", func(t *testing.T) {
		meta := ProjectMetadata(&Payload{
			ExtractedSchema: &Schema{Claims: []json.RawMessage{[]byte(`{}`), []byte(`{}`)}},
		})
		want := document.Metadata{Insurer: "Unknown", Format: "standard", Confidence: 95, ClaimCount: 2}
		if meta != want {
			t.Errorf("got %+v, want %+v", meta, want)
		}
	})

	t.Run("claims_count wins over claim list length", func(t *testing.T) {
		meta := ProjectMetadata(&Payload{
			ExtractedSchema: &Schema{Claims: []json.RawMessage{[]byte(`{}`)}},
			Summary:         &Summary{ClaimsCount: intPtr(7)},
		})
		if meta.ClaimCount != 7 {
			t.Errorf("expected summary count to win, got %d", meta.ClaimCount)
		}
	})

	t.Run("confidence rounds half up", func(t *testing.T) {
		meta := ProjectMetadata(&Payload{
			Summary: &Summary{AvgConfidence: floatPtr(0.905)},
		})
		if meta.Confidence != 91 {
			t.Errorf("expected 91, got %d", meta.Confidence)
		}
	})

	t.Run("zero confidence is honored, not replaced", func(t *testing.T) {
		meta := ProjectMetadata(&Payload{
			Summary: &Summary{AvgConfidence: floatPtr(0)},
		})
		if meta.Confidence != 0 {
			t.Errorf("expected 0, got %d", meta.Confidence)
		}
	})

	t.Run("nil payload", func(t *testing.T) {
		meta := ProjectMetadata(nil)
		want := document.Metadata{Insurer: "Unknown", Format: "standard", Confidence: 95, ClaimCount: 0}
		if meta != want {
			t.Errorf("got %+v, want %+v", meta, want)
		}
	})
}
