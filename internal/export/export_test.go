package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/claimlens/claimlens/internal/document"
)

func completedDoc(id, name string, claims ...string) document.Document {
	raws := make([]json.RawMessage, len(claims))
	for i, c := range claims {
		raws[i] = json.RawMessage(c)
	}
	return document.Document{
		ID:     id,
		Name:   name,
		Stage:  document.StageComplete,
		Result: json.RawMessage(`{"claims": []}`),
		Claims: raws,
	}
}

func TestMergedCSV(t *testing.T) {
	t.Run("union header in first-seen order", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf", `{"a": 1}`),
			completedDoc("2", "b.pdf", `{"b": 2}`),
		}

		out, err := MergedCSV(docs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "a,b\n\"1\",\"\"\n\"\",\"2\"\n"
		if string(out) != want {
			t.Errorf("got %q, want %q", out, want)
		}
	})

	t.Run("field order follows the backend, not Go map order", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf", `{"zeta": "z", "alpha": "a", "mid": "m"}`),
			completedDoc("2", "b.pdf", `{"alpha": "a2", "extra": "x"}`),
		}

		out, err := MergedCSV(docs)
		if err != nil {
			t.Fatal(err)
		}
		header := strings.SplitN(string(out), "\n", 2)[0]
		if header != "zeta,alpha,mid,extra" {
			t.Errorf("got header %q", header)
		}
	})

	t.Run("embedded quotes are doubled", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf", `{"note": "he said \"ok\""}`),
			completedDoc("2", "b.pdf", `{"note": "plain"}`),
		}

		out, err := MergedCSV(docs)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(out), `"he said ""ok"""`) {
			t.Errorf("quotes not doubled: %q", out)
		}
	})

	t.Run("values render by type", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf", `{"s": "txt", "n": 12.50, "b": true, "z": null, "o": {"k": 1}}`),
			completedDoc("2", "b.pdf", `{}`),
		}

		out, err := MergedCSV(docs)
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
		if lines[1] != `"txt","12.50","true","","{""k"":1}"` {
			t.Errorf("got row %q", lines[1])
		}
		// A claim with no fields still yields a full empty row.
		if lines[2] != `"","","","",""` {
			t.Errorf("got row %q", lines[2])
		}
	})

	t.Run("fewer than two documents is refused", func(t *testing.T) {
		_, err := MergedCSV([]document.Document{completedDoc("1", "a.pdf", `{"a": 1}`)})
		if !errors.Is(err, ErrNotEnoughDocuments) {
			t.Errorf("got %v", err)
		}
	})
}

func TestMergedJSON(t *testing.T) {
	t.Run("concatenates claims preserving order", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf", `{"id":"a1"}`, `{"id":"a2"}`),
			completedDoc("2", "b.pdf", `{"id":"b1"}`),
		}

		out, err := MergedJSON(docs)
		if err != nil {
			t.Fatal(err)
		}

		var claims []map[string]string
		if err := json.Unmarshal(out, &claims); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		want := []string{"a1", "a2", "b1"}
		if len(claims) != len(want) {
			t.Fatalf("expected %d claims, got %d", len(want), len(claims))
		}
		for i, id := range want {
			if claims[i]["id"] != id {
				t.Errorf("claim %d: got %s, want %s", i, claims[i]["id"], id)
			}
		}
	})

	t.Run("two documents with no claims yields an empty array", func(t *testing.T) {
		docs := []document.Document{
			completedDoc("1", "a.pdf"),
			completedDoc("2", "b.pdf"),
		}
		out, err := MergedJSON(docs)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(out)) != "[]" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("fewer than two documents is refused", func(t *testing.T) {
		if _, err := MergedJSON(nil); !errors.Is(err, ErrNotEnoughDocuments) {
			t.Errorf("got %v", err)
		}
	})
}

func TestMergedFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	if got := MergedFilename("csv", now); got != "merged_claims_20260314_150926.csv" {
		t.Errorf("got %s", got)
	}
}

func TestDocumentFilename(t *testing.T) {
	doc := completedDoc("1", "acme_form.pdf", `{}`)
	if got := DocumentFilename(doc); got != "acme_form_schema.json" {
		t.Errorf("got %s", got)
	}
}

func TestDocumentJSON(t *testing.T) {
	t.Run("pretty-prints the raw schema", func(t *testing.T) {
		doc := completedDoc("1", "a.pdf")
		doc.Result = json.RawMessage(`{"claims":[{"id":"c1"}]}`)

		out, err := DocumentJSON(doc)
		if err != nil {
			t.Fatal(err)
		}
		var round any
		if err := json.Unmarshal(out, &round); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Error("expected indented output")
		}
	})

	t.Run("unfinished document has nothing to export", func(t *testing.T) {
		doc := document.Document{ID: "x", Stage: document.StageValidation}
		if _, err := DocumentJSON(doc); err == nil {
			t.Error("expected an error")
		}
	})
}
