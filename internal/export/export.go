// Package export produces merged claim exports from completed documents.
// All operations are pure: nothing here touches the registry.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/document"
)

// ErrNotEnoughDocuments is returned when fewer than two completed documents
// are available to merge.
var ErrNotEnoughDocuments = errors.New("merging requires at least two completed documents")

// ErrNotCompleted is returned when a per-document export is requested for a
// document that has not completed with a result.
var ErrNotCompleted = errors.New("document has no result to export")

// MinimumMergeDocuments is how many completed documents a merge needs.
const MinimumMergeDocuments = 2

// Claims flattens the claims of the given completed documents, preserving
// document order and per-document claim order.
func Claims(docs []document.Document) []json.RawMessage {
	var claims []json.RawMessage
	for _, d := range docs {
		claims = append(claims, d.Claims...)
	}
	return claims
}

// MergedJSON renders the combined claims of at least two completed documents
// as a pretty-printed JSON array.
func MergedJSON(docs []document.Document) ([]byte, error) {
	if len(docs) < MinimumMergeDocuments {
		return nil, ErrNotEnoughDocuments
	}
	claims := Claims(docs)
	if claims == nil {
		claims = []json.RawMessage{}
	}
	return json.MarshalIndent(claims, "", "  ")
}

// MergedCSV renders the combined claims of at least two completed documents
// as CSV. The header is the union of all claim field names in first-seen
// order; every data cell is double-quoted with embedded quotes doubled, and
// claims missing a column render an empty quoted cell.
func MergedCSV(docs []document.Document) ([]byte, error) {
	if len(docs) < MinimumMergeDocuments {
		return nil, ErrNotEnoughDocuments
	}
	return ClaimsCSV(Claims(docs))
}

// ClaimsCSV renders a flat claims list as CSV.
//
// Built by hand rather than with encoding/csv: the format requires every data
// cell quoted (including empty ones) while the header row stays bare, which
// csv.Writer cannot express.
func ClaimsCSV(claims []json.RawMessage) ([]byte, error) {
	var columns []string
	seen := make(map[string]bool)
	rows := make([]map[string]string, 0, len(claims))

	for _, raw := range claims {
		fields, values, err := claimFields(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse claim: %w", err)
		}
		for _, f := range fields {
			if !seen[f] {
				seen[f] = true
				columns = append(columns, f)
			}
		}
		rows = append(rows, values)
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(columns, ","))
	buf.WriteByte('\n')
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = quote(row[col])
		}
		buf.WriteString(strings.Join(cells, ","))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// claimFields walks one claim object's token stream so top-level key order is
// preserved exactly as the backend emitted it (a decoded Go map would lose it).
func claimFields(raw json.RawMessage) ([]string, map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("claim is not a JSON object")
	}

	var fields []string
	values := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)

		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		fields = append(fields, key)
		values[key] = stringify(val)
	}
	return fields, values, nil
}

// stringify turns a decoded JSON value into its cell text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		// Nested objects/arrays pass through as compact JSON.
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// quote wraps a cell in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// MergedFilename returns a timestamped name for a merged export.
func MergedFilename(ext string, now time.Time) string {
	return fmt.Sprintf("merged_claims_%s.%s", now.Format("20060102_150405"), ext)
}

// DocumentFilename returns the export name for one document's raw schema.
func DocumentFilename(doc document.Document) string {
	base := strings.TrimSuffix(doc.Name, ".pdf")
	if base == "" {
		base = doc.ID
	}
	return base + "_schema.json"
}

// DocumentJSON renders one completed document's raw schema, pretty-printed.
func DocumentJSON(doc document.Document) ([]byte, error) {
	if doc.Stage != document.StageComplete || doc.Result == nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, ErrNotCompleted)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc.Result, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format result: %w", err)
	}
	return buf.Bytes(), nil
}
