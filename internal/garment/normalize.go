package garment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/closetlab/wairdrobe/internal/apperr"
)

// ParseSnapshot parses a backup payload into a normalized garment sequence.
// The payload must be a JSON array; anything else (including empty input)
// fails with apperr.ErrInvalidFormat. Individual entries that are not
// objects are dropped rather than aborting the whole import.
func ParseSnapshot(raw []byte) ([]Garment, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: file is empty", apperr.ErrInvalidFormat)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		var probe any
		if jsonErr := json.Unmarshal(raw, &probe); jsonErr != nil {
			return nil, fmt.Errorf("%w: not valid JSON", apperr.ErrInvalidFormat)
		}
		return nil, fmt.Errorf("%w: expected a list of items", apperr.ErrInvalidFormat)
	}

	out := make([]Garment, 0, len(records))
	for _, rec := range records {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			continue // non-object entry
		}
		out = append(out, normalizeRecord(fields))
	}
	return out, nil
}

// normalizeRecord applies the per-field default substitution rules:
// missing id -> generated, missing imageUrl -> legacy image field -> "",
// missing name -> type -> "Imported Garment", missing type -> "Unknown",
// missing category -> "Other", uses coerced to an empty list unless
// list-shaped, lastWorn kept only when string-shaped.
func normalizeRecord(fields map[string]json.RawMessage) Garment {
	g := Garment{
		ID:       stringField(fields, "id"),
		ImageURL: stringField(fields, "imageUrl"),
		Name:     stringField(fields, "name"),
		Type:     stringField(fields, "type"),
		Category: stringField(fields, "category"),
		LastWorn: stringOnlyField(fields, "lastWorn"),
		Uses:     []string{},
	}

	if g.ID == "" {
		g.ID = GenerateImportID()
	}
	if g.ImageURL == "" {
		g.ImageURL = stringField(fields, "image")
	}
	if g.Name == "" {
		g.Name = g.Type
	}
	if g.Name == "" {
		g.Name = "Imported Garment"
	}
	if g.Type == "" {
		g.Type = "Unknown"
	}
	if g.Category == "" {
		g.Category = CategoryOther
	}

	var uses []string
	if raw, ok := fields["uses"]; ok && json.Unmarshal(raw, &uses) == nil && uses != nil {
		g.Uses = uses
	}

	if raw, ok := fields["isNewPurchase"]; ok {
		_ = json.Unmarshal(raw, &g.NewPurchase)
	}

	return g
}

// stringField extracts a field as a string, coercing JSON numbers and
// booleans to their textual form so numeric ids survive the import.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// stringOnlyField extracts a field only when it is string-shaped.
func stringOnlyField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// GenerateImportID returns a fresh id for imported records missing one.
func GenerateImportID() string {
	return "imp-" + uuid.NewString()
}
