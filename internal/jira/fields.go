package jira

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FieldKind classifies an optional issue field.
type FieldKind int

const (
	FieldAbsent FieldKind = iota
	FieldNumeric
	FieldNonNumeric
)

// FieldValue is the result of looking up an optional field by identifier.
type FieldValue struct {
	Kind   FieldKind
	Number float64
	Raw    json.RawMessage
}

// LookupField inspects a raw field map. Missing keys, JSON null and empty strings are absent;
// numbers and numeric strings are numeric; everything else is present but non-numeric.
func LookupField(fields map[string]json.RawMessage, id string) FieldValue {
	raw, ok := fields[id]
	if !ok {
		return FieldValue{Kind: FieldAbsent}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return FieldValue{Kind: FieldAbsent}
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return FieldValue{Kind: FieldNumeric, Number: n, Raw: raw}
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return FieldValue{Kind: FieldAbsent}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FieldValue{Kind: FieldNumeric, Number: f, Raw: raw}
		}
	}
	return FieldValue{Kind: FieldNonNumeric, Raw: raw}
}

// ExtractStoryPoints returns the first numeric value among candidates, or 0.
func ExtractStoryPoints(fields map[string]json.RawMessage, candidates []string) float64 {
	for _, id := range candidates {
		if v := LookupField(fields, id); v.Kind == FieldNumeric {
			return v.Number
		}
	}
	return 0
}

// FieldString renders an optional field as text: strings as-is, numbers in
// shortest form and select options by their value or name. Anything else is "".
func FieldString(fields map[string]json.RawMessage, id string) string {
	v := LookupField(fields, id)
	if v.Kind == FieldAbsent {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if v.Kind == FieldNumeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	var option struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(v.Raw, &option); err != nil {
		return ""
	}
	if option.Value != "" {
		return option.Value
	}
	return option.Name
}
