package jira

import (
	"encoding/json"
	"testing"
)

func rawFields(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestLookupField(t *testing.T) {
	fields := rawFields(t, `{
		"num": 5,
		"numstr": "3.5",
		"empty": "",
		"null": null,
		"text": "large",
		"obj": {"value": 1}
	}`)

	tests := []struct {
		id   string
		kind FieldKind
		num  float64
	}{
		{"num", FieldNumeric, 5},
		{"numstr", FieldNumeric, 3.5},
		{"empty", FieldAbsent, 0},
		{"null", FieldAbsent, 0},
		{"missing", FieldAbsent, 0},
		{"text", FieldNonNumeric, 0},
		{"obj", FieldNonNumeric, 0},
	}

	for _, tt := range tests {
		got := LookupField(fields, tt.id)
		if got.Kind != tt.kind {
			t.Errorf("LookupField(%q).Kind = %v, want %v", tt.id, got.Kind, tt.kind)
		}
		if got.Number != tt.num {
			t.Errorf("LookupField(%q).Number = %v, want %v", tt.id, got.Number, tt.num)
		}
	}
}

func TestExtractStoryPoints(t *testing.T) {
	candidates := []string{"customfield_10030", "customfield_10016"}

	tests := []struct {
		name     string
		body     string
		expected float64
	}{
		{"FirstPreferred", `{"customfield_10030": 3, "customfield_10016": 8}`, 3},
		{"FallsBackWhenNull", `{"customfield_10030": null, "customfield_10016": 8}`, 8},
		{"FallsBackWhenEmpty", `{"customfield_10030": "", "customfield_10016": "5"}`, 5},
		{"SkipsNonNumeric", `{"customfield_10030": "XL", "customfield_10016": 2}`, 2},
		{"NoneYieldsZero", `{"summary": "x"}`, 0},
		{"AllNonNumeric", `{"customfield_10030": "XL", "customfield_10016": {"a": 1}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStoryPoints(rawFields(t, tt.body), candidates); got != tt.expected {
				t.Errorf("ExtractStoryPoints() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractStoryPoints_NilMap(t *testing.T) {
	if got := ExtractStoryPoints(nil, []string{"customfield_10030"}); got != 0 {
		t.Errorf("ExtractStoryPoints(nil) = %v, want 0", got)
	}
}

func TestFieldString(t *testing.T) {
	fields := rawFields(t, `{
		"text": " CC-42 ",
		"num": 1620,
		"option": {"value": "Opex", "id": "10001"},
		"named": {"name": "Platform"},
		"null": null,
		"list": ["a", "b"]
	}`)

	tests := []struct {
		id       string
		expected string
	}{
		{"text", "CC-42"},
		{"num", "1620"},
		{"option", "Opex"},
		{"named", "Platform"},
		{"null", ""},
		{"list", ""},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := FieldString(fields, tt.id); got != tt.expected {
				t.Errorf("FieldString(%q) = %q, want %q", tt.id, got, tt.expected)
			}
		})
	}
}
