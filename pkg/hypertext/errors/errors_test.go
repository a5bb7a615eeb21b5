package errors

import (
	"strings"
	"testing"
)

func TestCatalogErrorRendersTemplate(t *testing.T) {
	err := New("INTERP-0002", map[string]any{"Context": "tag name"})

	if err.Class != ClassInterp {
		t.Errorf("expected class %s, got %s", ClassInterp, err.Class)
	}
	if err.Code != "INTERP-0002" {
		t.Errorf("expected code INTERP-0002, got %s", err.Code)
	}
	if !strings.Contains(err.Message, "tag name") {
		t.Errorf("message should contain the context, got %q", err.Message)
	}
}

func TestUnknownCodeFallsBack(t *testing.T) {
	err := New("NOPE-9999", map[string]any{"message": "something odd"})
	if err.Message != "something odd" {
		t.Errorf("expected fallback message, got %q", err.Message)
	}
	if err.Code != "NOPE-9999" {
		t.Errorf("expected code preserved, got %s", err.Code)
	}
}

func TestErrorStringIncludesLocation(t *testing.T) {
	err := New("PARSE-0001", nil).WithPosition(3, 14).WithFile("page.html")
	s := err.Error()
	if !strings.Contains(s, "page.html") {
		t.Errorf("expected file in %q", s)
	}
	if !strings.Contains(s, "line 3, column 14") {
		t.Errorf("expected position in %q", s)
	}
}

func TestHintsAppearInString(t *testing.T) {
	err := NewSimpleWithHints(ClassParse, "bad template", "close the brace")
	if !strings.Contains(err.String(), "close the brace") {
		t.Errorf("expected hint in %q", err.String())
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeNoEscapeRule, map[string]any{"Type": "chan int"})
	if !IsCode(err, CodeNoEscapeRule) {
		t.Errorf("IsCode should match")
	}
	if IsCode(err, CodeInvalidPosition) {
		t.Errorf("IsCode should not match a different code")
	}
}

func TestFindClosestMatch(t *testing.T) {
	tests := []struct {
		input      string
		candidates []string
		expected   string
	}{
		{"titel", []string{"title", "url", "body"}, "title"},
		{"URL", []string{"url", "title"}, ""}, // exact match after lowering
		{"zzz", []string{"title", "url"}, ""},
		{"", []string{"title"}, ""},
		{"bod", []string{"body", "title"}, "body"},
	}

	for _, tt := range tests {
		got := FindClosestMatch(tt.input, tt.candidates)
		if got != tt.expected {
			t.Errorf("FindClosestMatch(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestUnboundPlaceholderSuggests(t *testing.T) {
	err := NewUnboundPlaceholder("titel", []string{"title", "url"})
	found := false
	for _, h := range err.Hints {
		if strings.Contains(h, "`title`") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected did-you-mean hint, got %v", err.Hints)
	}
}

func TestToJSON(t *testing.T) {
	err := New(CodeMalformedAttrName, nil)
	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON failed: %v", jerr)
	}
	if !strings.Contains(string(data), `"ATTR-0001"`) {
		t.Errorf("expected code in JSON, got %s", data)
	}
}
