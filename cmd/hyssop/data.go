package main

import (
	"os"
	"strings"

	"github.com/araddon/dateparse"
	"gopkg.in/yaml.v3"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// buildData loads the --data file (if any) and layers --set bindings on
// top of it.
func buildData(dataPath string, sets []string) (map[string]any, *herrors.RenderError) {
	data := map[string]any{}

	if dataPath != "" {
		loaded, err := loadDataFile(dataPath)
		if err != nil {
			return nil, err
		}
		data = loaded
	}

	for _, set := range sets {
		key, value, found := strings.Cut(set, "=")
		if !found || key == "" {
			return nil, herrors.NewSimpleWithHints(herrors.ClassFormat,
				"invalid --set binding: "+set,
				"--set name=value")
		}
		data[key] = coerceValue(value)
	}

	return data, nil
}

// loadDataFile reads and parses a YAML or JSON data file. YAML is a
// superset of JSON, so one parser covers both.
func loadDataFile(path string) (map[string]any, *herrors.RenderError) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, herrors.New("IO-0001", map[string]any{
			"Operation": "read",
			"Path":      path,
			"GoError":   err.Error(),
		})
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		format := "YAML"
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			format = "JSON"
		}
		return nil, herrors.New("FMT-0001", map[string]any{
			"Format":  format,
			"GoError": err.Error(),
		}).WithFile(path)
	}

	coerceDates(data)
	return data, nil
}

// coerceDates converts date-looking strings in the data to time.Time, in
// place, so they render in the canonical RFC 3339 form and work with
// LocalDate formatting.
func coerceDates(data map[string]any) {
	for key, value := range data {
		switch v := value.(type) {
		case string:
			if t, ok := parseLooseDate(v); ok {
				data[key] = t
			}
		case map[string]any:
			coerceDates(v)
		case []any:
			for i, item := range v {
				if s, ok := item.(string); ok {
					if t, ok := parseLooseDate(s); ok {
						v[i] = t
					}
				} else if m, ok := item.(map[string]any); ok {
					coerceDates(m)
				}
			}
		}
	}
}

// parseLooseDate parses strings like "2024-03-09", "Mar 9 2024", or
// "09/03/2024 15:04". Plain words and bare numbers are left alone.
func parseLooseDate(s string) (t any, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) < 6 || len(s) > 40 {
		return nil, false
	}
	if !strings.ContainsAny(s, "0123456789") {
		return nil, false
	}
	if !strings.ContainsAny(s, "-/:,") && !strings.Contains(s, " ") {
		return nil, false
	}

	parsed, err := dateparse.ParseStrict(s)
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// coerceValue interprets a --set value as a YAML scalar, so numbers and
// booleans bind as their natural types.
func coerceValue(value string) any {
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return value
	}
	// YAML turns an empty value into nil; keep it an empty string so the
	// attribute-omission rules only trigger on explicit null
	if v == nil && value != "null" && value != "~" {
		return value
	}
	return v
}
