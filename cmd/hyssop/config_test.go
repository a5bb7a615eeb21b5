package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func testGetenv(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestLoadConfig(t *testing.T) {
	path := writeTempFile(t, "hyssop.yaml", `
port: 3000
template: page.html
data: site.yaml
`)

	cfg, err := LoadConfig(path, testGetenv(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Port)
	}
	// Relative paths resolve against the config file's directory
	wantTemplate := filepath.Join(filepath.Dir(path), "page.html")
	if cfg.Template != wantTemplate {
		t.Errorf("template = %q, want %q", cfg.Template, wantTemplate)
	}
}

func TestLoadConfigEnvInterpolation(t *testing.T) {
	path := writeTempFile(t, "hyssop.yaml", `
port: ${PORT:-9090}
template: ${SITE_DIR}/page.html
`)

	cfg, err := LoadConfig(path, testGetenv(map[string]string{
		"SITE_DIR": "/srv/site",
	}))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want default 9090", cfg.Port)
	}
	if cfg.Template != "/srv/site/page.html" {
		t.Errorf("template = %q", cfg.Template)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// No config file anywhere just means defaults
	cfg, err := LoadConfig("", testGetenv(nil))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), testGetenv(nil))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("got %v", err)
	}
}

func TestLoadConfigBadPort(t *testing.T) {
	path := writeTempFile(t, "hyssop.yaml", "port: 99999\n")
	_, err := LoadConfig(path, testGetenv(nil))
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := testGetenv(map[string]string{"NAME": "world"})

	tests := []struct {
		in   string
		want string
	}{
		{"hello ${NAME}", "hello world"},
		{"hello ${MISSING:-there}", "hello there"},
		{"hello ${MISSING}", "hello "},
		{"no vars here", "no vars here"},
	}
	for _, tt := range tests {
		if got := string(interpolateEnv([]byte(tt.in), getenv)); got != tt.want {
			t.Errorf("interpolateEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
