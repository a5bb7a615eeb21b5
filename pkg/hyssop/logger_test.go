package hyssop

import (
	"bytes"
	"testing"
)

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	log := WriterLogger(&buf)

	log.Log("rendering", "page.html")
	log.LogLine("...done")

	if got := buf.String(); got != "rendering page.html...done\n" {
		t.Errorf("got %q", got)
	}
}

func TestBufferedLogger(t *testing.T) {
	log := NewBufferedLogger()

	log.LogLine("first", 1)
	log.Log("sec")
	log.LogLine("ond")

	lines := log.Lines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "first 1" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != "second" {
		t.Errorf("lines[1] = %q", lines[1])
	}
	if log.String() != "first 1\nsecond\n" {
		t.Errorf("String() = %q", log.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Just must not panic
	log := NullLogger()
	log.Log("x")
	log.LogLine("y")
}
