package main

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sambeau/hyssop/pkg/hypertext/interp"
)

func TestDriverForDSN(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantConn   string
	}{
		{"blog.db", "sqlite", "blog.db"},
		{":memory:", "sqlite", ":memory:"},
		{"postgres://user@localhost/blog", "postgres", "postgres://user@localhost/blog"},
		{"postgresql://user@localhost/blog", "postgres", "postgresql://user@localhost/blog"},
		{"mysql://user:pw@tcp(localhost:3306)/blog", "mysql", "user:pw@tcp(localhost:3306)/blog"},
	}
	for _, tt := range tests {
		driver, conn := driverForDSN(tt.dsn)
		if driver != tt.wantDriver || conn != tt.wantConn {
			t.Errorf("driverForDSN(%q) = (%q, %q), want (%q, %q)",
				tt.dsn, driver, conn, tt.wantDriver, tt.wantConn)
		}
	}
}

// seedDB creates a small SQLite database on disk for query tests.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE posts (title TEXT, url TEXT, views INTEGER)`,
		`INSERT INTO posts VALUES ('A & B', '/a?x=1&y=2', 10)`,
		`INSERT INTO posts VALUES ('Second', '/b', 20)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("executing %q: %v", stmt, err)
		}
	}
	return path
}

func TestQueryRows(t *testing.T) {
	path := seedDB(t)

	rows, err := queryRows(path, "SELECT title, url, views FROM posts ORDER BY views")
	if err != nil {
		t.Fatalf("queryRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["title"] != "A & B" {
		t.Errorf("title = %v, want A & B", rows[0]["title"])
	}
	if rows[1]["views"] != int64(20) {
		t.Errorf("views = %v (%T), want int64 20", rows[1]["views"], rows[1]["views"])
	}
}

func TestQueryRowsBadQuery(t *testing.T) {
	path := seedDB(t)

	_, err := queryRows(path, "SELECT nope FROM missing")
	if err == nil {
		t.Fatal("expected error for bad query")
	}
	if err.Code != "DB-0002" {
		t.Errorf("code = %s, want DB-0002", err.Code)
	}
}

// Rows render through the template with full context escaping.
func TestRowsRenderEscaped(t *testing.T) {
	path := seedDB(t)

	rows, err := queryRows(path, "SELECT title, url FROM posts WHERE views = 10")
	if err != nil {
		t.Fatalf("queryRows failed: %v", err)
	}

	tpl, perr := interp.Parse(`<li><a href=@{url}>@{title}</a></li>`)
	if perr != nil {
		t.Fatalf("parse failed: %v", perr)
	}
	out, rerr := tpl.Render(rows[0])
	if rerr != nil {
		t.Fatalf("render failed: %v", rerr)
	}
	want := `<li><a href=/a?x=1&#38;y=2>A &amp; B</a></li>`
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
