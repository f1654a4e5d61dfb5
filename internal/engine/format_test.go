// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

func TestFormatTable(t *testing.T) {
	e := testEngine(t)
	out := e.Search(snapshot(), []string{"mentoring"})

	var buf bytes.Buffer
	FormatTable(out, &buf)
	s := buf.String()

	if !strings.Contains(s, "Found 1 references matching your search.") {
		t.Error("table should carry the section message")
	}
	if !strings.Contains(s, "Career Paths") {
		t.Error("table should contain 'Career Paths'")
	}
	if !strings.Contains(s, "http://paper.example/1") {
		t.Error("link cells should print their URL")
	}
	if !strings.Contains(s, "Mentoring Matters  Ali") {
		t.Errorf("books rows should be aligned by display column, got:\n%s", s)
	}
}

func TestFormatTableWarning(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(testEngine(t).Search(snapshot(), nil), &buf)
	if got := strings.TrimSpace(buf.String()); got != MsgEmptyQuery {
		t.Errorf("FormatTable = %q, want %q", got, MsgEmptyQuery)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate(strings.Repeat("é", 12), 10); got != strings.Repeat("é", 7)+"..." {
		t.Errorf("truncate = %q", got)
	}
	if got := flatten("a\n  b\tc"); got != "a b c" {
		t.Errorf("flatten = %q", got)
	}
}

func TestFormatJSON(t *testing.T) {
	out := testEngine(t).Search(snapshot(), []string{"mentoring"})

	var buf bytes.Buffer
	if err := FormatJSON(out, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var doc struct {
		Status   string
		Keywords []string
		Sections []struct {
			Kind    string
			Columns []string
			Rows    []map[string]any
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Status != "success" {
		t.Errorf("status = %q, want success", doc.Status)
	}
	if len(doc.Sections) != 2 || doc.Sections[1].Kind != "books" {
		t.Fatalf("sections = %+v", doc.Sections)
	}
	if got := doc.Sections[1].Rows[0]["Link"]; got != "https://books.example/mm" {
		t.Errorf("book link = %v", got)
	}
	if got := doc.Sections[1].Rows[0]["Year"]; got != "2018" {
		t.Errorf("book year = %v", got)
	}
}

func TestFormatYAML(t *testing.T) {
	out := testEngine(t).Search(snapshot(), []string{"xyz123"})

	var buf bytes.Buffer
	if err := FormatYAML(out, &buf); err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	var doc outcomeDoc
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc.Status != StatusInfo {
		t.Errorf("status = %q, want info", doc.Status)
	}
	if len(doc.Sections) != 2 || len(doc.Sections[0].Rows) != 0 {
		t.Errorf("sections = %+v", doc.Sections)
	}
	if got := doc.Sections[1].Columns; strings.Join(got, ",") != "Title,Name,Year,Link" {
		t.Errorf("columns = %v", got)
	}
}
