package extractor

import (
	"reflect"
	"testing"

	"github.com/oukeidos/codeglot/internal/unit"
)

func TestGenericCanParse(t *testing.T) {
	g := NewGeneric()
	for _, path := range []string{"a.js", "a.go", "a.rs", "a.c", "lib/a.sql", "a.lua", "a.sh"} {
		if !g.CanParse(path, "") {
			t.Errorf("CanParse(%q) = false, want true", path)
		}
	}
	for _, path := range []string{"a.txt", "a.ipynb", "noext"} {
		if g.CanParse(path, "") {
			t.Errorf("CanParse(%q) = true, want false", path)
		}
	}
}

func TestGenericExtractLineComment(t *testing.T) {
	g := NewGeneric()
	content := "// This is a comment\nfunction foo() {\n    return 42;\n}\n"
	res, err := g.ExtractUnits(content, "test.js")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units, want 1", res.Len())
	}
	u := res.Units[0]
	if u.Content != "This is a comment" || u.Type != unit.TypeComment || u.Line != 1 {
		t.Errorf("unexpected unit: %+v", u)
	}
	if res.FileType != "generic_code" || res.LineCount != 4 {
		t.Errorf("file_type=%q line_count=%d", res.FileType, res.LineCount)
	}
}

func TestGenericExtractBlockComment(t *testing.T) {
	g := NewGeneric()
	content := "/* This is a\n   multi line comment */\ncode();\n"
	res, err := g.ExtractUnits(content, "test.c")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units, want 1", res.Len())
	}
	u := res.Units[0]
	if u.Content != "This is a multi line comment" {
		t.Errorf("content = %q", u.Content)
	}
	if u.Line != 1 {
		t.Errorf("block comment should anchor at its start line, got %d", u.Line)
	}
}

func TestGenericSingleLineBlock(t *testing.T) {
	g := NewGeneric()
	content := "int x;\n/* Inline block comment */\n"
	res, err := g.ExtractUnits(content, "test.c")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 || res.Units[0].Content != "Inline block comment" || res.Units[0].Line != 2 {
		t.Fatalf("unexpected units: %+v", res.Units)
	}
}

func TestGenericCommentStyles(t *testing.T) {
	g := NewGeneric()
	tests := []struct {
		path    string
		content string
		want    string
	}{
		{"test.sh", "# Shell comment goes here\necho hi\n", "Shell comment goes here"},
		{"test.sql", "-- Select all customer rows\nSELECT 1;\n", "Select all customer rows"},
		{"test.lua", "-- Lua comment goes here\nlocal x = 1\n", "Lua comment goes here"},
		{"test.go", "// Go comment goes here\npackage main\n", "Go comment goes here"},
	}
	for _, tt := range tests {
		res, err := g.ExtractUnits(tt.content, tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if res.Len() == 0 {
			t.Errorf("%s: no units extracted", tt.path)
			continue
		}
		if res.Units[0].Content != tt.want {
			t.Errorf("%s: content = %q, want %q", tt.path, res.Units[0].Content, tt.want)
		}
	}
}

func TestGenericFilter(t *testing.T) {
	g := NewGeneric()
	tests := []struct {
		text string
		want bool
	}{
		{"This is a normal comment", true},
		{"abc", true},
		{"ab", false},
		{"", false},
		{"TODO", false},
		{"TODO: short fix", false},
		{"TODO: but this sentence is long enough to keep", true},
		{"http://example.com", false},
		{"see https://example.com now", false},
		{"========", false},
		{"x = y + z * 2 - 14", false},
	}
	for _, tt := range tests {
		if got := g.isTranslatable(tt.text); got != tt.want {
			t.Errorf("isTranslatable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGenericTodoFileYieldsNothing(t *testing.T) {
	g := NewGeneric()
	res, err := g.ExtractUnits("// TODO\ncode();\n", "test.js")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected zero units, got %+v", res.Units)
	}
}

func TestGenericFilterBoundary(t *testing.T) {
	g := NewGeneric()
	if res, _ := g.ExtractUnits("// ab\n", "t.js"); !res.IsEmpty() {
		t.Error("2-character text must not produce a unit")
	}
	if res, _ := g.ExtractUnits("// abc\n", "t.js"); res.Len() != 1 {
		t.Error("3-character alphabetic text must produce a unit")
	}
}

func TestGenericIdempotentExtraction(t *testing.T) {
	g := NewGeneric()
	content := "// First comment here\ncode();\n/* Block comment body */\n"
	a, err := g.ExtractUnits(content, "test.js")
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.ExtractUnits(content, "test.js")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("extraction is not deterministic")
	}
}

func TestGenericReconstruct(t *testing.T) {
	g := NewGeneric()
	original := "// Old comment text here\ncode();\n"
	res, err := g.ExtractUnits(original, "test.js")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units", res.Len())
	}
	translated := []unit.TranslatableUnit{res.Units[0].WithContent("Nouveau commentaire ici")}
	out, err := g.Reconstruct(original, translated, "test.js")
	if err != nil {
		t.Fatal(err)
	}
	want := "// Nouveau commentaire ici\ncode();\n"
	if out != want {
		t.Errorf("reconstruct = %q, want %q", out, want)
	}
}

func TestGenericReconstructKeepsPrefix(t *testing.T) {
	g := NewGeneric()
	original := "int x = 1; // counter of retries\n"
	res, _ := g.ExtractUnits(original, "test.c")
	if res.Len() != 1 {
		t.Fatalf("got %d units", res.Len())
	}
	out, err := g.Reconstruct(original, []unit.TranslatableUnit{res.Units[0].WithContent("contador de reintentos")}, "test.c")
	if err != nil {
		t.Fatal(err)
	}
	want := "int x = 1; // contador de reintentos\n"
	if out != want {
		t.Errorf("reconstruct = %q, want %q", out, want)
	}
}

func TestGenericRoundTripIdentity(t *testing.T) {
	g := NewGeneric()
	original := "// Package wires the demo server\npackage main\n\nfunc main() {\n\tx := 1 // retry counter value\n\t_ = x\n}\n"
	res, err := g.ExtractUnits(original, "main.go")
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Reconstruct(original, res.Units, "main.go")
	if err != nil {
		t.Fatal(err)
	}
	if out != original {
		t.Errorf("round trip changed the file:\n%q\nvs\n%q", out, original)
	}
}

func TestGenericRepeatedLineText(t *testing.T) {
	// Two identical comment lines must be replaced independently by
	// index, not by text matching.
	g := NewGeneric()
	original := "// Same comment text\na();\n// Same comment text\nb();\n"
	res, _ := g.ExtractUnits(original, "t.js")
	if res.Len() != 2 {
		t.Fatalf("got %d units", res.Len())
	}
	units := []unit.TranslatableUnit{
		res.Units[0].WithContent("First replacement"),
		res.Units[1].WithContent("Second replacement"),
	}
	out, err := g.Reconstruct(original, units, "t.js")
	if err != nil {
		t.Fatal(err)
	}
	want := "// First replacement\na();\n// Second replacement\nb();\n"
	if out != want {
		t.Errorf("reconstruct = %q, want %q", out, want)
	}
}

func TestGenericExtractEmptyFile(t *testing.T) {
	g := NewGeneric()
	res, err := g.ExtractUnits("", "test.js")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() || res.LineCount != 0 {
		t.Errorf("empty file: units=%d lines=%d", res.Len(), res.LineCount)
	}
}
