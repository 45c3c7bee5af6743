package extractor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/oukeidos/codeglot/internal/unit"
)

func TestPythonCanParse(t *testing.T) {
	p := NewPython()
	for _, path := range []string{"a.py", "a.pyi", "a.pyw"} {
		if !p.CanParse(path, "") {
			t.Errorf("CanParse(%q) = false", path)
		}
	}
	if p.CanParse("a.txt", "") || p.CanParse("a.js", "") {
		t.Error("non-Python extensions without content must not parse")
	}
	if !p.CanParse("script", "def foo():\n    pass") {
		t.Error("content sniff should accept def")
	}
	if !p.CanParse("script", "import os\n") {
		t.Error("content sniff should accept import")
	}
	if p.CanParse("script", "plain text without code") {
		t.Error("content sniff accepted non-Python text")
	}
}

func TestPythonExtractChineseComment(t *testing.T) {
	p := NewPython()
	res, err := p.ExtractUnits("# 这是中文注释\ndef f():\n    pass\n", "test.py")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units, want 1", res.Len())
	}
	u := res.Units[0]
	if u.Content != "这是中文注释" || u.Type != unit.TypeComment || u.Line != 1 {
		t.Errorf("unexpected unit: %+v", u)
	}
}

func TestPythonSingleLineDocstring(t *testing.T) {
	p := NewPython()
	original := "def f():\n    \"\"\"Hello world\"\"\"\n    pass"
	res, err := p.ExtractUnits(original, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units, want 1", res.Len())
	}
	u := res.Units[0]
	if u.Content != "Hello world" || u.Type != unit.TypeDocstring || u.Span() != 1 {
		t.Errorf("unexpected unit: %+v", u)
	}
	if u.Priority != unit.PriorityHigh {
		t.Errorf("docstring priority = %v, want high", u.Priority)
	}

	out, err := p.Reconstruct(original, []unit.TranslatableUnit{u.WithContent("Bonjour")}, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	want := "def f():\n    \"\"\"Bonjour\"\"\"\n    pass"
	if out != want {
		t.Errorf("reconstruct = %q, want %q", out, want)
	}
}

func TestPythonSingleQuoteDocstring(t *testing.T) {
	p := NewPython()
	res, err := p.ExtractUnits("def f():\n    '''Docstring with single quotes'''\n    pass\n", "test.py")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 || res.Units[0].Content != "Docstring with single quotes" {
		t.Fatalf("unexpected units: %+v", res.Units)
	}
}

func TestPythonMultiLineDocstring(t *testing.T) {
	p := NewPython()
	content := "def f():\n    \"\"\"\n    计算两个数字的总和并返回\n    \"\"\"\n    pass\n"
	res, err := p.ExtractUnits(content, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 1 {
		t.Fatalf("got %d units, want 1", res.Len())
	}
	u := res.Units[0]
	if u.Content != "计算两个数字的总和并返回" || u.Line != 2 {
		t.Errorf("unexpected unit: %+v", u)
	}
	if u.Span() != 3 || u.EndLine() != 4 {
		t.Errorf("span = %d end = %d, want 3 and 4", u.Span(), u.EndLine())
	}
}

func TestPythonMultiLineDocstringCollapse(t *testing.T) {
	p := NewPython()
	content := "def f():\n    \"\"\"\n    计算两个数字的总和并返回\n    \"\"\"\n    pass\n"
	res, err := p.ExtractUnits(content, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Reconstruct(content, []unit.TranslatableUnit{res.Units[0].WithContent("Computes the sum of two numbers")}, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	want := "def f():\n    \"\"\"Computes the sum of two numbers\"\"\"\n    pass\n"
	if out != want {
		t.Errorf("reconstruct = %q, want %q", out, want)
	}
	if got, orig := countLines(out), countLines(content); orig-got != res.Units[0].Span()-1 {
		t.Errorf("line count %d -> %d, want a decrease of span-1 = %d", orig, got, res.Units[0].Span()-1)
	}
}

func TestPythonUnterminatedDocstringDropped(t *testing.T) {
	p := NewPython()
	content := "def f():\n    \"\"\"\n    texto sin cierre de comillas\n"
	res, err := p.ExtractUnits(content, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("unterminated docstring must emit nothing, got %+v", res.Units)
	}
}

func TestPythonSpanInvariant(t *testing.T) {
	p := NewPython()
	content := "# 第一个注释内容在这里\ndef f():\n    \"\"\"\n    多行文档字符串的内容\n    \"\"\"\n    pass\n# 最后一个注释内容在这里\n"
	res, err := p.ExtractUnits(content, "test.py")
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range res.Units {
		for j, b := range res.Units {
			if i == j {
				continue
			}
			if a.Line <= b.EndLine() && b.Line <= a.EndLine() {
				t.Errorf("units %d and %d overlap: [%d,%d] vs [%d,%d]",
					i, j, a.Line, a.EndLine(), b.Line, b.EndLine())
			}
		}
	}
}

func TestPythonFilter(t *testing.T) {
	p := NewPython()
	tests := []struct {
		text string
		want bool
	}{
		{"This is a normal comment", true},
		{"这是中文注释", true},
		{"日本語のコメントです", true},
		{"한국어 주석입니다", true},
		{"abc", true},
		{"ab", false},
		{"", false},
		{"TODO", false},
		{"self", false},
		{"kwargs", false},
		{"return", false},
		{"user@example.com", false},
		{"See https://example.com for details", false},
		{"========", false},
	}
	for _, tt := range tests {
		if got := p.isTranslatable(tt.text); got != tt.want {
			t.Errorf("isTranslatable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestPythonFilterBoundary(t *testing.T) {
	p := NewPython()
	if res, _ := p.ExtractUnits("# ab\n", "t.py"); !res.IsEmpty() {
		t.Error("2-character text must not produce a unit")
	}
	if res, _ := p.ExtractUnits("# abc\n", "t.py"); res.Len() != 1 {
		t.Error("3-character alphabetic text must produce a unit")
	}
}

func TestPythonIdempotentExtraction(t *testing.T) {
	p := NewPython()
	content := "# 这是中文注释\ndef f():\n    \"\"\"Docstring body here\"\"\"\n    pass\n"
	a, _ := p.ExtractUnits(content, "t.py")
	b, _ := p.ExtractUnits(content, "t.py")
	if !reflect.DeepEqual(a, b) {
		t.Error("extraction is not deterministic")
	}
}

func TestPythonRoundTripIdentity(t *testing.T) {
	p := NewPython()
	original := "# Module level comment here\ndef f():\n    \"\"\"Single line docstring\"\"\"\n    # inner comment body here\n    pass\n"
	res, err := p.ExtractUnits(original, "t.py")
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Reconstruct(original, res.Units, "t.py")
	if err != nil {
		t.Fatal(err)
	}
	if out != original {
		t.Errorf("round trip changed the file:\n%q\nvs\n%q", out, original)
	}
}

func TestPythonReconstructEmptyUnits(t *testing.T) {
	p := NewPython()
	original := "def foo():\n    pass"
	out, err := p.Reconstruct(original, nil, "t.py")
	if err != nil {
		t.Fatal(err)
	}
	if out != original {
		t.Errorf("reconstruct with no units = %q, want original", out)
	}
}

func TestPythonCommentAndDocstringPriorities(t *testing.T) {
	p := NewPython()
	content := "# Comment with medium priority\ndef foo():\n    \"\"\"Docstring with high priority\"\"\"\n    pass\n"
	res, _ := p.ExtractUnits(content, "t.py")
	if res.Len() != 2 {
		t.Fatalf("got %d units", res.Len())
	}
	for _, u := range res.Units {
		switch u.Type {
		case unit.TypeComment:
			if u.Priority != unit.PriorityMedium {
				t.Errorf("comment priority = %v", u.Priority)
			}
		case unit.TypeDocstring:
			if u.Priority != unit.PriorityHigh {
				t.Errorf("docstring priority = %v", u.Priority)
			}
		}
	}
}

func TestPythonIndentedComment(t *testing.T) {
	p := NewPython()
	res, _ := p.ExtractUnits("def foo():\n    # Indented comment body\n    pass\n", "t.py")
	if res.Len() != 1 {
		t.Fatalf("got %d units", res.Len())
	}
	if !strings.Contains(res.Units[0].Content, "Indented comment body") || res.Units[0].Line != 2 {
		t.Errorf("unexpected unit: %+v", res.Units[0])
	}
}
