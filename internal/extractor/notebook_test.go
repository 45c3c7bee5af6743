package extractor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/oukeidos/codeglot/internal/apperrors"
	"github.com/oukeidos/codeglot/internal/unit"
)

const sampleNotebook = `{
  "cells": [
    {"cell_type": "markdown", "source": ["# データ分析の概要\n", "このノートブックについて"]},
    {"cell_type": "code", "source": ["# 这是代码注释\n", "x = 5\n"]},
    {"cell_type": "markdown", "source": ""}
  ],
  "metadata": {"kernelspec": {"name": "python3"}},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func TestNotebookCanParse(t *testing.T) {
	n := NewNotebook()
	if !n.CanParse("analysis.ipynb", "") {
		t.Error("should accept .ipynb")
	}
	if n.CanParse("analysis.py", "") || n.CanParse("analysis.json", "") {
		t.Error("should reject other extensions")
	}
}

func TestNotebookExtract(t *testing.T) {
	n := NewNotebook()
	res, err := n.ExtractUnits(sampleNotebook, "test.ipynb")
	if err != nil {
		t.Fatal(err)
	}
	if res.FileType != "jupyter_notebook" {
		t.Errorf("file_type = %q", res.FileType)
	}
	if res.Len() != 2 {
		t.Fatalf("got %d units, want 2: %+v", res.Len(), res.Units)
	}

	md := res.Units[0]
	if md.Type != unit.TypeTextNode || md.Line != 0 {
		t.Errorf("markdown unit: %+v", md)
	}
	if md.Priority != unit.PriorityHigh {
		t.Errorf("header markdown should be high priority, got %v", md.Priority)
	}

	code := res.Units[1]
	if code.Type != unit.TypeComment || code.Content != "这是代码注释" {
		t.Errorf("code comment unit: %+v", code)
	}
	if code.Line != 1000 {
		t.Errorf("code comment anchor = %d, want cell*1000+offset = 1000", code.Line)
	}
}

func TestNotebookCodeCommentFilter(t *testing.T) {
	n := NewNotebook()
	tests := []struct {
		text string
		want bool
	}{
		{"这是代码注释", true},
		{"comentário em português", true},
		{"plain ascii comment", false},
		{"import numpy as np", false},
		{"x = 5", false},
		{"https://example.com", false},
		{"ab", false},
	}
	for _, tt := range tests {
		if got := n.isTranslatable(tt.text); got != tt.want {
			t.Errorf("isTranslatable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNotebookEmptyAndFencedCellsSkipped(t *testing.T) {
	n := NewNotebook()
	nb := `{"cells": [
		{"cell_type": "markdown", "source": ["   \n"]},
		{"cell_type": "markdown", "source": ["` + "```" + `python\nprint(1)\n` + "```" + `"]}
	]}`
	res, err := n.ExtractUnits(nb, "t.ipynb")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected no units, got %+v", res.Units)
	}
}

func TestNotebookInvalidJSON(t *testing.T) {
	n := NewNotebook()
	_, err := n.ExtractUnits("not valid json", "t.ipynb")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := apperrors.KindOf(err); !ok || kind != apperrors.KindParse {
		t.Errorf("error kind = %v, want parse", kind)
	}
	var e *apperrors.Error
	if !errors.As(err, &e) {
		t.Error("error should be an apperrors.Error")
	}
}

func TestNotebookReconstruct(t *testing.T) {
	n := NewNotebook()
	res, err := n.ExtractUnits(sampleNotebook, "t.ipynb")
	if err != nil {
		t.Fatal(err)
	}

	var translated []unit.TranslatableUnit
	for _, u := range res.Units {
		if u.Type == unit.TypeTextNode {
			translated = append(translated, u.WithContent("# Data analysis overview\nAbout this notebook"))
		} else {
			translated = append(translated, u.WithContent("This is a code comment"))
		}
	}

	out, err := n.Reconstruct(sampleNotebook, translated, "t.ipynb")
	if err != nil {
		t.Fatal(err)
	}

	var nb map[string]any
	if err := json.Unmarshal([]byte(out), &nb); err != nil {
		t.Fatalf("reconstructed notebook is not valid JSON: %v", err)
	}
	cells := nb["cells"].([]any)

	first := cells[0].(map[string]any)
	if src, _ := first["source"].(string); src != "# Data analysis overview\nAbout this notebook" {
		t.Errorf("markdown cell source = %q", src)
	}

	// Code cells are never rewritten.
	second := cells[1].(map[string]any)
	if _, isString := second["source"].(string); isString {
		t.Error("code cell source should keep its original array form")
	}

	if nb["nbformat"].(float64) != 4 {
		t.Error("top-level notebook fields must survive reconstruction")
	}
}

func TestNotebookReconstructInvalidJSON(t *testing.T) {
	n := NewNotebook()
	if _, err := n.Reconstruct("{broken", nil, "t.ipynb"); err == nil {
		t.Fatal("expected error")
	}
}
