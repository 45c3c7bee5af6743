package extractor

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/oukeidos/codeglot/internal/apperrors"
	"github.com/oukeidos/codeglot/internal/langdetect"
	"github.com/oukeidos/codeglot/internal/unit"
)

var nbCommentRE = regexp.MustCompile(`^\s*#\s*(.+)$`)

// codeIndicators mark comment text that is actually code pasted into a
// comment; such lines are never worth translating.
var codeIndicators = []string{"import ", "def ", "class ", "return ", "=", "{", "}"}

// Notebook extracts markdown cells and code-cell comments from Jupyter
// documents. A markdown cell becomes a single unit anchored at the cell
// index. Code-cell comments are anchored at cellIndex*1000+lineOffset,
// an encoding rather than a real line number; they are reported for
// scanning but never reinserted, since a sub-cell offset cannot be
// resolved back safely once the cell text changes.
type Notebook struct{}

func NewNotebook() *Notebook {
	return &Notebook{}
}

func (n *Notebook) Name() string { return "jupyter_notebook" }

func (n *Notebook) SupportedExtensions() []string {
	return []string{".ipynb"}
}

func (n *Notebook) CanParse(path, _ string) bool {
	return strings.HasSuffix(path, ".ipynb")
}

// cellSource joins a cell's source field, which the notebook format
// stores as either a string or an array of line strings.
func cellSource(cell map[string]any) (string, bool) {
	switch src := cell["source"].(type) {
	case string:
		return src, true
	case []any:
		var b strings.Builder
		for _, v := range src {
			s, ok := v.(string)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

// isTranslatable keeps only comments that read as foreign-language
// prose. Unlike the other extractors this one requires a non-ASCII
// character: notebooks are scanned for already-translated-from text, not
// English source comments.
func (n *Notebook) isTranslatable(text string) bool {
	if len(text) < 3 {
		return false
	}
	for _, ind := range codeIndicators {
		if strings.Contains(text, ind) {
			return false
		}
	}
	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		return false
	}

	total := 0
	alpha := 0
	ascii := true
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
		if r > 127 {
			ascii = false
		}
	}
	if alpha < total/2 {
		return false
	}
	return !ascii
}

func (n *Notebook) ExtractUnits(content, path string) (*unit.ParseResult, error) {
	var notebook map[string]any
	if err := json.Unmarshal([]byte(content), &notebook); err != nil {
		return nil, apperrors.Parse(err)
	}

	result := unit.NewParseResult("jupyter_notebook", countLines(content))
	result.Metadata = map[string]any{
		"extractor": n.Name(),
		"file_path": path,
	}

	cells, _ := notebook["cells"].([]any)
	for idx, c := range cells {
		cell, ok := c.(map[string]any)
		if !ok {
			continue
		}
		source, ok := cellSource(cell)
		if !ok {
			continue
		}
		cellType, _ := cell["cell_type"].(string)

		switch cellType {
		case "markdown":
			trimmed := strings.TrimSpace(source)
			if trimmed == "" || strings.HasPrefix(source, "```") {
				continue
			}
			u := unit.New(trimmed, unit.TypeTextNode, idx, 0)
			if strings.HasPrefix(source, "#") {
				u.Priority = unit.PriorityHigh
			}
			u.Metadata = map[string]any{"cell_index": idx}
			u.DetectedLanguage = langdetect.Tagged(trimmed)
			result.Add(u)
		case "code":
			for off, line := range strings.Split(source, "\n") {
				m := nbCommentRE.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				text := strings.TrimSpace(m[1])
				if !n.isTranslatable(text) {
					continue
				}
				u := unit.New(text, unit.TypeComment, idx*1000+off, 0)
				u.Metadata = map[string]any{"cell_index": idx}
				u.DetectedLanguage = langdetect.Tagged(text)
				result.Add(u)
			}
		}
	}
	return result, nil
}

// Reconstruct replaces whole markdown cell sources addressed by the cell
// index each text unit carries. Code-cell comment units are ignored.
// A serialization failure propagates; there is no partial mode since a
// half-written notebook is worse than no change.
func (n *Notebook) Reconstruct(original string, units []unit.TranslatableUnit, _ string) (string, error) {
	var notebook map[string]any
	if err := json.Unmarshal([]byte(original), &notebook); err != nil {
		return "", apperrors.Parse(err)
	}

	cells, _ := notebook["cells"].([]any)
	for _, u := range units {
		if u.Type != unit.TypeTextNode {
			continue
		}
		idx := u.Line
		if v, ok := u.Metadata["cell_index"]; ok {
			switch ci := v.(type) {
			case int:
				idx = ci
			case float64:
				idx = int(ci)
			}
		}
		if idx < 0 || idx >= len(cells) {
			continue
		}
		cell, ok := cells[idx].(map[string]any)
		if !ok {
			continue
		}
		if ct, _ := cell["cell_type"].(string); ct != "markdown" {
			continue
		}
		cell["source"] = u.Content
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notebook); err != nil {
		return "", apperrors.Parse(err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
