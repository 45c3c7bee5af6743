package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/oukeidos/codeglot/internal/langdetect"
	"github.com/oukeidos/codeglot/internal/unit"
)

var (
	pyCommentRE = regexp.MustCompile(`^\s*#\s*(.+)$`)
	// Opening and closing triple quote on the same line.
	pySingleDocRE = regexp.MustCompile(`^\s*(?:"""(.+?)"""|'''(.+?)''')`)
	// Opening triple quote with optional trailing text.
	pyDocStartRE = regexp.MustCompile(`^\s*("""|''')\s*(.*)$`)
)

// pyKeywords are rejected only on exact match; a sentence mentioning
// them still passes.
var pyKeywords = map[string]struct{}{
	"TODO": {}, "FIXME": {}, "NOTE": {}, "HACK": {}, "XXX": {},
	"self": {}, "cls": {}, "args": {}, "kwargs": {},
	"return": {}, "def": {}, "class": {}, "import": {},
}

// Python extracts hash comments and triple-quoted docstrings. Files
// without a recognized extension are accepted when a content sniff finds
// Python keywords near the top.
type Python struct{}

func NewPython() *Python {
	return &Python{}
}

func (p *Python) Name() string { return "python" }

func (p *Python) SupportedExtensions() []string {
	return []string{".py", ".pyi", ".pyw"}
}

func (p *Python) CanParse(path, content string) bool {
	if hasAnySuffix(path, p.SupportedExtensions()) {
		return true
	}
	if content == "" {
		return false
	}
	sample := content
	if len(sample) > 500 {
		sample = sample[:500]
	}
	return strings.Contains(sample, "def ") ||
		strings.Contains(sample, "class ") ||
		strings.Contains(sample, "import ")
}

// isMeaningful counts letters plus CJK, Kana, and Hangul code points, so
// comments written entirely in those scripts are not discarded as
// symbol noise.
func isMeaningful(r rune) bool {
	if unicode.IsLetter(r) {
		return true
	}
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0x3040 && r <= 0x30FF: // Hiragana and Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul
		return true
	}
	return false
}

func (p *Python) isTranslatable(text string) bool {
	text = strings.TrimSpace(text)
	if uniseg.GraphemeClusterCount(text) < 3 {
		return false
	}
	if strings.Contains(text, "://") {
		return false
	}
	if strings.Contains(text, "@") && strings.Contains(text, ".") {
		return false
	}

	total := 0
	meaningful := 0
	for _, r := range text {
		total++
		if isMeaningful(r) {
			meaningful++
		}
	}
	if meaningful < total/3 {
		return false
	}

	if _, ok := pyKeywords[text]; ok {
		return false
	}
	return true
}

func (p *Python) ExtractUnits(content, path string) (*unit.ParseResult, error) {
	lines := splitLines(content)
	result := unit.NewParseResult("python", countLines(content))
	result.Metadata = map[string]any{
		"extractor": p.Name(),
		"file_path": path,
	}

	for i := 0; i < len(lines); i++ {
		lineNum := i + 1
		line := lines[i]

		if m := pyCommentRE.FindStringSubmatch(line); m != nil {
			text := strings.TrimSpace(m[1])
			if p.isTranslatable(text) {
				u := unit.New(text, unit.TypeComment, lineNum, 1)
				u.Context = fmt.Sprintf("Comment at line %d", lineNum)
				u.DetectedLanguage = langdetect.Tagged(text)
				result.Add(u)
			}
			continue
		}

		if m := pySingleDocRE.FindStringSubmatch(line); m != nil {
			text := strings.TrimSpace(m[1])
			if text == "" {
				text = strings.TrimSpace(m[2])
			}
			if p.isTranslatable(text) {
				u := unit.New(text, unit.TypeDocstring, lineNum, 1)
				u.Context = fmt.Sprintf("Docstring at line %d", lineNum)
				u.Priority = unit.PriorityHigh
				u.DetectedLanguage = langdetect.Tagged(text)
				result.Add(u)
			}
			continue
		}

		m := pyDocStartRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		quote := m[1]
		firstContent := strings.TrimSpace(m[2])
		if firstContent != "" && strings.HasSuffix(strings.TrimRight(line, " \t"), quote) {
			// Degenerate single-line form already handled above.
			continue
		}

		// Multi-line docstring: accumulate trimmed non-empty lines until
		// the closing quote. Unterminated constructs emit nothing so a
		// broken string is never rewritten.
		startLine := lineNum
		var parts []string
		if firstContent != "" {
			parts = append(parts, firstContent)
		}
		endLine := startLine
		found := false
		for i++; i < len(lines); i++ {
			cur := lines[i]
			endLine = i + 1
			if pos := strings.Index(cur, quote); pos >= 0 {
				if t := strings.TrimSpace(cur[:pos]); t != "" {
					parts = append(parts, t)
				}
				found = true
				break
			}
			if t := strings.TrimSpace(cur); t != "" {
				parts = append(parts, t)
			}
		}
		if !found {
			break
		}
		text := strings.Join(parts, " ")
		if p.isTranslatable(text) {
			span := endLine - startLine + 1
			u := unit.New(text, unit.TypeDocstring, startLine, 1)
			u.Context = fmt.Sprintf("Docstring at lines %d-%d", startLine, endLine)
			u.Priority = unit.PriorityHigh
			u.Metadata = map[string]any{"span": span, "end_line": endLine}
			u.DetectedLanguage = langdetect.Tagged(text)
			result.Add(u)
		}
	}
	return result, nil
}

// Reconstruct rebuilds the file from an explicit line array. Comment
// units replace everything after the first hash on their line. Docstring
// units always collapse the construct to one physical line, deleting the
// span-1 lines the original occupied; the quote style is taken from the
// anchor line.
func (p *Python) Reconstruct(original string, units []unit.TranslatableUnit, _ string) (string, error) {
	lines := splitLines(original)
	replacements := make(map[int]string, len(units))
	skip := make(map[int]struct{})

	for _, u := range units {
		idx := u.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		line := lines[idx]

		switch u.Type {
		case unit.TypeComment:
			pos := strings.IndexByte(line, '#')
			if pos < 0 {
				continue
			}
			replacements[u.Line] = line[:pos] + "# " + u.Content
		case unit.TypeDocstring:
			quote := `"""`
			if !strings.Contains(line, quote) {
				quote = "'''"
			}
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			replacements[u.Line] = indent + quote + u.Content + quote
			for off := 1; off < u.Span(); off++ {
				skip[u.Line+off] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		lineNum := i + 1
		if _, ok := skip[lineNum]; ok {
			continue
		}
		if repl, ok := replacements[lineNum]; ok {
			out = append(out, repl)
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), nil
}
