package extractor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/oukeidos/codeglot/internal/langdetect"
	"github.com/oukeidos/codeglot/internal/unit"
)

// commentStyle describes the delimiters of one language family.
type commentStyle struct {
	singleLine []string
	blockStart string
	blockEnd   string
}

func (s commentStyle) hasBlock() bool { return s.blockStart != "" }

var (
	cStyle    = commentStyle{singleLine: []string{"//"}, blockStart: "/*", blockEnd: "*/"}
	hashStyle = commentStyle{singleLine: []string{"#"}}
	dashStyle = commentStyle{singleLine: []string{"--"}, blockStart: "/*", blockEnd: "*/"}
)

// styleByExtension keys delimiter families by extension. Unknown
// extensions fall back to C-style.
var styleByExtension = map[string]commentStyle{
	".js": cStyle, ".ts": cStyle, ".jsx": cStyle, ".tsx": cStyle,
	".java": cStyle, ".c": cStyle, ".cpp": cStyle, ".h": cStyle, ".hpp": cStyle,
	".cs": cStyle, ".go": cStyle, ".rs": cStyle, ".swift": cStyle,
	".kt": cStyle, ".scala": cStyle, ".php": cStyle, ".dart": cStyle,
	".r": hashStyle, ".sh": hashStyle, ".bash": hashStyle, ".rb": hashStyle,
	".py": hashStyle,
	".lua": dashStyle, ".sql": dashStyle,
}

// technicalMarkers flag short comments that are tooling directives, not
// prose. Longer comments mentioning them still pass.
var technicalMarkers = []string{
	"TODO", "FIXME", "NOTE", "HACK", "XXX", "BUG",
	"DEPRECATED", "WARNING", "ERROR",
}

// Generic extracts line and block comments from C-like and script-like
// source files using per-extension delimiter tables.
type Generic struct{}

func NewGeneric() *Generic {
	return &Generic{}
}

func (g *Generic) Name() string { return "generic_code" }

func (g *Generic) SupportedExtensions() []string {
	return []string{
		".js", ".ts", ".jsx", ".tsx",
		".go", ".rs", ".java",
		".c", ".cpp", ".h", ".hpp", ".cs",
		".php", ".rb",
		".sh", ".bash",
		".sql", ".r", ".R",
		".m", ".scala", ".kt", ".swift", ".dart",
		".lua", ".vim",
	}
}

func (g *Generic) CanParse(path, _ string) bool {
	return hasAnySuffix(path, g.SupportedExtensions())
}

func styleFor(path string) commentStyle {
	if style, ok := styleByExtension[fileExtension(path)]; ok {
		return style
	}
	return cStyle
}

// isTranslatable filters out fragments that are not worth sending to a
// translator: too short, URLs, mostly symbols, or bare tooling markers.
func (g *Generic) isTranslatable(text string) bool {
	text = strings.TrimSpace(text)
	length := uniseg.GraphemeClusterCount(text)
	if length < 3 {
		return false
	}
	if strings.Contains(text, "://") {
		return false
	}

	total := 0
	alpha := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha < total/3 {
		return false
	}

	if length < 20 {
		upper := strings.ToUpper(text)
		for _, marker := range technicalMarkers {
			if strings.Contains(upper, marker) {
				return false
			}
		}
	}
	return true
}

// scanState tracks the block-comment scanner: either Normal or inside a
// block opened at startLine with accumulated text so far.
type scanState struct {
	inBlock   bool
	startLine int
	parts     []string
}

func (g *Generic) ExtractUnits(content, path string) (*unit.ParseResult, error) {
	style := styleFor(path)
	lines := splitLines(content)

	result := unit.NewParseResult("generic_code", countLines(content))
	result.Metadata = map[string]any{
		"extractor": g.Name(),
		"file_path": path,
		"extension": fileExtension(path),
	}

	var state scanState
	for i, line := range lines {
		lineNum := i + 1

		if style.hasBlock() {
			switch {
			case !state.inBlock && strings.Contains(line, style.blockStart):
				start := strings.Index(line, style.blockStart)
				after := line[start+len(style.blockStart):]
				if end := strings.Index(after, style.blockEnd); end >= 0 {
					// Block opens and closes on one line.
					text := strings.TrimSpace(after[:end])
					if g.isTranslatable(text) {
						result.Add(g.newComment(text, lineNum, 1,
							fmt.Sprintf("Block comment at line %d", lineNum)))
					}
				} else {
					state = scanState{inBlock: true, startLine: lineNum}
					if t := strings.TrimSpace(after); t != "" {
						state.parts = append(state.parts, t)
					}
				}
			case state.inBlock:
				if end := strings.Index(line, style.blockEnd); end >= 0 {
					if t := strings.TrimSpace(line[:end]); t != "" {
						state.parts = append(state.parts, t)
					}
					text := strings.Join(state.parts, " ")
					if g.isTranslatable(text) {
						result.Add(g.newComment(text, state.startLine, 1,
							fmt.Sprintf("Block comment at lines %d-%d", state.startLine, lineNum)))
					}
					state = scanState{}
				} else if t := strings.TrimSpace(line); t != "" {
					state.parts = append(state.parts, t)
				}
			}
		}

		if state.inBlock {
			continue
		}
		// At most one single-line unit per line, from the first marker.
		for _, marker := range style.singleLine {
			pos := strings.Index(line, marker)
			if pos < 0 {
				continue
			}
			text := strings.TrimSpace(line[pos+len(marker):])
			if g.isTranslatable(text) {
				result.Add(g.newComment(text, lineNum, pos+1,
					fmt.Sprintf("Single-line comment at line %d", lineNum)))
			}
			break
		}
	}
	return result, nil
}

func (g *Generic) newComment(text string, line, column int, context string) unit.TranslatableUnit {
	u := unit.New(text, unit.TypeComment, line, column)
	u.Context = context
	u.DetectedLanguage = langdetect.Tagged(text)
	return u
}

// Reconstruct replaces, for each unit, the remainder of its anchor line
// after the first single-line marker. Replacement works on an explicit
// line array indexed by the unit's position, so repeated line text
// elsewhere in the file is never touched. Block comments spanning
// multiple lines have no single-line marker on their anchor line and are
// left unchanged.
func (g *Generic) Reconstruct(original string, units []unit.TranslatableUnit, path string) (string, error) {
	style := styleFor(path)
	lines := splitLines(original)

	for _, u := range units {
		idx := u.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		line := lines[idx]
		for _, marker := range style.singleLine {
			pos := strings.Index(line, marker)
			if pos < 0 {
				continue
			}
			lines[idx] = line[:pos] + marker + " " + u.Content
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}
