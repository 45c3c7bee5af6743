// Package extractor turns source files into ordered sequences of
// translatable units and reinserts translated content without touching
// any byte outside the replaced spans.
package extractor

import (
	"fmt"
	"strings"

	"github.com/oukeidos/codeglot/internal/apperrors"
	"github.com/oukeidos/codeglot/internal/unit"
)

// Extractor is the capability set every format implementation satisfies.
// ExtractUnits and Reconstruct are pure functions of their inputs; no
// file I/O happens behind this interface, the path is used only for
// extension sniffing and provenance metadata.
type Extractor interface {
	Name() string
	SupportedExtensions() []string
	// CanParse reports whether this extractor handles the file. Content
	// may be empty; only content-sniffing extractors look at it.
	CanParse(path, content string) bool
	ExtractUnits(content, path string) (*unit.ParseResult, error)
	Reconstruct(original string, units []unit.TranslatableUnit, path string) (string, error)
}

// Registry selects an extractor for a file. Order matters: content-aware
// formats are probed before extension-only ones so a Python script with
// an odd extension is not swallowed by the generic fallback.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds the default registry with the three built-in
// extractors in probe order.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			NewPython(),
			NewNotebook(),
			NewGeneric(),
		},
	}
}

// ForFile returns the first extractor that accepts path/content, or an
// invalid-input error when none does.
func (r *Registry) ForFile(path, content string) (Extractor, error) {
	for _, ex := range r.extractors {
		if ex.CanParse(path, content) {
			return ex, nil
		}
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("no extractor supports %q", path))
}

// Extractors returns the probe-ordered extractor list.
func (r *Registry) Extractors() []Extractor {
	return r.extractors
}

// SupportedExtensions returns the union of all registered extensions.
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, ex := range r.extractors {
		for _, e := range ex.SupportedExtensions() {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// splitLines splits content on newlines keeping every element, including
// a trailing empty one for newline-terminated files. Reconstruction
// joins the same slice back so bytes outside replaced lines survive
// exactly.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// countLines counts physical lines the way an editor would: a trailing
// newline does not start a new line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// fileExtension returns the lowercased extension including the dot, or
// ".unknown" when the path has none.
func fileExtension(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return ".unknown"
	}
	return strings.ToLower(path[idx:])
}

func hasAnySuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
