package unit

// UnitType classifies a translatable fragment and drives how it is
// reinserted during reconstruction.
type UnitType string

const (
	TypeComment       UnitType = "comment"
	TypeDocstring     UnitType = "docstring"
	TypeStringLiteral UnitType = "string_literal"
	TypeTextNode      UnitType = "text_node"
	TypeMetadata      UnitType = "metadata"
)

// Priority orders units for optional filtering. Lower values sort first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
	PriorityIgnore
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityIgnore:
		return "ignore"
	}
	return "unknown"
}

// ParsePriority maps a priority name to its value. Unknown names fall back
// to PriorityMedium.
func ParsePriority(s string) Priority {
	switch s {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	case "ignore":
		return PriorityIgnore
	}
	return PriorityMedium
}

// TranslatableUnit is one extracted natural-language fragment plus its
// location in the original file.
type TranslatableUnit struct {
	// Content is the fragment text, trimmed of comment/quote delimiters.
	Content string
	Type    UnitType
	// Line and Column are 1-based. For multi-line constructs Line is the
	// start line of the construct.
	Line   int
	Column int
	// Context is a human-readable provenance note, never used for
	// reconstruction.
	Context  string
	Priority Priority
	// Metadata carries format-specific extras. Multi-line Python docstrings
	// store "span" and "end_line" here; both are required for a correct
	// collapse during reconstruction.
	Metadata map[string]any
	// DetectedLanguage is an advisory ISO-ish code set by langdetect.
	DetectedLanguage string
}

// New creates a unit with the default Medium priority.
func New(content string, t UnitType, line, column int) TranslatableUnit {
	return TranslatableUnit{
		Content:  content,
		Type:     t,
		Line:     line,
		Column:   column,
		Priority: PriorityMedium,
	}
}

// Span returns the number of physical lines the unit's construct occupied
// in the original file. Units without span metadata occupy one line.
func (u TranslatableUnit) Span() int {
	if u.Metadata == nil {
		return 1
	}
	switch v := u.Metadata["span"].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return 1
}

// EndLine returns the last physical line of the construct.
func (u TranslatableUnit) EndLine() int {
	return u.Line + u.Span() - 1
}

// Clone returns a deep copy so a translated unit never aliases the
// extraction output.
func (u TranslatableUnit) Clone() TranslatableUnit {
	c := u
	if u.Metadata != nil {
		c.Metadata = make(map[string]any, len(u.Metadata))
		for k, v := range u.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// WithContent returns a clone carrying new content; everything else,
// position and metadata included, is preserved.
func (u TranslatableUnit) WithContent(content string) TranslatableUnit {
	c := u.Clone()
	c.Content = content
	return c
}

// ParseResult is the output of one extraction pass over a single file.
// Units keep first-seen order, which is not necessarily line order for
// formats that batch by cell or block.
type ParseResult struct {
	Units     []TranslatableUnit
	FileType  string
	Encoding  string
	LineCount int
	Metadata  map[string]any
}

// NewParseResult creates an empty result for the given file type.
func NewParseResult(fileType string, lineCount int) *ParseResult {
	return &ParseResult{
		FileType:  fileType,
		Encoding:  "utf-8",
		LineCount: lineCount,
	}
}

func (r *ParseResult) Add(u TranslatableUnit) {
	r.Units = append(r.Units, u)
}

func (r *ParseResult) Len() int {
	return len(r.Units)
}

func (r *ParseResult) IsEmpty() bool {
	return len(r.Units) == 0
}

// Clone deep-copies the result, units and metadata included. The cache
// hands out clones so callers can mutate freely.
func (r *ParseResult) Clone() *ParseResult {
	if r == nil {
		return nil
	}
	c := &ParseResult{
		FileType:  r.FileType,
		Encoding:  r.Encoding,
		LineCount: r.LineCount,
	}
	if r.Units != nil {
		c.Units = make([]TranslatableUnit, len(r.Units))
		for i, u := range r.Units {
			c.Units[i] = u.Clone()
		}
	}
	if r.Metadata != nil {
		c.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}
