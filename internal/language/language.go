package language

import (
	"sort"
	"strings"
)

// Language represents a supported target language.
type Language struct {
	Code string
	Name string
}

// Languages is a map of supported languages code -> Language. The keys
// are the canonical codes the translator backends accept.
var Languages = map[string]Language{
	"en":    {Code: "en", Name: "English"},
	"zh-CN": {Code: "zh-CN", Name: "Chinese (Simplified)"},
	"zh-TW": {Code: "zh-TW", Name: "Chinese (Traditional)"},
	"ja":    {Code: "ja", Name: "Japanese"},
	"ko":    {Code: "ko", Name: "Korean"},
	"fr":    {Code: "fr", Name: "French"},
	"de":    {Code: "de", Name: "German"},
	"es":    {Code: "es", Name: "Spanish"},
	"pt":    {Code: "pt", Name: "Portuguese"},
	"ru":    {Code: "ru", Name: "Russian"},
	"it":    {Code: "it", Name: "Italian"},
	"nl":    {Code: "nl", Name: "Dutch"},
	"pl":    {Code: "pl", Name: "Polish"},
	"sv":    {Code: "sv", Name: "Swedish"},
	"th":    {Code: "th", Name: "Thai"},
	"vi":    {Code: "vi", Name: "Vietnamese"},
	"hi":    {Code: "hi", Name: "Hindi"},
	"id":    {Code: "id", Name: "Indonesian"},
	"ar":    {Code: "ar", Name: "Arabic"},
	"he":    {Code: "he", Name: "Hebrew"},
	"tr":    {Code: "tr", Name: "Turkish"},
	"el":    {Code: "el", Name: "Greek"},
	"fa":    {Code: "fa", Name: "Persian"},
}

// aliases maps common spellings onto canonical codes. Lookup keys are
// lowercase.
var aliases = map[string]string{
	"zh":      "zh-CN",
	"zh-hans": "zh-CN",
	"zh-hant": "zh-TW",
	"iw":      "he",
	"in":      "id",
	"jp":      "ja",
}

// Normalize lowercases code and resolves aliases to the canonical form.
// Unknown codes come back unchanged, lowercased, so callers can still
// report the value the user typed.
func Normalize(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if canon, ok := aliases[c]; ok {
		return canon
	}
	for k := range Languages {
		if strings.ToLower(k) == c {
			return k
		}
	}
	return c
}

// GetLanguage returns the language for code after normalization.
func GetLanguage(code string) (Language, bool) {
	lang, ok := Languages[Normalize(code)]
	return lang, ok
}

// IsSupported reports whether code resolves to a supported language.
func IsSupported(code string) bool {
	_, ok := GetLanguage(code)
	return ok
}

// LanguageEntry represents a map entry for listing.
type LanguageEntry struct {
	ID string // The map key (CLI flag)
	Language
}

// GetSupportedLanguages returns a list of supported languages sorted by
// Name and then ID.
func GetSupportedLanguages() []LanguageEntry {
	entries := make([]LanguageEntry, 0, len(Languages))
	for k, v := range Languages {
		entries = append(entries, LanguageEntry{ID: k, Language: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// Codes returns the sorted canonical code list.
func Codes() []string {
	codes := make([]string, 0, len(Languages))
	for k := range Languages {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}
