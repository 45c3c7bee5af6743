package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// MinConfidence is the classifier confidence below which no tag is
// returned. Guessing wrong is worse than not tagging.
const MinConfidence = 0.70

// codeFor maps classifier output onto the small fixed set of codes the
// rest of the system understands. Languages outside this set are not
// tagged.
var codeFor = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Cmn: "zh-CN",
	whatlanggo.Jpn: "ja",
	whatlanggo.Kor: "ko",
	whatlanggo.Fra: "fr",
	whatlanggo.Deu: "de",
	whatlanggo.Spa: "es",
	whatlanggo.Por: "pt",
	whatlanggo.Rus: "ru",
	whatlanggo.Ita: "it",
	whatlanggo.Nld: "nl",
	whatlanggo.Pol: "pl",
	whatlanggo.Swe: "sv",
	whatlanggo.Tha: "th",
	whatlanggo.Vie: "vi",
	whatlanggo.Hin: "hi",
	whatlanggo.Ind: "id",
	whatlanggo.Arb: "ar",
	whatlanggo.Heb: "he",
	whatlanggo.Tur: "tr",
	whatlanggo.Ell: "el",
	whatlanggo.Pes: "fa",
}

// Detect identifies the natural language of text and returns an ISO-ish
// code. It returns ok=false when the text is too short to carry signal,
// when the classifier is not confident enough, or when the detected
// language is outside the supported set. The tag is advisory metadata
// only; it never gates extraction.
func Detect(text string) (string, bool) {
	if len(strings.TrimSpace(text)) < 3 {
		return "", false
	}

	info := whatlanggo.Detect(text)
	code, ok := codeFor[info.Lang]
	if !ok {
		return "", false
	}
	if info.Confidence <= MinConfidence {
		return "", false
	}
	return code, true
}

// Tagged returns the detected code or the empty string, for callers that
// stash the result directly on a unit.
func Tagged(text string) string {
	code, ok := Detect(text)
	if !ok {
		return ""
	}
	return code
}
