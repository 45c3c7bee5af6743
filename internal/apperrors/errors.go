package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	// KindUnsupportedLanguage means a language code failed validation
	// against a backend's supported set after normalization.
	KindUnsupportedLanguage Kind = "unsupported_language"
	// KindInvalidInput covers empty or whitespace-only text.
	KindInvalidInput Kind = "invalid_input"
	// KindTranslationFailed covers upstream API and response-shape errors.
	KindTranslationFailed Kind = "translation_failed"
	// KindNetwork covers transport-level failures (DNS, socket, timeout).
	KindNetwork Kind = "network"
	// KindRateLimit is reserved for explicit upstream throttling.
	KindRateLimit Kind = "rate_limit"
	// KindParse covers document-parse failures on the extraction side,
	// e.g. malformed notebook JSON.
	KindParse Kind = "parse"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
	// Translator names the backend that produced a translation failure.
	Translator string
	// Code is an upstream error code (HTTP status, "PARSE_ERROR", ...).
	Code string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.SafeMessage)
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" {
		msg = defaultSafeMessage(e.Kind)
	}
	if e.Translator != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Translator)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindUnsupportedLanguage:
		return "Language is not supported."
	case KindInvalidInput:
		return "Input text is empty."
	case KindTranslationFailed:
		return "Translation failed."
	case KindNetwork:
		return "Network error. Please try again."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again later."
	case KindParse:
		return "Failed to parse document."
	}
	return "Request failed."
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

// UnsupportedLanguage reports a language code rejected by validation.
func UnsupportedLanguage(code string) error {
	return &Error{
		Kind:        KindUnsupportedLanguage,
		SafeMessage: fmt.Sprintf("language %q is not supported", code),
	}
}

// InvalidInput reports empty or otherwise unusable input text.
func InvalidInput(msg string) error {
	return New(KindInvalidInput, msg, nil)
}

// TranslationFailed reports an upstream translation error, recording which
// backend produced it and an optional upstream error code.
func TranslationFailed(translator, code, msg string, cause error) error {
	m := strings.TrimSpace(msg)
	if m == "" {
		m = defaultSafeMessage(KindTranslationFailed)
	}
	return &Error{
		Kind:        KindTranslationFailed,
		SafeMessage: m,
		Cause:       cause,
		Translator:  translator,
		Code:        code,
	}
}

func Network(err error) error {
	return New(KindNetwork, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Parse(err error) error {
	return New(KindParse, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// PublicMessage returns a message safe for user-facing output.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// TranslatorName returns the backend recorded on a translation failure.
func TranslatorName(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Translator
}

// IsRetryable reports whether a retry may succeed: transport errors,
// throttling, and upstream translation failures qualify; validation and
// input errors never do.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindNetwork || e.Kind == KindRateLimit || e.Kind == KindTranslationFailed
}

func IsRateLimit(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindRateLimit
}
