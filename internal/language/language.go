// Package language normalizes the free-form language codes accepted at the
// API boundary into canonical BCP-47 base codes.
package language

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidCode indicates that a raw language value could not be parsed.
var ErrInvalidCode = errors.New("language: invalid language code")

// Code is a normalized BCP-47 base language code, or empty for the
// original-language passthrough.
type Code string

// Site languages served by the translation tables.
const (
	Spanish    Code = "es"
	English    Code = "en"
	Portuguese Code = "pt"
	French     Code = "fr"
	Japanese   Code = "ja"
)

// Default is the site's base language.
const Default = Spanish

// Legacy three-letter variants that existed in historical data and older
// clients. They normalize to the canonical two-letter codes.
var legacyAliases = map[string]Code{
	"spa": Spanish,
	"eng": English,
	"jap": Japanese,
	"jp":  Japanese,
	"por": Portuguese,
	"fre": French,
}

// Site enumerates the languages the UI ships translations for.
func Site() []Code {
	return []Code{Spanish, English, Portuguese, French, Japanese}
}

// Normalize maps raw input to a canonical Code. Empty input yields the empty
// Code, which callers treat as "serve the original language". Unknown but
// well-formed tags are accepted and reduced to their base subtag; garbage is
// rejected.
func Normalize(raw string) (Code, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", nil
	}
	if canonical, ok := legacyAliases[trimmed]; ok {
		return canonical, nil
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, raw)
	}
	base, _ := tag.Base()
	return Code(base.String()), nil
}

// String returns the underlying code value.
func (c Code) String() string {
	return string(c)
}

// IsZero reports whether the code requests the original language.
func (c Code) IsZero() bool {
	return c == ""
}
