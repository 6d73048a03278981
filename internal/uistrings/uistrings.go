// Package uistrings serves the static site-chrome string table. It is a
// separate data path from the content store: labels and button text only,
// resolved from embedded message files.
package uistrings

import (
	"embed"
	"fmt"

	"github.com/BurntSushi/toml"
	apilanguage "github.com/mondostudio/mondo/backend/internal/language"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// keys enumerates every chrome string the site renders.
var keys = []string{
	"title",
	"dark",
	"light",
	"inicio",
	"web-pages",
	"web-apps",
	"web-widgets",
	"plugins",
	"tagline",
	"copyright",
}

// Catalog resolves chrome strings per language with fallback to the site
// default.
type Catalog struct {
	bundle *i18n.Bundle
}

// NewCatalog loads the embedded message files for every site language.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.Make(apilanguage.Default.String()))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, code := range apilanguage.Site() {
		path := fmt.Sprintf("locales/strings.%s.toml", code)
		if _, err := bundle.LoadMessageFileFS(localesFS, path); err != nil {
			return nil, fmt.Errorf("uistrings: loading %s: %w", path, err)
		}
	}
	return &Catalog{bundle: bundle}, nil
}

// Table returns the full key-to-string map for the requested language.
// Unknown languages and missing keys fall back to the default language.
func (c *Catalog) Table(code apilanguage.Code) map[string]string {
	requested := code.String()
	if code.IsZero() {
		requested = apilanguage.Default.String()
	}
	localizer := i18n.NewLocalizer(c.bundle, requested, apilanguage.Default.String())

	table := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
		if err != nil {
			continue
		}
		table[key] = value
	}
	return table
}
