// Package messages resolves user-facing strings for the console.
package messages

import (
	"embed"
	"fmt"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs.
const (
	FieldRequired = "FieldRequired"
	EmailInvalid  = "EmailInvalid"
	EmployeeSaved = "EmployeeSaved"
)

//go:embed locales/*.toml
var localeFS embed.FS

// DefaultLanguage is used when no requested language has a translation.
var DefaultLanguage = language.BrazilianPortuguese

// Catalog localizes message IDs for one set of preferred languages.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// New loads the embedded translations and localizes for langs in preference order.
func New(langs ...string) (*Catalog, error) {
	bundle := i18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", entry.Name())); err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}

	return &Catalog{bundle: bundle, localizer: i18n.NewLocalizer(bundle, langs...)}, nil
}

// MustNew is New for the embedded catalog, which always parses.
func MustNew(langs ...string) *Catalog {
	c, err := New(langs...)
	if err != nil {
		panic(err)
	}
	return c
}

// For returns a catalog sharing the loaded bundle with different language preferences.
func (c *Catalog) For(langs ...string) *Catalog {
	return &Catalog{bundle: c.bundle, localizer: i18n.NewLocalizer(c.bundle, langs...)}
}

// Text returns the localized message, or the ID when nothing matches.
func (c *Catalog) Text(id string) string {
	if c == nil {
		return id
	}
	// Localize may return a fallback-language message together with an error.
	msg, _ := c.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if msg == "" {
		return id
	}
	return msg
}
