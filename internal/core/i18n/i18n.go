// Package i18n provides translated, parameterized user-facing strings.
//
// The catalog is intentionally small: the review core only needs the
// validation messages. Locale selection comes from DECKHAND_LANG and
// falls back to English for unknown locales and unknown keys.
package i18n

import (
	"fmt"
	"os"
	"strings"
)

var catalogs = map[string]map[string]string{
	"en": {
		"error.required":   "This field is required",
		"error.max_length": "Must be at most {max} characters",
	},
}

// locale is resolved once at startup. Tests may override via SetLocale.
var locale = resolveLocale()

func resolveLocale() string {
	lang := os.Getenv("DECKHAND_LANG")
	if lang == "" {
		return "en"
	}
	// Accept forms like "en_US.UTF-8"
	if i := strings.IndexAny(lang, "_."); i > 0 {
		lang = lang[:i]
	}
	if _, ok := catalogs[lang]; !ok {
		return "en"
	}
	return lang
}

// SetLocale overrides the active locale. Unknown locales fall back to "en".
func SetLocale(lang string) {
	if _, ok := catalogs[lang]; !ok {
		lang = "en"
	}
	locale = lang
}

// T looks up key in the active catalog and expands {name} placeholders
// from params. Missing keys return the key itself so broken lookups are
// visible instead of silent.
func T(key string, params map[string]any) string {
	msg, ok := catalogs[locale][key]
	if !ok {
		msg, ok = catalogs["en"][key]
	}
	if !ok {
		return key
	}

	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return msg
}
