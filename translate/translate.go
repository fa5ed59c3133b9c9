// Package translate renders rv32 diagnostics in the user's language.
//
// Message keys are the en-US format strings themselves; when no catalog
// entry matches, the key is formatted as-is.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// fallback is used when the host reports no locale.
const fallback = "en-US"

var printer = message.NewPrinter(message.MatchLanguage(languages()...))

// languages returns the host's preferred locales, best first.
func languages() []string {
	tags, err := locale.GetLocales()
	if err != nil {
		log.Printf("rv32: locale: %v", err)
	}
	if len(tags) == 0 {
		tags = []string{fallback}
	}
	return tags
}

// From formats a diagnostic. key is an fmt-style format string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
