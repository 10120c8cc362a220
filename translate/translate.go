// Package translate localises the user-facing strings of sim8085.
package translate

import (
	"log"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer atomic.Pointer[message.Printer]

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("sim8085: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer.Store(message.NewPrinter(message.MatchLanguage(locales...)))
}

// SetLanguage selects the message language by BCP 47 tag, overriding the
// system locale.
func SetLanguage(lang string) (err error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return
	}

	printer.Store(message.NewPrinter(tag))

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}
