package common

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hzPrinter     *message.Printer
	hzPrinterOnce sync.Once
)

func localPrinter() *message.Printer {
	hzPrinterOnce.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil {
			log.Printf("swogen: locale: %v", err)
		}
		if len(locales) == 0 {
			locales = []string{"en-US"}
		}
		hzPrinter = message.NewPrinter(message.MatchLanguage(locales...))
	})
	return hzPrinter
}

// FormatHz renders a frequency with the digit grouping of the user's locale.
// Used for log lines only; generated artifacts always carry plain integers.
func FormatHz(hz int64) string {
	return FormatHzIn(localPrinter(), hz)
}

// FormatHzIn renders hz with the given printer.
func FormatHzIn(p *message.Printer, hz int64) string {
	return p.Sprintf("%d Hz", hz)
}

// NewPrinter returns a printer for a fixed language, mainly for tests.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
