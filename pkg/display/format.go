// Package display formats animated counter values for a rendering surface.
package display

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders counter values with locale-appropriate digit grouping.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a formatter grouping digits per the given locale.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// DefaultFormatter formats with English digit grouping. Go has no ambient
// host locale; an explicit tag keeps output deterministic.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.English)
}

// Number renders v with the locale's grouping separators for the integer
// part.
func (f *Formatter) Number(v int64) string {
	return f.printer.Sprint(number.Decimal(v))
}

// Percent renders v with a "%" suffix. Percentages are bounded, so no
// grouping is applied.
func (f *Formatter) Percent(v int64) string {
	return strconv.FormatInt(v, 10) + "%"
}
