package reltime

// Style selects how verbose the localized phrase is.
type Style string

const (
	// StyleLong spells units out: "5 minutes ago".
	StyleLong Style = "long"
	// StyleShort abbreviates units: "5 min. ago".
	StyleShort Style = "short"
	// StyleNarrow is the most compact form. Locales that do not ship a
	// dedicated narrow set fall back to the short one.
	StyleNarrow Style = "narrow"
)

// Numeric controls whether idiomatic substitutions may replace numbers.
type Numeric string

const (
	// NumericAlways keeps the number: "in 0 seconds", "1 day ago".
	NumericAlways Numeric = "always"
	// NumericAuto permits idioms such as "now", "yesterday" and "tomorrow".
	NumericAuto Numeric = "auto"
)

// DefaultLocale is used whenever Options.Locale is empty.
const DefaultLocale = "en"

// Options configures a single Format or Watch call. The zero value is valid
// and means: English, long style, auto numeric, no absolute-date fallback.
type Options struct {
	// Locale is a BCP 47 tag such as "en" or "fr". Unknown tags fall back
	// to the bundle's default language rather than failing.
	Locale string

	// Style selects the long, short or narrow message set.
	Style Style

	// Numeric selects always-numeric or idiomatic phrasing.
	Numeric Numeric

	// Threshold, in seconds, replaces the relative phrase with an absolute
	// date once the offset magnitude exceeds it. Zero disables the
	// fallback entirely.
	Threshold float64

	// AbsoluteLayout is the Go time layout used for the absolute-date
	// fallback. Empty selects a localized default from the locale bundle.
	AbsoluteLayout string
}

// withDefaults fills unset fields. Options are read per call, never stored.
func (o Options) withDefaults() Options {
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
	if o.Style == "" {
		o.Style = StyleLong
	}
	if o.Numeric == "" {
		o.Numeric = NumericAuto
	}
	return o
}
