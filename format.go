package reltime

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Message IDs shared between the formatter and the embedded locale files.
const (
	msgNow            = "now"
	msgYesterday      = "yesterday"
	msgTomorrow       = "tomorrow"
	msgAbsoluteLayout = "format_absolute"

	dirPast     = "past"
	dirFuture   = "future"
	shortSuffix = "_short"

	// fallbackAbsoluteLayout is used when a locale ships no layout of its own.
	fallbackAbsoluteLayout = "2006-01-02 15:04"
)

// Formatter turns timestamps into localized relative-time phrases. It owns
// the translation bundle and the clock; both are shared by every Watcher it
// creates. A Formatter is safe for concurrent use.
type Formatter struct {
	// Clock supplies "now". Nil means RealClock.
	Clock Clock

	bundle *i18n.Bundle

	mu         sync.Mutex
	localizers map[string]*i18n.Localizer
}

// NewFormatter builds a Formatter backed by the embedded locale bundle.
// A nil clock selects the real one.
func NewFormatter(clock Clock) *Formatter {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error("failed to access embedded locales", "error", err)
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			slog.Error("failed to load locale file", "file", entry.Name(), "error", err)
		}
	}

	return &Formatter{
		Clock:      clock,
		bundle:     bundle,
		localizers: make(map[string]*i18n.Localizer),
	}
}

var defaultFormatter = sync.OnceValue(func() *Formatter {
	return NewFormatter(RealClock{})
})

// Default returns the shared real-clock Formatter used by the package-level
// convenience functions.
func Default() *Formatter {
	return defaultFormatter()
}

// Format renders input relative to now using the default Formatter.
func Format(input any, opts *Options) (string, error) {
	return Default().Format(input, opts)
}

func (f *Formatter) clock() Clock {
	if f.Clock != nil {
		return f.Clock
	}
	return RealClock{}
}

// Calculate normalizes input and buckets its distance from this Formatter's
// current time.
func (f *Formatter) Calculate(input any) (Parts, error) {
	return CalculateAt(input, f.clock().Now())
}

// Format renders the relative phrase for input, or the absolute date once
// the configured threshold is exceeded. A nil opts means defaults.
// Unresolvable inputs return ErrUnparseable, never a panic.
func (f *Formatter) Format(input any, opts *Options) (string, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	target, err := Normalize(input)
	if err != nil {
		return "", err
	}
	return f.render(target, f.clock().Now(), o.withDefaults()), nil
}

// render produces the display string for an already-normalized target.
// Watchers call this directly so a single wake-up normalizes only once.
func (f *Formatter) render(target, now time.Time, o Options) string {
	offset := offsetSeconds(target, now)
	if o.Threshold > 0 && math.Abs(offset) > o.Threshold {
		return f.absolute(target, o)
	}
	return f.phrase(bucket(offset), o)
}

// absolute formats the target with a locale-provided layout unless the caller
// supplied one.
func (f *Formatter) absolute(target time.Time, o Options) string {
	layout := o.AbsoluteLayout
	if layout == "" {
		layout = f.message(o.Locale, msgAbsoluteLayout, fallbackAbsoluteLayout)
	}
	return target.Format(layout)
}

// phrase localizes a bucketed offset. Grammar, pluralization and idioms are
// fully delegated to the locale bundle; this function only chooses the
// message ID and the plural count.
func (f *Formatter) phrase(p Parts, o Options) string {
	if o.Numeric == NumericAuto {
		switch {
		case p.Magnitude == 0:
			return f.message(o.Locale, msgNow, "now")
		case p.Unit == UnitDay && p.Magnitude == -1:
			return f.message(o.Locale, msgYesterday, "yesterday")
		case p.Unit == UnitDay && p.Magnitude == 1:
			return f.message(o.Locale, msgTomorrow, "tomorrow")
		}
	}

	dir := dirFuture
	count := p.Magnitude
	if count < 0 {
		dir = dirPast
		count = -count
	}

	key := dir + "_" + string(p.Unit)
	if o.Style != StyleLong {
		// The narrow set is folded into the short one.
		key += shortSuffix
	}

	msg, err := f.localizer(o.Locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
	if err == nil && msg != "" {
		return msg
	}
	slog.Debug("missing relative-time translation", "key", key, "locale", o.Locale)
	return builtinPhrase(dir, p.Unit, count)
}

// message resolves a plain (non-plural) message with a hard fallback.
func (f *Formatter) message(locale, id, fallback string) string {
	msg, err := f.localizer(locale).Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

// localizer returns a cached localizer for the tag. go-i18n resolves unknown
// tags to the bundle's default language, which is the failure behavior the
// contract asks for.
func (f *Formatter) localizer(locale string) *i18n.Localizer {
	if locale == "" {
		locale = DefaultLocale
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.localizers[locale]
	if !ok {
		loc = i18n.NewLocalizer(f.bundle, locale)
		f.localizers[locale] = loc
	}
	return loc
}

// builtinPhrase is the last-resort English rendering when the bundle cannot
// serve a message at all.
func builtinPhrase(dir string, unit Unit, count int) string {
	name := string(unit)
	if count != 1 {
		name += "s"
	}
	if dir == dirPast {
		return fmt.Sprintf("%d %s ago", count, name)
	}
	return fmt.Sprintf("in %d %s", count, name)
}
