// Package source loads the timestamps the application watches. It understands
// two feed formats: iCalendar event files (one entry per VEVENT start) and
// vCard contact files (one entry per BDAY, projected onto its next yearly
// occurrence).
package source

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"

	reltime "github.com/tartampluch/go-reltime"
	"github.com/tartampluch/go-reltime/internal/config"
)

// Entry is a single watchable moment extracted from a feed.
type Entry struct {
	UID  string    // Stable identifier across reloads.
	Name string    // Human-readable label (event summary or contact name).
	When time.Time // The moment to watch.

	// Recurring marks entries that repeat yearly (birthdays). When is then
	// the next occurrence relative to load time.
	Recurring bool
}

// Loader fetches and parses watch sources.
type Loader struct {
	Clock   reltime.Clock // Interface for time mocking.
	Fetcher FeedFetcher   // Interface for network abstraction.
}

// Load reads the feed at location (a local path or an http(s) URL), parses it
// according to its file extension and returns the entries sorted soonest
// first. Malformed records are skipped with a log line rather than failing
// the whole load.
func (l *Loader) Load(ctx context.Context, location, user, pass string) ([]Entry, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompSource,
		config.LogKeySource, location,
	)

	reader, ext, err := l.acquireStream(ctx, location, user, pass)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	// Best effort close. Errors in Close() for read-only streams are rarely actionable here.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := l.Clock.Now()

	var entries []Entry
	switch ext {
	case config.ExtICS:
		entries, err = ParseICS(ctx, reader)
	case config.ExtVCF, config.ExtVCard:
		entries, err = ParseVCards(ctx, reader, now)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrSourceUnsupport, ext)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].When.Before(entries[j].When)
	})

	log.Info(config.MsgSourceLoaded,
		config.LogKeyEntries, len(entries),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return entries, nil
}

// acquireStream opens the feed and reports its file extension (lowercased).
func (l *Loader) acquireStream(ctx context.Context, location, user, pass string) (io.ReadCloser, string, error) {
	if location == "" {
		return nil, "", errors.New(config.ErrSourceEmpty)
	}

	if u, err := url.Parse(location); err == nil &&
		(u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		if l.Fetcher == nil {
			return nil, "", errors.New(config.ErrFetcherMissing)
		}
		r, err := l.Fetcher.Fetch(ctx, location, user, pass)
		return r, strings.ToLower(path.Ext(u.Path)), err
	}

	r, err := os.Open(location)
	return r, strings.ToLower(path.Ext(location)), err
}

// ParseICS extracts one entry per VEVENT with a usable start date.
func ParseICS(ctx context.Context, r io.Reader) ([]Entry, error) {
	decoder := ical.NewDecoder(r)
	var entries []Entry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalParse, err)
		}

		for _, event := range cal.Events() {
			start, err := event.DateTimeStart(time.Local)
			if err != nil || start.IsZero() {
				slog.Debug(config.MsgSkippedEvent,
					config.LogKeyComponent, config.CompSource,
					config.LogKeyError, err)
				continue
			}

			name := config.FallbackName
			if summary, err := event.Props.Text(ical.PropSummary); err == nil && summary != "" {
				name = summary
			}

			uid := makeUID(name, start)
			if prop := event.Props.Get(ical.PropUID); prop != nil && prop.Value != "" {
				uid = prop.Value
			}

			entries = append(entries, Entry{UID: uid, Name: name, When: start})
		}
	}
	return entries, nil
}

// ParseVCards extracts one entry per contact carrying a parseable BDAY,
// projected onto the next occurrence of that calendar date relative to now.
func ParseVCards(ctx context.Context, r io.Reader, now time.Time) ([]Entry, error) {
	decoder := vcard.NewDecoder(r)
	var entries []Entry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log and continue to the next card to maximize data recovery.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyError, err)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, err := parseBirthDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompSource,
				config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		entries = append(entries, Entry{
			UID:       makeUID(name, birthDate),
			Name:      name,
			When:      nextOccurrence(now, birthDate),
			Recurring: true,
		})
	}
	return entries, nil
}

// makeUID derives a deterministic identifier so entries stay stable across
// reloads of the same feed.
func makeUID(name string, when time.Time) string {
	input := fmt.Sprintf(config.FormatHashInput, name, when.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// nextOccurrence maps a birth date onto its next yearly occurrence at local
// midnight, relative to 'now'. A birthday falling today counts as today.
func nextOccurrence(now, birthDate time.Time) time.Time {
	loc := now.Location()

	// Go's time.Date normalizes Feb 29 to March 1st in non-leap years.
	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}
	return candidate
}

// parseBirthDate handles the vCard BDAY formats, including year-less
// truncated dates which are anchored to a safe leap year.
func parseBirthDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, errors.New(config.ErrDateParse)
}
