// Package widget provides Fyne widgets built on top of the reltime library.
package widget

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	reltime "github.com/tartampluch/go-reltime"
)

// RelativeTimeLabel displays a localized relative-time phrase for a single
// timestamp and keeps it fresh while shown. The refresh schedule adapts to
// the offset magnitude unless UpdateInterval pins a fixed cadence.
//
// The watcher is armed when the widget is first rendered and released when
// the renderer is destroyed, so hidden or disposed labels never leak timers.
type RelativeTimeLabel struct {
	widget.BaseWidget

	// Timestamp is anything reltime.Normalize accepts. Unresolvable values
	// render Placeholder instead of failing.
	Timestamp any

	// Options configures locale, style, numeric mode and the absolute-date
	// threshold. Nil means defaults.
	Options *reltime.Options

	// UpdateInterval, when positive, overrides the adaptive schedule.
	UpdateInterval time.Duration

	// OnReachedPresent is invoked exactly once when a future timestamp
	// reaches the present, after which updates stop until the timestamp
	// is replaced.
	OnReachedPresent func()

	// Prefix and Suffix decorate the phrase. Both are ignored when
	// RenderText is set.
	Prefix, Suffix string

	// RenderText, when non-nil, receives the formatted phrase and returns
	// the text to display, bypassing the default decoration.
	RenderText func(formatted string) string

	// Placeholder is shown for unparseable timestamps.
	Placeholder string

	// OnChanged is invoked with the displayed text after every refresh,
	// including the initial render.
	OnChanged func(displayed string)

	// Formatter supplies clock and locales. Nil means reltime.Default().
	Formatter *reltime.Formatter

	mu      sync.Mutex
	watcher *reltime.Watcher
	label   *widget.Label
}

// NewRelativeTimeLabel returns a label observing the given timestamp.
func NewRelativeTimeLabel(timestamp any) *RelativeTimeLabel {
	l := &RelativeTimeLabel{Timestamp: timestamp}
	l.ExtendBaseWidget(l)
	return l
}

// SetTimestamp replaces the observed timestamp. The pending wake-up is
// cancelled and a fresh session starts against the new value.
func (l *RelativeTimeLabel) SetTimestamp(timestamp any) {
	l.mu.Lock()
	l.Timestamp = timestamp
	w := l.watcher
	l.mu.Unlock()

	if w != nil {
		w.Update(timestamp, l.Options)
	}
}

// SetOptions replaces the formatting options for the current timestamp.
func (l *RelativeTimeLabel) SetOptions(opts *reltime.Options) {
	l.mu.Lock()
	l.Options = opts
	w := l.watcher
	ts := l.Timestamp
	l.mu.Unlock()

	if w != nil {
		w.Update(ts, opts)
	}
}

// Text returns the string currently displayed, including decoration.
func (l *RelativeTimeLabel) Text() string {
	l.mu.Lock()
	w := l.watcher
	l.mu.Unlock()

	if w == nil {
		// Not rendered yet: compute a one-shot value.
		text, err := l.formatter().Format(l.Timestamp, l.Options)
		return l.displayText(text, err == nil)
	}
	text, ok := w.Current()
	return l.displayText(text, ok)
}

// CreateRenderer arms the observation session and builds the backing label.
func (l *RelativeTimeLabel) CreateRenderer() fyne.WidgetRenderer {
	l.ExtendBaseWidget(l)

	l.mu.Lock()
	l.label = widget.NewLabel("")
	l.mu.Unlock()

	l.startWatcher()

	// Initial value is set synchronously; later ticks arrive off the UI
	// thread and go through fyne.Do in applyText.
	text, ok := l.watcher.Current()
	l.label.SetText(l.displayText(text, ok))

	return &relativeTimeRenderer{owner: l, label: l.label}
}

func (l *RelativeTimeLabel) formatter() *reltime.Formatter {
	if l.Formatter != nil {
		return l.Formatter
	}
	return reltime.Default()
}

func (l *RelativeTimeLabel) startWatcher() {
	l.stopWatcher()

	cfg := reltime.WatchConfig{
		Interval: l.UpdateInterval,
		OnChange: l.applyText,
		OnReachedPresent: func() {
			if cb := l.OnReachedPresent; cb != nil {
				cb()
			}
		},
	}

	w := l.formatter().Watch(l.Timestamp, l.Options, cfg)
	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()
}

func (l *RelativeTimeLabel) stopWatcher() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

func (l *RelativeTimeLabel) applyText(text string, ok bool) {
	display := l.displayText(text, ok)

	if cb := l.OnChanged; cb != nil {
		cb(display)
	}

	l.mu.Lock()
	label := l.label
	l.mu.Unlock()
	if label == nil {
		return
	}

	fyne.Do(func() {
		label.SetText(display)
	})
}

// displayText applies the discriminated rendering choice: a caller-supplied
// render function wins outright, otherwise prefix/suffix decoration applies.
func (l *RelativeTimeLabel) displayText(text string, ok bool) string {
	if !ok {
		return l.Placeholder
	}
	if l.RenderText != nil {
		return l.RenderText(text)
	}
	return l.Prefix + text + l.Suffix
}

type relativeTimeRenderer struct {
	owner *RelativeTimeLabel
	label *widget.Label
}

func (r *relativeTimeRenderer) Layout(size fyne.Size) {
	r.label.Resize(size)
}

func (r *relativeTimeRenderer) MinSize() fyne.Size {
	return r.label.MinSize()
}

func (r *relativeTimeRenderer) Refresh() {
	r.label.Refresh()
}

func (r *relativeTimeRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.label}
}

// Destroy releases the scheduled wake-up; in-flight callbacks become no-ops.
func (r *relativeTimeRenderer) Destroy() {
	r.owner.stopWatcher()
}
