package reltime

import (
	"sync"
	"time"
)

// WatchConfig configures one observation session.
type WatchConfig struct {
	// Interval, when positive, replaces the adaptive schedule with a fixed
	// cadence. The caller accepts possibly-redundant or possibly-stale
	// refreshes.
	Interval time.Duration

	// OnChange is invoked whenever the rendered phrase actually changes,
	// including once for the initial value. ok is false when the input is
	// not resolvable to an instant.
	OnChange func(text string, ok bool)

	// OnReachedPresent is invoked exactly once per session when a
	// future-pointing timestamp transitions to non-future. Once it has
	// fired the session stops rearming until Update replaces the input.
	OnReachedPresent func()
}

// Watcher is the reactive-value binding: it holds the current formatted
// phrase for one timestamp and keeps it fresh by re-deriving the wake-up
// delay from the current offset after every fire.
//
// A Watcher owns at most one outstanding timer. Update and Stop atomically
// cancel it; wake-ups that race with either are discarded by a generation
// check, so a fired callback can never mutate a torn-down session.
type Watcher struct {
	f   *Formatter
	cfg WatchConfig

	mu        sync.Mutex
	input     any
	opts      Options
	timer     Timer
	gen       uint64
	stopped   bool
	current   string
	ok        bool
	wasFuture bool
	done      bool // completion delivered; dormant until Update
}

// Watch starts observing input with this Formatter's clock and locale bundle.
// A nil opts means defaults.
func (f *Formatter) Watch(input any, opts *Options, cfg WatchConfig) *Watcher {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	w := &Watcher{f: f, cfg: cfg, input: input, opts: o.withDefaults()}

	w.mu.Lock()
	notify := w.refreshLocked(true)
	w.mu.Unlock()
	notify()
	return w
}

// Watch starts an observation session on the default Formatter.
func Watch(input any, opts *Options, cfg WatchConfig) *Watcher {
	return Default().Watch(input, opts, cfg)
}

// Current returns the latest formatted phrase. ok is false when the observed
// input is unparseable.
func (w *Watcher) Current() (text string, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.ok
}

// Update replaces the observed timestamp (and options, when non-nil),
// cancelling any pending wake-up before arming the next one. Starting a new
// session this way also resets the completion state. Calling Update on a
// stopped watcher is a no-op.
func (w *Watcher) Update(input any, opts *Options) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.cancelLocked()
	w.input = input
	if opts != nil {
		w.opts = (*opts).withDefaults()
	}
	notify := w.refreshLocked(true)
	w.mu.Unlock()
	notify()
}

// Stop tears the session down and cancels any outstanding wake-up,
// including the stale handle of a dormant session. Stop is idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		w.cancelLocked()
	}
	w.mu.Unlock()
}

// tick is the wake-up callback. Stale generations arrive when the timer
// fired concurrently with Update or Stop; they must not touch any state.
func (w *Watcher) tick(gen uint64) {
	w.mu.Lock()
	if w.stopped || gen != w.gen {
		w.mu.Unlock()
		return
	}
	notify := w.refreshLocked(false)
	w.mu.Unlock()
	notify()
}

// refreshLocked recomputes the phrase, detects the future-to-present
// crossing, re-arms the timer and returns the callback dispatch to run
// outside the lock. initial marks the start of a fresh session.
func (w *Watcher) refreshLocked(initial bool) func() {
	now := w.f.clock().Now()
	target, err := Normalize(w.input)
	if err != nil {
		// Unknown time: no phrase and nothing to schedule until Update.
		changed := w.ok
		w.current, w.ok = "", false
		if initial {
			w.wasFuture, w.done = false, false
		}
		return w.notifier(changed, false)
	}

	offset := offsetSeconds(target, now)
	if initial {
		w.wasFuture = offset > 0
		w.done = false
	}

	text := w.f.render(target, now, w.opts)
	changed := !w.ok || text != w.current
	w.current, w.ok = text, true

	reached := false
	if w.wasFuture && offset <= 0 && !w.done {
		w.done = true
		reached = true
	}

	w.armLocked(offset, reached)
	return w.notifier(changed, reached)
}

// armLocked schedules the next wake-up. Sessions whose completion callback
// just fired stop permanently; offsets past the last refresh tier leave the
// session armed-but-dormant.
func (w *Watcher) armLocked(offset float64, reached bool) {
	w.cancelLocked()

	if reached && w.cfg.OnReachedPresent != nil {
		return
	}

	delay := w.cfg.Interval
	if delay <= 0 {
		d, ok := NextWakeDelay(offset)
		if !ok {
			return
		}
		delay = d
	}

	gen := w.gen
	w.timer = w.f.clock().AfterFunc(delay, func() { w.tick(gen) })
}

// cancelLocked stops the pending timer and invalidates in-flight wake-ups.
func (w *Watcher) cancelLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++
}

// notifier snapshots the pending callback invocations so they can run after
// the mutex is released; callbacks are free to call Update or Stop.
func (w *Watcher) notifier(changed, reached bool) func() {
	onChange := w.cfg.OnChange
	onReached := w.cfg.OnReachedPresent
	text, ok := w.current, w.ok
	return func() {
		if changed && onChange != nil {
			onChange(text, ok)
		}
		if reached && onReached != nil {
			onReached()
		}
	}
}
