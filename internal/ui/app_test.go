package ui

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reltime "github.com/tartampluch/go-reltime"
	"github.com/tartampluch/go-reltime/internal/server"
	"github.com/tartampluch/go-reltime/internal/source"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// mockClock drives the relative-time labels deterministically.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

type mockTimer struct {
	c       *mockClock
	when    time.Time
	f       func()
	fired   bool
	stopped bool
}

func newMockClock(start time.Time) *mockClock {
	return &mockClock{now: start}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) AfterFunc(d time.Duration, f func()) reltime.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{c: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *mockTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *mockClock) advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *mockTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.when.After(target) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.when.After(c.now) {
			c.now = next.when
		}
		next.fired = true
		f := next.f
		c.mu.Unlock()
		f()
	}
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

var testStart = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// setupTestApp initializes a headless Fyne app with a mocked clock.
func setupTestApp(t *testing.T, lang string) (*RelTimeApp, *mockClock) {
	t.Helper()
	a := test.NewApp()

	clock := newMockClock(testStart)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewRelTimeApp(a, ctx, nil, reltime.NewFormatter(clock), lang)
	app.SetupI18n()
	return app, clock
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	app, _ := setupTestApp(t, "en")
	assert.Contains(t, app.GetMsg("lbl_no_entries"), "Nothing to watch")

	app.Language = "fr"
	app.UpdateLocalizer()
	assert.Contains(t, app.GetMsg("lbl_no_entries"), "Rien à surveiller")
}

func TestLocalization_UnknownLanguageFallsBack(t *testing.T) {
	app, _ := setupTestApp(t, "xx-XX")
	assert.Contains(t, app.GetMsg("lbl_no_entries"), "Nothing to watch")
}

func TestLocalization_Pluralization(t *testing.T) {
	app, _ := setupTestApp(t, "en")

	assert.Equal(t, "Watching 1 moment", app.GetMsgCount("lbl_watching", 1))
	assert.Equal(t, "Watching 3 moments", app.GetMsgCount("lbl_watching", 3))
}

func TestLocalization_MissingKeyReturnsKey(t *testing.T) {
	app, _ := setupTestApp(t, "en")
	assert.Equal(t, "no_such_key", app.GetMsg("no_such_key"))
}

// -----------------------------------------------------------------------------
// Content Tests
// -----------------------------------------------------------------------------

func TestBuildContent_Empty(t *testing.T) {
	app, _ := setupTestApp(t, "en")

	content := app.BuildContent(nil)

	require.NotNil(t, content)
	assert.Empty(t, app.rows)
}

func TestBuildContent_RowsTick(t *testing.T) {
	app, clock := setupTestApp(t, "en")

	entries := []source.Entry{
		{UID: "a", Name: "Standup", When: testStart.Add(-3 * time.Second)},
		{UID: "b", Name: "Release", When: testStart.Add(2 * time.Hour)},
	}

	content := app.BuildContent(entries)
	require.NotNil(t, content)
	require.Len(t, app.rows, 2)

	// Arm the labels the way a shown window would.
	for _, r := range app.rows {
		renderer := test.WidgetRenderer(r.label)
		t.Cleanup(renderer.Destroy)
	}

	assert.Equal(t, "3 seconds ago", app.rows[0].label.Text())
	assert.Equal(t, "in 2 hours", app.rows[1].label.Text())

	clock.advance(2 * time.Second)
	assert.Equal(t, "5 seconds ago", app.rows[0].label.Text())
}

func TestBuildContent_RebuildResetsRows(t *testing.T) {
	app, _ := setupTestApp(t, "en")

	app.BuildContent([]source.Entry{{UID: "a", Name: "One", When: testStart}})
	require.Len(t, app.rows, 1)

	app.BuildContent([]source.Entry{
		{UID: "b", Name: "Two", When: testStart},
		{UID: "c", Name: "Three", When: testStart},
	})
	assert.Len(t, app.rows, 2, "stale rows must not survive a rebuild")
}

// -----------------------------------------------------------------------------
// Status Endpoint Integration
// -----------------------------------------------------------------------------

// TestSnapshotServedOverHTTP arms the labels, lets them push a snapshot and
// reads it back through the real TCP endpoint.
func TestSnapshotServedOverHTTP(t *testing.T) {
	const port = "18299"

	app, _ := setupTestApp(t, "en")
	app.Server = server.NewStatusServer(port)

	entries := []source.Entry{
		{UID: "a", Name: "Standup", When: testStart.Add(2 * time.Hour)},
	}
	app.BuildContent(entries)
	renderer := test.WidgetRenderer(app.rows[0].label)
	t.Cleanup(renderer.Destroy)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- app.Server.Start(ctx) }()

	url := "http://127.0.0.1:" + port + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "Server failed to bind/listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Standup: in 2 hours\n", string(body))

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}
