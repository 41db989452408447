// Package ui hosts the Fyne front-end: a window listing watched moments,
// each row backed by a live relative-time label.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynewidget "fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	reltime "github.com/tartampluch/go-reltime"
	"github.com/tartampluch/go-reltime/internal/config"
	"github.com/tartampluch/go-reltime/internal/server"
	"github.com/tartampluch/go-reltime/internal/source"
	rtwidget "github.com/tartampluch/go-reltime/widget"
)

// row pairs an entry with its live label for snapshot rendering.
type row struct {
	entry source.Entry
	label *rtwidget.RelativeTimeLabel
}

// RelTimeApp encapsulates the UI state and background services.
type RelTimeApp struct {
	App        fyne.App
	Window     fyne.Window
	I18nBundle *i18n.Bundle
	Localizer  *i18n.Localizer
	Ctx        context.Context

	Server    *server.StatusServer // Optional: nil disables the status endpoint.
	Formatter *reltime.Formatter
	Language  string

	SupportedLanguages []string

	rowsMut sync.Mutex
	rows    []*row
}

// NewRelTimeApp constructs the application and wires dependencies.
func NewRelTimeApp(a fyne.App, ctx context.Context, srv *server.StatusServer, formatter *reltime.Formatter, lang string) *RelTimeApp {
	if formatter == nil {
		formatter = reltime.Default()
	}
	return &RelTimeApp{
		App:                a,
		Ctx:                ctx,
		Server:             srv,
		Formatter:          formatter,
		Language:           lang,
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run builds the window for the given entries and blocks in the UI loop.
func (app *RelTimeApp) Run(entries []source.Entry) {
	app.SetupI18n()

	app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window.SetContent(app.BuildContent(entries))
	app.Window.Resize(fyne.NewSize(config.MainWinWidth, config.MainWinHeight))

	if app.Server != nil && app.Server.Port != "" {
		go func() {
			if err := app.Server.Start(app.Ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyComponent, config.CompUI,
					config.LogKeyError, err,
				)
			}
		}()
	}

	go func() {
		<-app.Ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompUI)
		fyne.Do(app.App.Quit)
	}()

	app.Window.ShowAndRun()
}

// BuildContent renders the entry list. An empty list shows a hint instead.
func (app *RelTimeApp) BuildContent(entries []source.Entry) fyne.CanvasObject {
	if len(entries) == 0 {
		return container.NewCenter(fynewidget.NewLabel(app.GetMsg(config.TKeyLblEmpty)))
	}

	header := fynewidget.NewLabel(app.GetMsgCount(config.TKeyLblWatching, len(entries)))
	header.TextStyle = fyne.TextStyle{Bold: true}

	list := container.NewVBox(header, fynewidget.NewSeparator())

	app.rowsMut.Lock()
	app.rows = nil
	app.rowsMut.Unlock()

	for _, entry := range entries {
		list.Add(app.buildRow(entry))
	}
	return container.NewVScroll(list)
}

// buildRow wires one entry into a live label. Every refresh of any row pushes
// a fresh snapshot to the status server.
func (app *RelTimeApp) buildRow(entry source.Entry) fyne.CanvasObject {
	name := fynewidget.NewLabel(entry.Name)
	name.TextStyle = fyne.TextStyle{Bold: true}

	label := rtwidget.NewRelativeTimeLabel(entry.When)
	label.Formatter = app.Formatter
	label.Options = &reltime.Options{Locale: app.Language}
	label.Placeholder = app.GetMsg(config.TKeyPlaceholder)
	label.OnChanged = func(string) { app.pushSnapshot() }
	label.OnReachedPresent = func() { app.notifyReached(entry) }

	r := &row{entry: entry, label: label}
	app.rowsMut.Lock()
	app.rows = append(app.rows, r)
	app.rowsMut.Unlock()

	return container.NewBorder(nil, nil, name, nil, label)
}

// pushSnapshot renders the current state of every row as plain text and
// hands it to the status server.
func (app *RelTimeApp) pushSnapshot() {
	if app.Server == nil {
		return
	}

	app.rowsMut.Lock()
	rows := append([]*row(nil), app.rows...)
	app.rowsMut.Unlock()

	var buf bytes.Buffer
	for _, r := range rows {
		fmt.Fprintf(&buf, "%s: %s\n", r.entry.Name, r.label.Text())
	}
	app.Server.Update(buf.Bytes())
}

// notifyReached sends a desktop notification when a watched moment arrives.
func (app *RelTimeApp) notifyReached(entry source.Entry) {
	slog.Info(config.MsgReached,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyName, entry.Name,
	)

	app.App.SendNotification(fyne.NewNotification(
		app.GetMsg(config.TKeyNotifTitle),
		app.GetMsgData(config.TKeyNotifBody, map[string]interface{}{"Name": entry.Name}),
	))
}
