// Package binder ties the mode display to the server channel.
//
// Two flows run independently: server updates overwrite the display
// (mode_update), and clicks read the display and request the other mode
// (change_mode). A click never touches the display itself; the server echoes
// the accepted mode back as an update.
package binder

import (
	"context"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/m0rjc/ModeBinder/internal/display"
	"github.com/m0rjc/ModeBinder/internal/metrics"
	"github.com/m0rjc/ModeBinder/internal/mode"
	"github.com/m0rjc/ModeBinder/internal/socketio"
)

const (
	EventModeUpdated = "mode_update"
	EventChangeMode  = "change_mode"
)

// Channel is the persistent event channel to the server.
type Channel interface {
	On(name string, h socketio.Handler)
	Emit(name string, args ...any) error
}

type Binder struct {
	channel Channel
	display *display.Display
}

// New registers the inbound handler on channel and returns the binder.
func New(channel Channel, d *display.Display) *Binder {
	b := &Binder{channel: channel, display: d}
	channel.On(EventModeUpdated, b.onModeUpdated)
	return b
}

func (b *Binder) onModeUpdated(args ...any) {
	metrics.EventsReceived.WithLabelValues(EventModeUpdated).Inc()

	text := modeText(args)
	slog.Debug("binder.mode_update",
		"component", "binder",
		"event", "binder.mode_update",
		"mode", text,
	)
	b.display.Set(text)
}

// modeText pulls the "mode" field out of an update payload. A missing field,
// null or a non-object payload leaves the display empty; other scalars are
// shown as their JSON text.
func modeText(args []any) string {
	if len(args) == 0 {
		return ""
	}

	fields, ok := args[0].(map[string]any)
	if !ok {
		return ""
	}
	switch v := fields["mode"].(type) {
	case string:
		return v
	case nil, map[string]any, []any:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Click requests the toggled mode from the server.
func (b *Binder) Click() error {
	displayed := b.display.Text()
	next := mode.Toggle(displayed, b.display.Normalized())

	if err := b.channel.Emit(EventChangeMode, next); err != nil {
		metrics.EventsSent.WithLabelValues(EventChangeMode, "error").Inc()
		return err
	}
	metrics.EventsSent.WithLabelValues(EventChangeMode, "ok").Inc()

	slog.Debug("binder.change_mode",
		"component", "binder",
		"event", "binder.change_mode",
		"displayed", displayed,
		"requested", next,
	)
	return nil
}

// Run turns click signals into change requests until ctx is done or clicks is
// closed. A failed send is logged and dropped.
func (b *Binder) Run(ctx context.Context, clicks <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-clicks:
			if !ok {
				return
			}
			if err := b.Click(); err != nil {
				slog.Warn("binder.click_dropped",
					"component", "binder",
					"event", "binder.send_error",
					"error", err,
				)
			}
		}
	}
}
