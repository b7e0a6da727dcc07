package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
	"github.com/m0rjc/ModeBinder/internal/mode"
)

// Renderer projects the displayed text somewhere visible.
type Renderer interface {
	Render(text string)
}

// Display is the mode display element. The server owns its value: Set is only
// called for inbound updates, and the click path only reads it.
type Display struct {
	mu        sync.RWMutex
	text      string
	normalize bool
	renderer  Renderer
}

// New creates a Display showing initial, the value present before the channel
// connects. A nil renderer discards output.
func New(initial string, normalize bool, renderer Renderer) *Display {
	if renderer == nil {
		renderer = discard{}
	}
	d := &Display{text: initial, normalize: normalize, renderer: renderer}
	renderer.Render(initial)
	return d
}

// Set overwrites the displayed text verbatim.
func (d *Display) Set(text string) {
	d.mu.Lock()
	d.text = text
	d.mu.Unlock()

	d.renderer.Render(text)
}

// Text returns the displayed text.
func (d *Display) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Mode returns the parsed form of the displayed text.
func (d *Display) Mode() mode.Mode {
	return mode.Parse(d.Text(), d.normalize)
}

// Normalized reports whether the display compares mode text case-insensitively.
func (d *Display) Normalized() bool {
	return d.normalize
}

type discard struct{}

func (discard) Render(string) {}

// TerminalRenderer writes one status line per update.
type TerminalRenderer struct {
	mu        sync.Mutex
	w         io.Writer
	normalize bool
}

func NewTerminalRenderer(w io.Writer, normalize bool) *TerminalRenderer {
	return &TerminalRenderer{w: w, normalize: normalize}
}

func (r *TerminalRenderer) Render(text string) {
	var style color.Style
	switch mode.Parse(text, r.normalize) {
	case mode.Instruction:
		style = color.New(color.FgGreen, color.OpBold)
	case mode.Test:
		style = color.New(color.FgYellow, color.OpBold)
	default:
		style = color.New(color.FgGray)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "Mode: %s\n", style.Sprint(text))
}
