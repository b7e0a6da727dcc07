package display

import (
	"bytes"
	"sync"
	"testing"

	"github.com/m0rjc/ModeBinder/internal/mode"
	"github.com/stretchr/testify/assert"
)

type recordingRenderer struct {
	mu       sync.Mutex
	rendered []string
}

func (r *recordingRenderer) Render(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, text)
}

func TestDisplay_InitialValueRendered(t *testing.T) {
	rec := &recordingRenderer{}
	d := New("Instruction", false, rec)

	assert.Equal(t, "Instruction", d.Text())
	assert.Equal(t, mode.Instruction, d.Mode())
	assert.Equal(t, []string{"Instruction"}, rec.rendered)
}

func TestDisplay_SetIsVerbatim(t *testing.T) {
	rec := &recordingRenderer{}
	d := New("Instruction", false, rec)

	d.Set("  Whatever ")
	assert.Equal(t, "  Whatever ", d.Text())
	assert.Equal(t, mode.Unknown, d.Mode())

	d.Set("")
	assert.Equal(t, "", d.Text())
	assert.Equal(t, []string{"Instruction", "  Whatever ", ""}, rec.rendered)
}

func TestDisplay_NormalizedMode(t *testing.T) {
	d := New("instruction", true, nil)
	assert.Equal(t, mode.Instruction, d.Mode())
	assert.True(t, d.Normalized())
}

func TestTerminalRenderer_WritesLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf, false)

	r.Render("test")
	r.Render("Instruction")

	out := buf.String()
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "Instruction")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}
