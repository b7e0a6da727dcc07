package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func count(t *testing.T, ch <-chan struct{}) int {
	t.Helper()
	n := 0
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		case <-timeout:
			t.Fatal("click channel was not closed")
		}
	}
}

func TestClicks_LineMode(t *testing.T) {
	ch := Clicks(context.Background(), strings.NewReader("\nanything\n\n"), false)
	assert.Equal(t, 3, count(t, ch))
}

func TestClicks_LineModeQuit(t *testing.T) {
	ch := Clicks(context.Background(), strings.NewReader("\n Q \n\n"), false)
	assert.Equal(t, 1, count(t, ch))
}

func TestClicks_RawMode(t *testing.T) {
	ch := Clicks(context.Background(), strings.NewReader(" x\r y"), true)
	assert.Equal(t, 3, count(t, ch))
}

func TestClicks_RawModeQuitKeys(t *testing.T) {
	ch := Clicks(context.Background(), strings.NewReader(" \x03  "), true)
	assert.Equal(t, 1, count(t, ch))

	ch = Clicks(context.Background(), strings.NewReader("q "), true)
	assert.Equal(t, 0, count(t, ch))
}

func TestClicks_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := Clicks(ctx, strings.NewReader("\n\n\n"), false)
	assert.Equal(t, 0, count(t, ch))
}

func TestCRLF(t *testing.T) {
	var buf strings.Builder
	w := CRLF(&buf)

	n, err := w.Write([]byte("Mode: test\nnext\n"))
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "Mode: test\r\nnext\r\n", buf.String())
}
