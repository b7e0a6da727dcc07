// Package console turns terminal input into button clicks.
package console

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

// Clicks reads r until EOF or a quit key and sends one value per click. In raw
// mode (a terminal put into raw mode by the caller) space and Enter click and
// q, Ctrl-C or Ctrl-D quit. Otherwise each input line clicks and a line "q"
// quits. The returned channel is closed when input ends.
func Clicks(ctx context.Context, r io.Reader, raw bool) <-chan struct{} {
	out := make(chan struct{})

	go func() {
		defer close(out)

		click := func() bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- struct{}{}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if raw {
			br := bufio.NewReader(r)
			for {
				b, err := br.ReadByte()
				if err != nil {
					return
				}
				switch b {
				case ' ', '\r', '\n':
					if !click() {
						return
					}
				case 'q', 'Q', keyCtrlC, keyCtrlD:
					return
				}
			}
		}

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), "q") {
				return
			}
			if !click() {
				return
			}
		}
	}()

	return out
}

// CRLF wraps w so that "\n" becomes "\r\n", for output written while the
// terminal is in raw mode.
func CRLF(w io.Writer) io.Writer {
	return crlfWriter{w: w}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
