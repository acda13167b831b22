package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// TextReader is a line source for interactive use. Lines are read by a
// background pump so that ReadLine honors context cancellation (Ctrl+C) and
// per-line timeouts even while the underlying reader is blocked.
// Every line is sanitized before it is returned.
//
// Close stops the pump. A pump blocked inside the underlying reader exits
// after that read returns.
type TextReader struct {
	reader   *bufio.Reader
	feedback io.Writer
	timeout  time.Duration
	limit    int
	quit     []string

	lines     chan inputResult
	startOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

type inputResult struct {
	text string
	err  error
}

// TextReaderOption configures a TextReader.
type TextReaderOption func(*TextReader)

// WithFeedback makes ReadLine report rejected lines to w and wait for another
// line, instead of returning the sanitizer error.
func WithFeedback(w io.Writer) TextReaderOption {
	return func(t *TextReader) {
		t.feedback = w
	}
}

// WithLineTimeout bounds how long one ReadLine call waits.
func WithLineTimeout(d time.Duration) TextReaderOption {
	return func(t *TextReader) {
		t.timeout = d
	}
}

// WithMaxInputSize overrides the size limit taken from EnvMaxInputSize.
func WithMaxInputSize(limit int) TextReaderOption {
	return func(t *TextReader) {
		t.limit = limit
	}
}

// WithQuitCommands makes ReadLine return io.EOF when the user types one of words.
func WithQuitCommands(words ...string) TextReaderOption {
	return func(t *TextReader) {
		t.quit = words
	}
}

// NewTextReader creates a line source over r (os.Stdin when nil).
func NewTextReader(r io.Reader, opts ...TextReaderOption) *TextReader {
	if r == nil {
		r = os.Stdin
	}
	t := &TextReader{
		reader:  bufio.NewReader(r),
		limit:   MaxInputSize(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TextReader) initPump() {
	t.startOnce.Do(func() {
		t.lines = make(chan inputResult)
		go t.pump()
	})
}

// Close stops the reader. Later ReadLine calls return io.EOF.
func (t *TextReader) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
	})
	return nil
}

func (t *TextReader) pump() {
	defer close(t.stopped)
	defer close(t.lines)
	for {
		text, err := t.reader.ReadString('\n')

		// A final line without newline is still a line.
		if text != "" && !t.send(inputResult{text: strings.TrimRight(text, "\r\n")}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				t.send(inputResult{err: err})
			}
			return
		}
	}
}

func (t *TextReader) send(res inputResult) bool {
	select {
	case t.lines <- res:
		return true
	case <-t.done:
		return false
	}
}

// ReadLine blocks until a valid line is available, ctx is done, the line
// timeout expires or the input ends (io.EOF).
func (t *TextReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return "", io.EOF
	default:
	}
	t.initPump()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.done:
			return "", io.EOF
		case res, ok := <-t.lines:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInputLimit(res.text, t.limit)
			if err != nil {
				if t.feedback == nil {
					return "", err
				}
				fmt.Fprintf(t.feedback, "Error: %v. Please try again.\n", err)
				continue
			}
			if slices.Contains(t.quit, strings.TrimSpace(clean)) {
				return "", io.EOF
			}
			return clean, nil
		}
	}
}
