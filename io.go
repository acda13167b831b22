package arbor

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader adapts r into a blocking line source.
// The trailing newline (and carriage return) is stripped. A final line without
// a newline is returned before io.EOF.
func NewLineReader(r io.Reader) domain.LineReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &lineReader{r: br}
	}
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := l.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && text != "" {
			return strings.TrimRight(text, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}
