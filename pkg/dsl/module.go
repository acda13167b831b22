package dsl

import (
	"io"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/style"
)

// module is the runtime side of a builder kind.
type module interface {
	domain.Module
	base() *moduleBase
}

// moduleBase holds what every built module resolves at build time.
type moduleBase struct {
	name     string
	style    style.Token
	children []domain.Module
	reader   domain.LineReader
	writer   io.Writer
}

func (m *moduleBase) Name() string {
	return m.name
}

func (m *moduleBase) Children() []domain.Module {
	return m.children
}

func (m *moduleBase) base() *moduleBase {
	return m
}

// Writer returns the module's output sink.
func (m *moduleBase) Writer() io.Writer {
	return m.writer
}

// Reader returns the module's input source.
func (m *moduleBase) Reader() domain.LineReader {
	return m.reader
}

func (m *moduleBase) emitStyle() error {
	if m.style == style.None {
		return nil
	}
	_, err := io.WriteString(m.writer, string(m.style))
	return err
}
