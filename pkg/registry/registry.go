package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/dsl"
)

// ErrEmptyInput is returned by the "nonempty" logic for blank lines.
var ErrEmptyInput = errors.New("input is empty")

// Registry maps names to handler logic, so that application documents can
// refer to logic by name ("logic: int").
type Registry struct {
	mu    sync.RWMutex
	logic map[string]dsl.HandlerFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		logic: make(map[string]dsl.HandlerFunc),
	}
}

// Default creates a registry holding the built-in logic:
//
//	int       parses the line as an integer
//	float     parses the line as a float
//	bool      parses the line as a boolean (true/false, yes/no, y/n, 1/0)
//	nonempty  rejects blank lines, records the trimmed line
//	echo      writes the line back to the application output
func Default() *Registry {
	r := NewRegistry()
	r.Register("int", parseInt)
	r.Register("float", parseFloat)
	r.Register("bool", parseBool)
	r.Register("nonempty", nonEmpty)
	r.Register("echo", echo)
	return r
}

// Register adds logic to the registry.
// If logic with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn dsl.HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logic[name] = fn
}

// Lookup returns the logic registered under name.
func (r *Registry) Lookup(name string) (dsl.HandlerFunc, error) {
	r.mu.RLock()
	fn, ok := r.logic[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("logic not found: %s", name)
	}
	return fn, nil
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.logic))
	for name := range r.logic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseInt(_ context.Context, _ domain.App, line string) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", line)
	}
	return n, nil
}

func parseFloat(_ context.Context, _ domain.App, line string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", line)
	}
	return f, nil
}

func parseBool(_ context.Context, _ domain.App, line string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("%q is not yes or no", line)
	}
	return b, nil
}

func nonEmpty(_ context.Context, _ domain.App, line string) (any, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}
	return trimmed, nil
}

func echo(_ context.Context, app domain.App, line string) (any, error) {
	_, err := fmt.Fprintln(app.Writer(), line)
	return nil, err
}
