package arbor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// GetInput returns the last value recorded under name, viewed as T.
//
// Values that already hold a T are returned as is. Otherwise a weakly typed
// conversion is attempted, so a captured line "42" can be read as an int.
// A blank line is never read as a number or boolean, and a single value is
// never widened into a slice.
// It fails with domain.ErrInputAbsent when name was never recorded and with
// domain.ErrTypeMismatch when the value cannot be viewed as T.
func GetInput[T any](app domain.App, name string) (T, error) {
	var zero T
	raw, ok := app.Input(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", domain.ErrInputAbsent, name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	if raw == nil {
		return zero, fmt.Errorf("%w: %s holds nil, want %T", domain.ErrTypeMismatch, name, zero)
	}

	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       strictScalars,
		Result:           &out,
	})
	if err != nil {
		return zero, err
	}
	if err := dec.Decode(raw); err != nil {
		return zero, fmt.Errorf("%w: %s holds %T, want %T: %v", domain.ErrTypeMismatch, name, raw, zero, err)
	}
	return out, nil
}

var (
	errBlank = errors.New("blank value")
	errWiden = errors.New("single value cannot be read as a list")
)

// strictScalars narrows mapstructure's weak conversion to what a typed
// prompt answer can mean.
func strictScalars(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.String, reflect.Interface:
		return data, nil
	case reflect.Slice, reflect.Array:
		if k := from.Kind(); k != reflect.Slice && k != reflect.Array {
			return nil, errWiden
		}
		return data, nil
	}
	if from.Kind() == reflect.String && strings.TrimSpace(reflect.ValueOf(data).String()) == "" {
		return nil, errBlank
	}
	return data, nil
}

// MustGetInput is like GetInput but panics on failure. Intended for handler
// logic that runs after the value was validated.
func MustGetInput[T any](app domain.App, name string) T {
	v, err := GetInput[T](app, name)
	if err != nil {
		panic(err)
	}
	return v
}
