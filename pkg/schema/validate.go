package schema

import (
	"context"
	"sort"

	"github.com/aretw0/arbor"
)

// Schema maps input names to their expectations.
type Schema map[string]Field

// Validate checks inputs against the schema and reports every failure,
// ordered by input name. Inputs the schema does not mention are ignored.
func Validate(schema Schema, inputs map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		field := schema[key]
		value, exists := inputs[key]
		if !exists {
			if !field.Optional {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if err := field.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ExitHook returns an exit hook that validates the recorded inputs when a run
// completes. next, when it has a callback, runs after a successful validation.
func ExitHook(schema Schema, next arbor.ExitHook) arbor.ExitHook {
	label := "schema"
	if next.Label != "" {
		label += "+" + next.Label
	}
	return arbor.ExitHook{
		Label: label,
		Fn: func(ctx context.Context, app *arbor.Application) error {
			if err := Validate(schema, app.Inputs()); err != nil {
				return err
			}
			if next.Fn != nil {
				return next.Fn(ctx, app)
			}
			return nil
		},
	}
}
