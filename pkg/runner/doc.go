/*
Package runner is the terminal boundary of arbor.

It provides the interactive line reader (TextReader) with input sanitization,
a glamour-backed markdown renderer for Text modules, and Runner, which builds
a module tree into a fresh application and runs it with signal handling.

# Usage

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithAppOptions(arbor.WithName("survey"), arbor.WithStore(store)),
	)

	if err := r.Run(ctx, root); err != nil && !errors.Is(err, runner.ErrInterrupted) {
		log.Fatal(err)
	}
*/
package runner
