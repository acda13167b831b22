/*
Package dsl provides the fluent builders used to describe an arbor module tree.

A builder is a configuration-time template. Building it produces runtime
modules bound to one application; the same builder graph can be built any
number of times, and builders that appear under several parents become a
single shared module in every build. Cycles are allowed.

Every kind embeds Fluent, so the common setters return the concrete kind:

	app := arbor.New(arbor.WithName("survey"))

	age := dsl.NewInput("age", "How old are you?")
	age.AddHandler(dsl.NewSafeHandler("age_check",
		func(ctx context.Context, app domain.App, line string) (any, error) {
			return strconv.Atoi(line)
		},
		dsl.Reprompt("Please type a number."),
	))

	root := dsl.NewContainer("main").
		AddChild(dsl.NewText("Welcome!").SetAnsi(style.Bold), age).
		SetApplication(app)

	err := dsl.Run(ctx, root)

Kinds:
  - Text writes a fixed string, optionally rendered (markdown).
  - Func runs user logic; use it to navigate or terminate modules.
  - Container only groups its children.
  - Input prompts, reads one line and records it under its name.
  - Handler runs logic over the line its owning Input captured. A safe
    handler contains failures and hands them to an ErrorFunc such as Reprompt.
  - Selector runs one of several scenes; GoToScene switches between them.

Copy and StructuralEquals walk whole graphs without recursion, preserving
sharing, cycles and handler back-references.
*/
package dsl
