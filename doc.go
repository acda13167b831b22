/*
Package arbor composes interactive text-mode applications as trees of reusable modules.

A module tree is described at configuration time with the fluent builders of
package dsl (text, containers, functions, input prompts with handlers, scene
selectors), built into runtime modules bound to an Application, and executed by
an explicit-stack scheduler. Execution depth is bounded only by memory, and a
running module can jump to another scene and have the previous one restored
when that scene ends.

# Concept

The Application is the per-run context: it records captured input values,
resolves module names for termination requests, and fires its exit hook once
the run completes. Handler code talks to it through the domain.App interface.

# Usage

	package main

	import (
		"context"
		"log"
		"strconv"

		"github.com/aretw0/arbor"
		"github.com/aretw0/arbor/pkg/domain"
		"github.com/aretw0/arbor/pkg/dsl"
	)

	func main() {
		app := arbor.New(arbor.WithName("ages"))

		age := dsl.NewInput("age", "How old are you?")
		age.AddHandler(dsl.NewSafeHandler("age_check",
			func(ctx context.Context, app domain.App, line string) (any, error) {
				return strconv.Atoi(line)
			},
			dsl.Reprompt("Please type a number."),
		))

		root := dsl.NewContainer("main").
			AddChild(dsl.NewText("Welcome!"), age).
			SetApplication(app)

		if err := dsl.Run(context.Background(), root); err != nil {
			log.Fatal(err)
		}
	}
*/
package arbor
