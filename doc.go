/*
Package espalier is a deterministic engine for branching, multi-step
questionnaires ("quizzes") modeled as directed graphs of nodes with typed
questions and conditional transitions.

The engine decides structural validity and graph traversal, nothing else:
rendering, persistence, transport, and scoring belong to the embedding host.
This Hexagonal Architecture allows Espalier to be embedded in any interface:
CLI, HTTP server, or agent infrastructure.

# Key Features

  - Deterministic traversal: transitions are evaluated in declared order and
    the first match wins, so the same answers always take the same path.
  - Load-time validation: a quiz graph is structurally validated once; an
    invalid graph never produces an engine.
  - Typed answer validation: ten question kinds with per-kind rules, each
    answer folding into a recorded response.
  - Explicit run state: every operation returns a fresh RunState snapshot; no
    ambient singletons, concurrent runs are trivial.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/dsl"
	)

	func main() {
		quiz := dsl.NewQuiz("onboarding").
			Node("age-check").Start().
			Number("age", "How old are you?", dsl.Required()).
			When(dsl.GreaterThan("age", 17), "welcome").
			Quiz().
			Node("welcome").End().
			Quiz().
			MustBuild()

		eng, err := espalier.New(quiz)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		state := eng.Start(ctx, "run-123")
		state, _, _ = eng.SubmitAnswer(ctx, state, "age", 30)
		state, result, _ := eng.Advance(ctx, state)
		_ = result // moved to "welcome", run completed
		_ = state
	}

Run state can be kept purely in memory, or persisted through the stores in
pkg/adapters (file, redis) via the session manager in pkg/session.
*/
package espalier
