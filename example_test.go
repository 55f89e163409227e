package espalier_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/dsl"
)

// ExampleNew demonstrates building a quiz in code and driving a run through
// it: answer, advance, done.
func ExampleNew() {
	quiz := dsl.NewQuiz("onboarding").
		Node("age-check").Start().
		Number("age", "How old are you?", dsl.Required()).
		When(dsl.GreaterThan("age", 17), "welcome").
		Go("underage").
		Quiz().
		Node("welcome").End().Quiz().
		Node("underage").End().Quiz().
		MustBuild()

	engine, err := espalier.New(quiz)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := engine.Start(ctx, "demo")

	state, resp, err := engine.SubmitAnswer(ctx, state, "age", 25)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Answer valid: %v\n", resp.IsValid)

	state, result, err := engine.Advance(ctx, state)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Current node: %s\n", state.CurrentNodeID)
	// Output:
	// Answer valid: true
	// Status: completed
	// Current node: welcome
}
