package espalier

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Runner drives a full interactive run of a quiz using provided IO.
// This allows for easy testing and integration with different frontends
// (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms node and question text before
// outputting it. This allows for TUI rendering (markdown to ANSI) without
// coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. Callers set Input/Output explicitly
// (typically os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes a run loop until the quiz completes, the input ends, or the
// user exits. It returns the final run state.
func (r *Runner) Run(ctx context.Context, engine *Engine) (*domain.RunState, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	state := engine.Start(ctx, "")
	quiz := engine.Quiz()

	if !r.Headless {
		fmt.Fprintf(writer, "--- %s ---\n", quiz.Title)
	}

	for {
		node, err := engine.CurrentNode(state)
		if err != nil {
			return state, err
		}

		r.printNode(writer, node)

		if node.IsEnd || state.Completed {
			return state, nil
		}

		// Collect answers for the node's questions in display order.
		for _, q := range node.Questions {
			state, err = r.askQuestion(ctx, engine, state, q, lineReader, writer)
			if err != nil {
				if err == io.EOF {
					return state, nil
				}
				return state, err
			}
			if state == nil {
				return nil, nil // user exit
			}
		}

		nextState, result, err := engine.Advance(ctx, state)
		if err != nil {
			return state, fmt.Errorf("advance error: %w", err)
		}

		if result.Status == domain.AdvanceBlocked {
			switch result.Reason {
			case domain.BlockRequiredUnanswered:
				fmt.Fprintf(writer, "Please answer the required questions: %s\n", strings.Join(result.Unanswered, ", "))
			default:
				fmt.Fprintln(writer, "No path matches your answers. Adjust them or type 'back'.")
			}
			// Re-enter the same node; answers may be revised.
			state = nextState
			continue
		}
		state = nextState
	}
}

func (r *Runner) printNode(writer io.Writer, node *domain.Node) {
	content := "## " + node.Title
	if node.Description != "" {
		content += "\n\n" + node.Description
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			content = rendered
		}
	}
	fmt.Fprintln(writer, strings.TrimSpace(content))
}

// askQuestion prompts until the submitted answer is valid or accepted.
// Returns (nil, nil) when the user asked to exit.
func (r *Runner) askQuestion(ctx context.Context, engine *Engine, state *domain.RunState, q domain.Question, lineReader *bufio.Reader, writer io.Writer) (*domain.RunState, error) {
	for {
		r.printPrompt(writer, q)

		text, err := lineReader.ReadString('\n')
		if err != nil && err != io.EOF {
			return state, fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		switch input {
		case "exit", "quit":
			fmt.Fprintln(writer, "Bye!")
			return nil, nil
		case "back":
			prev, backErr := engine.GoBack(ctx, state)
			if backErr != nil {
				fmt.Fprintf(writer, "Cannot go back: %v\n", backErr)
				continue
			}
			return prev, nil
		}

		value := parseAnswer(q, input)
		nextState, response, submitErr := engine.SubmitAnswer(ctx, state, q.ID, value)
		if submitErr != nil {
			return state, submitErr
		}
		if !response.IsValid {
			for _, msg := range response.ValidationErrors {
				fmt.Fprintf(writer, "  ! %s\n", msg)
			}
			state = nextState
			continue
		}
		if err == io.EOF {
			return nextState, io.EOF
		}
		return nextState, nil
	}
}

func (r *Runner) printPrompt(writer io.Writer, q domain.Question) {
	label := q.Label
	if q.Required {
		label += " *"
	}
	fmt.Fprintln(writer, label)
	for _, opt := range q.Options {
		marker := " "
		if opt.Disabled {
			marker = "x"
		}
		fmt.Fprintf(writer, "  [%s] %v  %s\n", marker, opt.Value, opt.Label)
	}
	if q.Placeholder != "" {
		fmt.Fprintf(writer, "(%s) ", q.Placeholder)
	}
	fmt.Fprint(writer, "> ")
}

// parseAnswer converts terminal input into the value shape the question
// expects. Dates stay as strings; the validator coerces them.
func parseAnswer(q domain.Question, input string) any {
	if input == "" {
		if q.DefaultValue != nil {
			return q.DefaultValue
		}
		return nil
	}

	switch q.Type {
	case domain.QuestionNumber, domain.QuestionRating:
		if n, err := strconv.ParseFloat(input, 64); err == nil {
			return n
		}
		return input
	case domain.QuestionCheckbox:
		clean := strings.ToLower(input)
		return clean == "y" || clean == "yes" || clean == "true" || clean == "1"
	case domain.QuestionMultiSelect, domain.QuestionCheckboxGroup:
		parts := strings.Split(input, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		return values
	}
	return input
}
