package domain

// Node represents one step in the quiz graph.
type Node struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	// Questions presented on this node, in display order.
	Questions []Question `json:"questions,omitempty" yaml:"questions,omitempty" mapstructure:"questions"`

	// Transitions are evaluated in declared order; the first match wins.
	// Transitions on an end node are ignored, not forbidden.
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`

	// IsStart marks the entry node. Exactly one per quiz (load-time check).
	IsStart bool `json:"isStart,omitempty" yaml:"isStart,omitempty" mapstructure:"isStart"`

	// IsEnd marks a sink: entering it completes the run.
	IsEnd bool `json:"isEnd,omitempty" yaml:"isEnd,omitempty" mapstructure:"isEnd"`

	// Metadata allows for extensible key-value pairs. Opaque to the engine.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
}
