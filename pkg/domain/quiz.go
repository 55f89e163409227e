package domain

// Settings holds presentation and policy toggles declared by the quiz author.
// The engine itself only consumes AllowBackTracking; the rest is surfaced to
// the embedding host (UI themes, progress bars, time limits).
type Settings struct {
	AllowBackTracking bool   `json:"allowBackTracking,omitempty" yaml:"allowBackTracking,omitempty" mapstructure:"allowBackTracking"`
	ShowProgressBar   bool   `json:"showProgressBar,omitempty" yaml:"showProgressBar,omitempty" mapstructure:"showProgressBar"`
	ShuffleQuestions  bool   `json:"shuffleQuestions,omitempty" yaml:"shuffleQuestions,omitempty" mapstructure:"shuffleQuestions"`
	Theme             string `json:"theme,omitempty" yaml:"theme,omitempty" mapstructure:"theme"`
	TimeLimit         int    `json:"timeLimit,omitempty" yaml:"timeLimit,omitempty" mapstructure:"timeLimit"` // seconds, enforced by the host
}

// Quiz is a full questionnaire graph.
type Quiz struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`

	// Version is an opaque author-supplied string, never interpreted.
	Version string `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`

	Nodes    []Node         `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Settings *Settings      `json:"settings,omitempty" yaml:"settings,omitempty" mapstructure:"settings"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
}

// StartNode returns the node flagged IsStart, or nil when absent.
// Validated quizzes have exactly one.
func (q *Quiz) StartNode() *Node {
	for i := range q.Nodes {
		if q.Nodes[i].IsStart {
			return &q.Nodes[i]
		}
	}
	return nil
}

// NodeByID returns the node with the given id, or nil.
func (q *Quiz) NodeByID(id string) *Node {
	for i := range q.Nodes {
		if q.Nodes[i].ID == id {
			return &q.Nodes[i]
		}
	}
	return nil
}

// QuestionByID returns the question with the given id from any node, or nil.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Nodes {
		for j := range q.Nodes[i].Questions {
			if q.Nodes[i].Questions[j].ID == id {
				return &q.Nodes[i].Questions[j]
			}
		}
	}
	return nil
}

// BackTrackingAllowed reports whether the quiz enables goBack.
func (q *Quiz) BackTrackingAllowed() bool {
	return q.Settings != nil && q.Settings.AllowBackTracking
}
