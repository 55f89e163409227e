package domain

import "time"

// QuestionType discriminates the question variants.
type QuestionType string

// Question kind constants. These are the wire values used in quiz documents.
const (
	QuestionText          QuestionType = "text"
	QuestionNumber        QuestionType = "number"
	QuestionSelect        QuestionType = "select"
	QuestionMultiSelect   QuestionType = "multiSelect"
	QuestionCheckbox      QuestionType = "checkbox"
	QuestionCheckboxGroup QuestionType = "checkboxGroup"
	QuestionDate          QuestionType = "date"
	QuestionRating        QuestionType = "rating"
	QuestionFile          QuestionType = "file"
	QuestionSignature     QuestionType = "signature"
)

// KnownQuestionType reports whether t is one of the supported kinds.
// Unknown kinds are a load-time schema rejection, never a runtime panic.
func KnownQuestionType(t QuestionType) bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionSelect, QuestionMultiSelect,
		QuestionCheckbox, QuestionCheckboxGroup, QuestionDate, QuestionRating,
		QuestionFile, QuestionSignature:
		return true
	}
	return false
}

// HasOptions reports whether the kind selects from a declared option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionSelect || t == QuestionMultiSelect || t == QuestionCheckboxGroup
}

// MultiValued reports whether answers for the kind are lists rather than scalars.
func (t QuestionType) MultiValued() bool {
	return t == QuestionMultiSelect || t == QuestionCheckboxGroup
}

// Question is the tagged variant over the ten supported kinds.
// Type selects which optional fields and which Rule fields apply; dispatch on
// it is exhaustive in the answer validator and the schema validator.
type Question struct {
	ID          string       `json:"id" yaml:"id" mapstructure:"id"`
	Type        QuestionType `json:"type" yaml:"type" mapstructure:"type"`
	Label       string       `json:"label" yaml:"label" mapstructure:"label"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Required    bool         `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty" mapstructure:"placeholder"`

	// Options applies to select, multiSelect and checkboxGroup.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`

	// Multiple applies to file questions: it toggles scalar vs list answers.
	Multiple bool `json:"multiple,omitempty" yaml:"multiple,omitempty" mapstructure:"multiple"`

	// DefaultValue is the pre-filled answer, matching the kind's value shape.
	DefaultValue any `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" mapstructure:"defaultValue"`

	// Validation holds the kind-specific rule. Nil means only the shape and
	// Required checks apply.
	Validation *Rule `json:"validation,omitempty" yaml:"validation,omitempty" mapstructure:"validation"`
}

// Option is one selectable choice of an option-backed question.
// Option values must be unique within one question (load-time invariant).
type Option struct {
	Value    any    `json:"value" yaml:"value" mapstructure:"value"` // string or number
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
}

// Rule carries the per-kind validation constraints. All bounds are optional;
// a nil pointer means "no bound". Only the fields matching the question's
// kind are consulted.
type Rule struct {
	// text
	MinLength    *int   `json:"minLength,omitempty" yaml:"minLength,omitempty" mapstructure:"minLength"`
	MaxLength    *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty" mapstructure:"maxLength"`
	Pattern      string `json:"pattern,omitempty" yaml:"pattern,omitempty" mapstructure:"pattern"`
	PatternError string `json:"patternError,omitempty" yaml:"patternError,omitempty" mapstructure:"patternError"`

	// number, rating
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty" mapstructure:"min"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
	Integer bool     `json:"integer,omitempty" yaml:"integer,omitempty" mapstructure:"integer"`
	Step    *float64 `json:"step,omitempty" yaml:"step,omitempty" mapstructure:"step"`

	// multiSelect, checkboxGroup
	MinSelected *int `json:"minSelected,omitempty" yaml:"minSelected,omitempty" mapstructure:"minSelected"`
	MaxSelected *int `json:"maxSelected,omitempty" yaml:"maxSelected,omitempty" mapstructure:"maxSelected"`

	// date
	MinDate         *time.Time  `json:"minDate,omitempty" yaml:"minDate,omitempty" mapstructure:"minDate"`
	MaxDate         *time.Time  `json:"maxDate,omitempty" yaml:"maxDate,omitempty" mapstructure:"maxDate"`
	DisallowedDates []time.Time `json:"disallowedDates,omitempty" yaml:"disallowedDates,omitempty" mapstructure:"disallowedDates"`

	// file
	MaxSize      *int64   `json:"maxSize,omitempty" yaml:"maxSize,omitempty" mapstructure:"maxSize"`
	AllowedTypes []string `json:"allowedTypes,omitempty" yaml:"allowedTypes,omitempty" mapstructure:"allowedTypes"`

	// signature
	MinWidth *int `json:"minWidth,omitempty" yaml:"minWidth,omitempty" mapstructure:"minWidth"`
	MaxWidth *int `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty" mapstructure:"maxWidth"`
	Required bool `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
}

// File is the value shape for file questions.
type File struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Size int64  `json:"size" yaml:"size" mapstructure:"size"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"` // mime type or extension
}

// Signature is the value shape for signature questions.
type Signature struct {
	Data  string `json:"data" yaml:"data" mapstructure:"data"` // encoded stroke data (e.g. data URL)
	Width int    `json:"width,omitempty" yaml:"width,omitempty" mapstructure:"width"`
}
