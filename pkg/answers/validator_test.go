package answers_test

import (
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/answers"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func options(values ...any) []domain.Option {
	out := make([]domain.Option, len(values))
	for i, v := range values {
		out[i] = domain.Option{Value: v}
	}
	return out
}

func TestValidate_RequiredAndEmpty(t *testing.T) {
	required := domain.Question{ID: "name", Type: domain.QuestionText, Required: true}
	optional := domain.Question{ID: "nick", Type: domain.QuestionText}

	assert.False(t, answers.Validate(required, "").IsValid)
	assert.False(t, answers.Validate(required, nil).IsValid)
	assert.True(t, answers.Validate(optional, "").IsValid)
	assert.True(t, answers.Validate(optional, nil).IsValid)

	// An empty list counts as empty for multi-valued questions.
	multi := domain.Question{ID: "tags", Type: domain.QuestionMultiSelect, Required: true, Options: options("a")}
	assert.False(t, answers.Validate(multi, []any{}).IsValid)
}

func TestValidate_Text(t *testing.T) {
	q := domain.Question{
		ID:   "bio",
		Type: domain.QuestionText,
		Validation: &domain.Rule{
			MinLength:    ptr(3),
			MaxLength:    ptr(10),
			Pattern:      `^[a-z]+$`,
			PatternError: "lowercase letters only",
		},
	}

	assert.True(t, answers.Validate(q, "hello").IsValid)
	assert.False(t, answers.Validate(q, "hi").IsValid)
	assert.False(t, answers.Validate(q, "waytoolonganswer").IsValid)

	res := answers.Validate(q, "HELLO")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "lowercase letters only")

	assert.False(t, answers.Validate(q, 42).IsValid)
}

func TestValidate_Number(t *testing.T) {
	q := domain.Question{
		ID:   "qty",
		Type: domain.QuestionNumber,
		Validation: &domain.Rule{
			Min:     ptr(10.0),
			Max:     ptr(100.0),
			Integer: true,
			Step:    ptr(5.0),
		},
	}

	assert.True(t, answers.Validate(q, float64(25)).IsValid)
	assert.False(t, answers.Validate(q, float64(5)).IsValid)    // below min
	assert.False(t, answers.Validate(q, float64(200)).IsValid)  // above max
	assert.False(t, answers.Validate(q, 25.5).IsValid)          // not integer
	assert.False(t, answers.Validate(q, float64(27)).IsValid)   // off-step
	assert.False(t, answers.Validate(q, "not a number").IsValid)
}

func TestValidate_SelectAndMultiSelect(t *testing.T) {
	sel := domain.Question{ID: "plan", Type: domain.QuestionSelect, Options: options("free", "pro")}
	assert.True(t, answers.Validate(sel, "pro").IsValid)
	assert.False(t, answers.Validate(sel, "enterprise").IsValid)
	assert.False(t, answers.Validate(sel, []any{"pro"}).IsValid)

	multi := domain.Question{
		ID:      "langs",
		Type:    domain.QuestionMultiSelect,
		Options: options("go", "rust", "zig"),
		Validation: &domain.Rule{
			MinSelected: ptr(1),
			MaxSelected: ptr(2),
		},
	}
	assert.True(t, answers.Validate(multi, []any{"go", "rust"}).IsValid)
	assert.False(t, answers.Validate(multi, []any{"go", "rust", "zig"}).IsValid)
	assert.False(t, answers.Validate(multi, []any{"cobol"}).IsValid)
	assert.False(t, answers.Validate(multi, "go").IsValid)

	// A []string crosses the reflection path, not just []any.
	assert.True(t, answers.Validate(multi, []string{"go"}).IsValid)
}

func TestValidate_Checkbox(t *testing.T) {
	q := domain.Question{ID: "terms", Type: domain.QuestionCheckbox}
	assert.True(t, answers.Validate(q, true).IsValid)
	assert.False(t, answers.Validate(q, "yes").IsValid)
}

func TestValidate_Date(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	blocked := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	q := domain.Question{
		ID:   "visit",
		Type: domain.QuestionDate,
		Validation: &domain.Rule{
			MinDate:         &min,
			MaxDate:         &max,
			DisallowedDates: []time.Time{blocked},
		},
	}

	assert.True(t, answers.Validate(q, "2024-03-10").IsValid)
	assert.False(t, answers.Validate(q, "2023-12-31").IsValid)
	assert.False(t, answers.Validate(q, "2025-01-01").IsValid)
	assert.False(t, answers.Validate(q, "not a date").IsValid)

	// Disallowed dates match by calendar day regardless of time of day.
	assert.False(t, answers.Validate(q, "2024-06-15T18:30:00Z").IsValid)
}

func TestValidate_Rating(t *testing.T) {
	q := domain.Question{ID: "stars", Type: domain.QuestionRating}

	// Default scale is 1..5.
	assert.True(t, answers.Validate(q, float64(3)).IsValid)
	assert.False(t, answers.Validate(q, float64(0)).IsValid)
	assert.False(t, answers.Validate(q, float64(6)).IsValid)

	wide := domain.Question{
		ID:         "nps",
		Type:       domain.QuestionRating,
		Validation: &domain.Rule{Min: ptr(0.0), Max: ptr(10.0)},
	}
	assert.True(t, answers.Validate(wide, float64(10)).IsValid)
}

func TestValidate_File(t *testing.T) {
	q := domain.Question{
		ID:   "resume",
		Type: domain.QuestionFile,
		Validation: &domain.Rule{
			MaxSize:      ptr(int64(1024)),
			AllowedTypes: []string{".pdf", "image/*"},
		},
	}

	assert.True(t, answers.Validate(q, domain.File{Name: "cv.pdf", Size: 512, Type: "application/pdf"}).IsValid)
	assert.True(t, answers.Validate(q, domain.File{Name: "photo.jpg", Size: 100, Type: "image/jpeg"}).IsValid)
	assert.False(t, answers.Validate(q, domain.File{Name: "cv.pdf", Size: 4096, Type: "application/pdf"}).IsValid)
	assert.False(t, answers.Validate(q, domain.File{Name: "virus.exe", Size: 10, Type: "application/octet-stream"}).IsValid)

	// JSON-shaped map values are coerced.
	res := answers.Validate(q, map[string]any{"name": "cv.pdf", "size": 512, "type": "application/pdf"})
	assert.True(t, res.IsValid)

	// Multiple files only when the question allows it.
	assert.False(t, answers.Validate(q, []any{domain.File{Name: "a.pdf"}}).IsValid)
	multi := q
	multi.Multiple = true
	assert.True(t, answers.Validate(multi, []any{
		domain.File{Name: "a.pdf", Size: 1, Type: "application/pdf"},
		domain.File{Name: "b.pdf", Size: 1, Type: "application/pdf"},
	}).IsValid)
}

func TestValidate_Signature(t *testing.T) {
	q := domain.Question{
		ID:   "sig",
		Type: domain.QuestionSignature,
		Validation: &domain.Rule{
			Required: true,
			MinWidth: ptr(100),
		},
	}

	assert.True(t, answers.Validate(q, domain.Signature{Data: "data:image/png;base64,...", Width: 300}).IsValid)
	assert.False(t, answers.Validate(q, domain.Signature{Data: "data:image/png;base64,...", Width: 50}).IsValid)

	// An empty signature on a rule-required question fails even though the
	// question itself is not marked required.
	assert.False(t, answers.Validate(q, domain.Signature{}).IsValid)
	assert.False(t, answers.Validate(q, nil).IsValid)
}

func TestNewResponse(t *testing.T) {
	q := domain.Question{ID: "age", Type: domain.QuestionNumber, Required: true}

	resp := answers.NewResponse(q, float64(42))
	assert.Equal(t, "age", resp.QuestionID)
	assert.True(t, resp.IsValid)
	assert.Empty(t, resp.ValidationErrors)
	assert.False(t, resp.Timestamp.IsZero())

	bad := answers.NewResponse(q, "old")
	assert.False(t, bad.IsValid)
	assert.NotEmpty(t, bad.ValidationErrors)
}
