package answers

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

func checkText(q domain.Question, value any) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"answer must be text"}
	}

	rule := q.Validation
	if rule == nil {
		return nil
	}

	var errs []string
	length := len([]rune(s))
	if rule.MinLength != nil && length < *rule.MinLength {
		errs = append(errs, fmt.Sprintf("must be at least %d characters", *rule.MinLength))
	}
	if rule.MaxLength != nil && length > *rule.MaxLength {
		errs = append(errs, fmt.Sprintf("must be at most %d characters", *rule.MaxLength))
	}
	if rule.Pattern != "" {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil || !re.MatchString(s) {
			msg := rule.PatternError
			if msg == "" {
				msg = "does not match the expected format"
			}
			errs = append(errs, msg)
		}
	}
	return errs
}

func checkNumber(q domain.Question, value any) []string {
	n, ok := domain.Number(value)
	if !ok {
		return []string{"answer must be a number"}
	}

	rule := q.Validation
	if rule == nil {
		return nil
	}

	var errs []string
	if rule.Min != nil && n < *rule.Min {
		errs = append(errs, fmt.Sprintf("must be at least %v", *rule.Min))
	}
	if rule.Max != nil && n > *rule.Max {
		errs = append(errs, fmt.Sprintf("must be at most %v", *rule.Max))
	}
	if rule.Integer && n != math.Trunc(n) {
		errs = append(errs, "must be a whole number")
	}
	if rule.Step != nil && *rule.Step > 0 {
		base := 0.0
		if rule.Min != nil {
			base = *rule.Min
		}
		steps := (n - base) / *rule.Step
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			errs = append(errs, fmt.Sprintf("must be in increments of %v", *rule.Step))
		}
	}
	return errs
}

func checkSelect(q domain.Question, value any) []string {
	switch value.(type) {
	case string:
	default:
		if _, ok := domain.Number(value); !ok {
			return []string{"answer must be a single choice"}
		}
	}
	if !optionExists(q.Options, value) {
		return []string{"answer is not one of the available options"}
	}
	return nil
}

func checkMultiSelect(q domain.Question, value any) []string {
	list, ok := domain.List(value)
	if !ok {
		return []string{"answer must be a list of choices"}
	}

	var errs []string
	for _, elem := range list {
		if !optionExists(q.Options, elem) {
			errs = append(errs, fmt.Sprintf("%v is not one of the available options", elem))
		}
	}

	if rule := q.Validation; rule != nil {
		if rule.MinSelected != nil && len(list) < *rule.MinSelected {
			errs = append(errs, fmt.Sprintf("select at least %d options", *rule.MinSelected))
		}
		if rule.MaxSelected != nil && len(list) > *rule.MaxSelected {
			errs = append(errs, fmt.Sprintf("select at most %d options", *rule.MaxSelected))
		}
	}
	return errs
}

func checkCheckbox(value any) []string {
	if _, ok := value.(bool); !ok {
		return []string{"answer must be true or false"}
	}
	return nil
}

func checkDate(q domain.Question, value any) []string {
	t, ok := domain.Instant(value)
	if !ok {
		return []string{"answer must be a date"}
	}

	rule := q.Validation
	if rule == nil {
		return nil
	}

	var errs []string
	if rule.MinDate != nil && t.Before(*rule.MinDate) {
		errs = append(errs, fmt.Sprintf("must not be before %s", rule.MinDate.Format("2006-01-02")))
	}
	if rule.MaxDate != nil && t.After(*rule.MaxDate) {
		errs = append(errs, fmt.Sprintf("must not be after %s", rule.MaxDate.Format("2006-01-02")))
	}
	for _, d := range rule.DisallowedDates {
		if domain.SameDay(t, d) {
			errs = append(errs, fmt.Sprintf("%s is not available", d.Format("2006-01-02")))
			break
		}
	}
	return errs
}

// Rating bounds default to the conventional 1..5 scale when no rule narrows
// them.
func checkRating(q domain.Question, value any) []string {
	n, ok := domain.Number(value)
	if !ok {
		return []string{"answer must be a number"}
	}

	min, max := 1.0, 5.0
	if rule := q.Validation; rule != nil {
		if rule.Min != nil {
			min = *rule.Min
		}
		if rule.Max != nil {
			max = *rule.Max
		}
	}

	var errs []string
	if n < min {
		errs = append(errs, fmt.Sprintf("rating must be at least %v", min))
	}
	if n > max {
		errs = append(errs, fmt.Sprintf("rating must be at most %v", max))
	}
	return errs
}

func checkFile(q domain.Question, value any) []string {
	files, errs := coerceFiles(q, value)
	if errs != nil {
		return errs
	}

	rule := q.Validation
	if rule == nil {
		return nil
	}

	for _, f := range files {
		if rule.MaxSize != nil && f.Size > *rule.MaxSize {
			errs = append(errs, fmt.Sprintf("%s exceeds the maximum size of %d bytes", f.Name, *rule.MaxSize))
		}
		if len(rule.AllowedTypes) > 0 && !typeAllowed(f, rule.AllowedTypes) {
			errs = append(errs, fmt.Sprintf("%s is not an accepted file type", f.Name))
		}
	}
	return errs
}

func checkSignature(q domain.Question, value any) []string {
	sig, ok := coerceSignature(value)
	if !ok {
		return []string{"answer must be a signature"}
	}

	rule := q.Validation
	if rule == nil {
		return nil
	}

	var errs []string
	if rule.Required && sig.Data == "" {
		errs = append(errs, "a signature is required")
	}
	if rule.MinWidth != nil && sig.Width < *rule.MinWidth {
		errs = append(errs, fmt.Sprintf("signature must be at least %d wide", *rule.MinWidth))
	}
	if rule.MaxWidth != nil && sig.Width > *rule.MaxWidth {
		errs = append(errs, fmt.Sprintf("signature must be at most %d wide", *rule.MaxWidth))
	}
	return errs
}

func optionExists(options []domain.Option, value any) bool {
	for _, opt := range options {
		if domain.Equal(opt.Value, value) {
			return true
		}
	}
	return false
}

// typeAllowed matches either the full mime type (image/png), its family
// (image/*), or a bare extension (.png) against the file's declared type and
// name.
func typeAllowed(f domain.File, allowed []string) bool {
	for _, a := range allowed {
		switch {
		case strings.HasPrefix(a, "."):
			if strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(a)) {
				return true
			}
		case strings.HasSuffix(a, "/*"):
			if strings.HasPrefix(f.Type, strings.TrimSuffix(a, "*")) {
				return true
			}
		default:
			if strings.EqualFold(f.Type, a) {
				return true
			}
		}
	}
	return false
}

// coerceFiles normalizes the accepted file value shapes: a single File (or
// map) for scalar questions, a list of them when Multiple is set.
func coerceFiles(q domain.Question, value any) ([]domain.File, []string) {
	if q.Multiple {
		list, ok := domain.List(value)
		if !ok {
			return nil, []string{"answer must be a list of files"}
		}
		files := make([]domain.File, 0, len(list))
		for _, elem := range list {
			f, ok := coerceFile(elem)
			if !ok {
				return nil, []string{"answer must be a list of files"}
			}
			files = append(files, f)
		}
		return files, nil
	}

	f, ok := coerceFile(value)
	if !ok {
		return nil, []string{"answer must be a file"}
	}
	return []domain.File{f}, nil
}

func coerceFile(value any) (domain.File, bool) {
	switch f := value.(type) {
	case domain.File:
		return f, true
	case *domain.File:
		if f != nil {
			return *f, true
		}
	case map[string]any:
		var out domain.File
		if err := mapstructure.WeakDecode(f, &out); err == nil && out.Name != "" {
			return out, true
		}
	}
	return domain.File{}, false
}

func coerceSignature(value any) (domain.Signature, bool) {
	switch s := value.(type) {
	case domain.Signature:
		return s, true
	case *domain.Signature:
		if s != nil {
			return *s, true
		}
	case map[string]any:
		var out domain.Signature
		if err := mapstructure.WeakDecode(s, &out); err == nil && out.Data != "" {
			return out, true
		}
	}
	return domain.Signature{}, false
}
