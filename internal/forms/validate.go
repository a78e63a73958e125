package forms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coursecraft/instructor-console/internal/tree"
)

// Validate checks submitted form values against the field configuration of a
// node type. Returns field-keyed messages; an empty map means the form passed.
//
// Checks are form-level only: required presence, non-negative numbers, known
// select options. Anything deeper is the backend's job.
func Validate(t tree.NodeType, values map[string]any) map[string]string {
	return validate(t, values, false)
}

// ValidatePartial checks a partial update: only fields actually present are
// validated, so a patch that omits a required field still passes
func ValidatePartial(t tree.NodeType, values map[string]any) map[string]string {
	return validate(t, values, true)
}

func validate(t tree.NodeType, values map[string]any, partial bool) map[string]string {
	problems := make(map[string]string)

	for _, field := range FieldsFor(t) {
		value, present := values[field.Name]

		if partial && !present {
			continue
		}
		if field.Required && isEmpty(value) {
			problems[field.Name] = fmt.Sprintf("%s is required", field.Label)
			continue
		}
		if !present || value == nil {
			continue
		}

		switch field.Kind {
		case InputNumber:
			n, ok := toNumber(value)
			if !ok {
				problems[field.Name] = fmt.Sprintf("%s must be a number", field.Label)
			} else if field.Min != nil && n < *field.Min {
				problems[field.Name] = fmt.Sprintf("%s must be at least %v", field.Label, *field.Min)
			}
		case InputSelect:
			s, ok := value.(string)
			if ok && s != "" && !slices.Contains(field.Options, s) {
				problems[field.Name] = fmt.Sprintf("%s must be one of: %s", field.Label, strings.Join(field.Options, ", "))
			}
		case InputSwitch:
			if _, ok := value.(bool); !ok {
				problems[field.Name] = fmt.Sprintf("%s must be true or false", field.Label)
			}
		case InputList:
			items, ok := value.([]any)
			if !ok {
				if _, isStrings := value.([]string); !isStrings {
					problems[field.Name] = fmt.Sprintf("%s must be a list", field.Label)
				}
			} else if field.Required && len(items) == 0 {
				problems[field.Name] = fmt.Sprintf("%s must not be empty", field.Label)
			}
		}
	}

	// A question's correct option has to point inside its options list
	if t == tree.NodeTypeQuestion {
		if idx, ok := toNumber(values["correct_option"]); ok {
			if n := optionCount(values["options"]); n > 0 && int(idx) >= n {
				problems["correct_option"] = "Correct option must point at one of the answer options"
			}
		}
	}

	return problems
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func optionCount(value any) int {
	switch v := value.(type) {
	case []any:
		return len(v)
	case []string:
		return len(v)
	default:
		return 0
	}
}
