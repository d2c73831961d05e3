// Package validate turns untrusted request payloads into validated records.
//
// Each entity declares a RuleSet: per field, an ordered list of rules that
// must all pass. Evaluation is exhaustive across fields so the caller can
// report every problem at once instead of failing on the first. Rules are
// pure functions of the input value; the package performs no I/O.
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Record is a normalized candidate record keyed by canonical field names.
type Record map[string]any

// Violation describes a single failed rule on a field.
type Violation struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return v.Message
}

// Rule checks a single value that is present on the record.
type Rule func(value any) error

// FieldRules binds a field to its ordered rule list.
//
// An optional field that is absent is valid regardless of its rules; an
// optional field that is present must satisfy all of them.
type FieldRules struct {
	Field    string
	Optional bool
	Rules    []Rule
}

// RuleSet is the declarative rule table for one entity.
type RuleSet []FieldRules

// Validate checks rec against the rule set and returns every violation
// found, one per offending field. A nil return means the record is valid.
func (rs RuleSet) Validate(rec Record) []Violation {
	var violations []Violation

	for _, fr := range rs {
		value, present := rec[fr.Field]
		if !present || value == nil {
			if !fr.Optional {
				violations = append(violations, Violation{
					Field:   fr.Field,
					Message: "required field is missing",
				})
			}
			continue
		}

		for _, rule := range fr.Rules {
			if err := rule(value); err != nil {
				violations = append(violations, Violation{
					Field:   fr.Field,
					Value:   displayValue(value),
					Message: err.Error(),
				})
				break
			}
		}
	}

	return violations
}

// String requires the value to be a JSON string.
func String() Rule {
	return func(value any) error {
		if _, ok := value.(string); !ok {
			return errors.New("must be a string")
		}
		return nil
	}
}

// Bool requires a real JSON boolean; the strings "true"/"false" do not pass.
func Bool() Rule {
	return func(value any) error {
		if _, ok := value.(bool); !ok {
			return errors.New("must be a boolean")
		}
		return nil
	}
}

// UUID requires a canonically formatted UUID string. Only shape is checked;
// existence of the referenced row is the store's concern.
func UUID() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a UUID string")
		}
		if _, err := uuid.Parse(s); err != nil {
			return errors.New("must be a valid UUID")
		}
		return nil
	}
}

// Email requires an RFC 5322 parseable address.
func Email() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a string")
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return errors.New("must be a valid email address")
		}
		return nil
	}
}

// Length requires a string of min to max characters, inclusive.
func Length(min, max int) Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a string")
		}
		if n := utf8.RuneCountInString(s); n < min || n > max {
			return fmt.Errorf("must be between %d and %d characters", min, max)
		}
		return nil
	}
}

// Alpha requires a string containing letters only.
func Alpha() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a string")
		}
		for _, r := range s {
			if !unicode.IsLetter(r) {
				return errors.New("must contain only letters")
			}
		}
		return nil
	}
}

// dateLayouts are the accepted date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
}

// Date requires a string parseable by one of the accepted date layouts.
func Date() Rule {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a date string")
		}
		if _, err := ParseDate(s); err != nil {
			return errors.New("must be a valid date (use YYYY-MM-DD)")
		}
		return nil
	}
}

// ParseDate parses s against the accepted date layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// displayValue renders a value for inclusion in a violation. Non-scalar
// values are elided rather than echoed back.
func displayValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool, float64:
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}
