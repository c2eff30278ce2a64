package survey

import "strings"

// Kind classifies a validation failure.
type Kind string

const (
	MissingField Kind = "missing_field"
	InvalidEmail Kind = "invalid_email"
	OutOfRange   Kind = "out_of_range"
	InvalidPick  Kind = "invalid_pick"
	TooLong      Kind = "too_long"
)

// ValidationError is a single user-correctable problem with a submission.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrors is the ordered list of every rule a submission broke.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable messages in rule order.
func (e ValidationErrors) Messages() []string {
	out := make([]string, len(e))
	for i, ve := range e {
		out[i] = ve.Message
	}
	return out
}

// Has reports whether any error of kind k was recorded.
func (e ValidationErrors) Has(k Kind) bool {
	for _, ve := range e {
		if ve.Kind == k {
			return true
		}
	}
	return false
}
