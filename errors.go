package accord

import "fmt"

var (
	// ErrInvalidConfig is the target matched by every ConfigError.
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// ErrNilCoordinator is the error used when a strategy needs a coordinator but has none.
	ErrNilCoordinator = fmt.Errorf("coordinator is nil")

	// ErrEmptyProposalID is the error used when a proposal has no id.
	ErrEmptyProposalID = fmt.Errorf("proposal id is empty")

	// ErrNoVotes is the error used when a ballot map is empty.
	ErrNoVotes = fmt.Errorf("no votes provided")

	// ErrThresholdRange is the error used when a decision threshold is outside its documented range.
	ErrThresholdRange = fmt.Errorf("threshold out of range")
)

// ConfigError reports a construction parameter outside its documented range.
// Construction fails fast; out-of-range values are never clamped.
type ConfigError struct {
	Param      string // parameter name
	Value      any    // offending value
	Constraint string // human-readable range, e.g. "in [0.51, 1.0]"
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: must be %s", e.Param, e.Value, e.Constraint)
}

// Unwrap makes every ConfigError match ErrInvalidConfig with errors.Is.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// PreconditionError reports a call that was refused before any state was
// mutated, such as proposing with an empty id or deciding over no votes.
type PreconditionError struct {
	Op  string // operation that was refused
	Err error  // cause; usually one of the sentinels above
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
