package engine

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Sentinel errors for the error taxonomy of §7.
var (
	// Config errors — surfaced at construction, never mid-run.
	ErrConfigInvalid = errors.New("engine: config invalid")

	// Arithmetic errors — a generator bug, not a data condition.
	ErrUnbalancedEntry = errors.New("engine: unbalanced journal entry")
	ErrDecimalOverflow = errors.New("engine: decimal intermediate overflow")

	// Unsatisfiable constraint errors.
	ErrInfeasibleOpeningBalance = errors.New("engine: infeasible opening balance allocation")
	ErrNoApproverFound          = errors.New("engine: no approver found within limit")

	// Missing prerequisite — recoverable, does not consume rate budget.
	ErrStrategyNotApplicable = errors.New("engine: anomaly strategy not applicable")

	// Rate-budget exhaustion — recoverable.
	ErrAnomalyCapReached = errors.New("engine: per-document anomaly cap reached")

	// FX gap.
	ErrMissingRate = errors.New("engine: fx rate not found and triangulation impossible")

	// Run-level cancellation.
	ErrRunCanceled = errors.New("engine: run canceled")
)

// ValidationError describes a single field-level configuration failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("engine: validation: field %q: %s", e.Field, e.Message)
}

// MultiError aggregates independent validation failures so a caller sees
// every problem in one pass rather than one-at-a-time. Built on
// go.uber.org/multierr, exactly the teacher's aggregation pattern.
type MultiError struct {
	err error
}

// NewMultiError returns an empty MultiError ready for Append calls.
func NewMultiError() *MultiError { return &MultiError{} }

// Append adds err to the aggregate. A nil err is a no-op.
func (m *MultiError) Append(err error) {
	m.err = multierr.Append(m.err, err)
}

// ErrOrNil returns nil if no errors were appended, else the aggregate error.
func (m *MultiError) ErrOrNil() error { return m.err }

// Len returns the number of aggregated errors.
func (m *MultiError) Len() int { return len(multierr.Errors(m.err)) }

// IsConfigError classifies err as a construction-time config failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) || asValidationError(err)
}

func asValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRecoverable classifies err as one of §7's recoverable conditions,
// which should be counted into diagnostics rather than abort the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrStrategyNotApplicable) || errors.Is(err, ErrAnomalyCapReached) ||
		errors.Is(err, ErrNoApproverFound)
}

// IsFatal classifies err as a run-stopping condition.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnbalancedEntry) ||
		errors.Is(err, ErrDecimalOverflow) ||
		errors.Is(err, ErrInfeasibleOpeningBalance) ||
		errors.Is(err, ErrRunCanceled)
}
