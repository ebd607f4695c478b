package chain

import "errors"

// Kind classifies a chain error the way spec's status codes used to.
type Kind int

const (
	KindInvalidArgument Kind = iota
	KindCapacityReached
	KindParseFailure
	KindIOFailure
	KindConflictDetected
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindCapacityReached:
		return "capacity_reached"
	case KindParseFailure:
		return "parse_failure"
	case KindIOFailure:
		return "io_failure"
	case KindConflictDetected:
		return "conflict_detected"
	default:
		return "unknown"
	}
}

// Error wraps a Kind so callers can branch with errors.As without string matching.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is lets errors.Is(err, chain.ErrCapacityReached) work against a bare Kind sentinel.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

var (
	ErrCapacityReached  = &Error{Kind: KindCapacityReached, Op: "chain"}
	ErrConflictDetected = &Error{Kind: KindConflictDetected, Op: "chain"}
)
