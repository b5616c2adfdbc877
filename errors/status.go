package errors

import stderrors "errors"

// Status is the flat result code returned across the boundary.
type Status int32

const (
	StatusSuccess Status = 0
	StatusMisuse  Status = 1
	StatusError   Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusMisuse:
		return "misuse"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Err converts a status back into an error for Go-side consumers. It
// returns nil for StatusSuccess.
func (s Status) Err(detail string) error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusMisuse:
		return &Error{Phase: PhaseRuntime, Kind: KindInvalidInput, Detail: detail, Value: s}
	default:
		return &Error{Phase: PhaseRuntime, Kind: KindEngine, Detail: detail, Value: s}
	}
}

var misuseKinds = map[Kind]bool{
	KindReleased:       true,
	KindBorrowed:       true,
	KindNotFound:       true,
	KindInvalidInput:   true,
	KindNilPointer:     true,
	KindNotInitialized: true,
}

// StatusOf maps err to the status code a consumer sees. Caller contract
// violations map to StatusMisuse, everything else to StatusError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var e *Error
	if stderrors.As(err, &e) && misuseKinds[e.Kind] {
		return StatusMisuse
	}
	return StatusError
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
