package autosig

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by this package matches one of them
// with errors.Is.
var (
	ErrSignature       = errors.New("invalid signature")
	ErrBind            = errors.New("bind signature")
	ErrArgument        = errors.New("invalid arguments")
	ErrMissingArgument = errors.New("missing argument")
	ErrValidation      = errors.New("validation failed")
	ErrType            = errors.New("type mismatch")
)

// Kind identifies what a ValidationError refers to.
type Kind int

const (
	KindParam     Kind = iota // a single parameter
	KindSignature             // the signature-level check
	KindReturn                // the return value
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindParam:
		return "param"
	case KindSignature:
		return "signature"
	case KindReturn:
		return "return"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValidationError reports a value rejected at call time.
type ValidationError struct {
	Kind  Kind
	Name  string // parameter name, or the function name for KindSignature
	Value any
	Err   error
}

// Error returns a message naming the offending parameter and value.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindSignature:
		return fmt.Sprintf("%s: signature of %s: %v", ErrValidation, e.Name, e.Err)
	case KindReturn:
		return fmt.Sprintf("%s: return value = %v: %v", ErrValidation, e.Value, e.Err)
	default:
		return fmt.Sprintf("%s: %s = %v: %v", ErrValidation, e.Name, e.Value, e.Err)
	}
}

// Unwrap returns the validator's failure.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MissingArgumentError reports mandatory parameters omitted from a call.
type MissingArgumentError struct {
	Func  string
	Names []string
}

// Error lists the missing parameters.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMissingArgument, e.Func, strings.Join(e.Names, ", "))
}

// Is reports whether target is ErrMissingArgument.
func (e *MissingArgumentError) Is(target error) bool { return target == ErrMissingArgument }

// TypeError is the cause of a failed instance check.
type TypeError struct {
	Want string
	Got  string
}

// Error follows the "should be T, U found instead" phrasing.
func (e *TypeError) Error() string {
	return fmt.Sprintf("should be %s, %s found instead", e.Want, e.Got)
}

// Is reports whether target is ErrType.
func (e *TypeError) Is(target error) bool { return target == ErrType }
