// Package errors provides error handling for the dissolution layer.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints (valid identifiers, accepted ranges)
//
// On top of that it defines the three error kinds every operation reports:
// InvalidState, UnknownIdentifier and InvalidArgument. Unmatched or empty
// text is never an error.
//
// Usage:
//
//	// Reject an out-of-range axis
//	return errors.NewInvalidState("edge_coherence = %.3f outside [0, 1]", v)
//
//	// Unknown style, with the valid ids attached as a hint
//	return errors.NewUnknownIdentifier("style", id, validIDs)
//
//	// Transport layers map any error to its kind
//	switch errors.KindOf(err) { ... }
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Sentinel kinds. Use these with errors.Is(); the constructors below wrap
// them so the kind survives any amount of added context.
var (
	// ErrInvalidState indicates a state with the wrong dimensionality or an axis outside [0, 1]
	ErrInvalidState = New("invalid state")

	// ErrUnknownIdentifier indicates a style, taxonomy entry or preset id that is not registered
	ErrUnknownIdentifier = New("unknown identifier")

	// ErrInvalidArgument indicates a malformed numeric or enumerated parameter
	ErrInvalidArgument = New("invalid argument")
)

// Kind names an error class as reported to callers.
type Kind string

const (
	KindNone              Kind = ""
	KindInvalidState      Kind = "InvalidState"
	KindUnknownIdentifier Kind = "UnknownIdentifier"
	KindInvalidArgument   Kind = "InvalidArgument"
	KindInternal          Kind = "Internal"
)

// KindOf classifies err. Errors that wrap none of the sentinels are Internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case Is(err, ErrInvalidState):
		return KindInvalidState
	case Is(err, ErrUnknownIdentifier):
		return KindUnknownIdentifier
	case Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindInternal
	}
}

// NewInvalidState creates an invalid-state error with a formatted message
func NewInvalidState(format string, args ...interface{}) error {
	return Wrap(ErrInvalidState, Newf(format, args...).Error())
}

// NewInvalidArgument creates an invalid-argument error with a formatted message
func NewInvalidArgument(format string, args ...interface{}) error {
	return Wrap(ErrInvalidArgument, Newf(format, args...).Error())
}

// NewUnknownIdentifier creates an unknown-identifier error for an id of the
// given kind ("style", "preset", ...). When valid is non-empty the accepted
// ids are attached as a hint.
func NewUnknownIdentifier(kind, id string, valid []string) error {
	err := Wrapf(ErrUnknownIdentifier, "%s %q", kind, id)
	if len(valid) > 0 {
		err = WithHintf(err, "valid %s ids: %s", kind, strings.Join(valid, ", "))
	}
	return err
}

// IsInvalidState checks if an error is or wraps ErrInvalidState
func IsInvalidState(err error) bool {
	return err != nil && Is(err, ErrInvalidState)
}

// IsUnknownIdentifier checks if an error is or wraps ErrUnknownIdentifier
func IsUnknownIdentifier(err error) bool {
	return err != nil && Is(err, ErrUnknownIdentifier)
}

// IsInvalidArgument checks if an error is or wraps ErrInvalidArgument
func IsInvalidArgument(err error) bool {
	return err != nil && Is(err, ErrInvalidArgument)
}
