package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEvent is returned by an EventSource that has nothing to offer on
	// this poll. The sweep consumes it; callers of Execute never see it.
	ErrNoEvent = errors.New("no event")

	// ErrDuplicateEntryPoint is matched by errors returned from
	// RegisterEntryPoint when the identifier is already taken.
	ErrDuplicateEntryPoint = errors.New("duplicate entry point")

	// ErrMissingEntryPoint is matched by errors returned when a flow is run
	// with an identifier it does not know.
	ErrMissingEntryPoint = errors.New("missing entry point")

	// ErrNilFlow is returned when the engine is asked to run a nil flow,
	// either directly or through SwitchTo.
	ErrNilFlow = errors.New("nil flow")

	// ErrBadArgs is returned by typed entry points when the caller-supplied
	// arguments do not fit their signature.
	ErrBadArgs = errors.New("bad entry point arguments")

	// ErrSourceClosed is returned by a ChanSource whose channel was closed.
	ErrSourceClosed = errors.New("event source closed")
)

// DuplicateEntryPointError reports an attempt to register an entry point
// under an identifier that is already present.
type DuplicateEntryPointError struct {
	Flow  string
	Entry EntryID
}

func (e *DuplicateEntryPointError) Error() string {
	return fmt.Sprintf("entry point %q is already registered in flow %q", e.Entry, e.Flow)
}

func (e *DuplicateEntryPointError) Is(target error) bool {
	return target == ErrDuplicateEntryPoint
}

// MissingEntryPointError reports a run request for an unknown entry point.
type MissingEntryPointError struct {
	Flow  string
	Entry EntryID
}

func (e *MissingEntryPointError) Error() string {
	return fmt.Sprintf("entry point %q does not exist in flow %q", e.Entry, e.Flow)
}

func (e *MissingEntryPointError) Is(target error) bool {
	return target == ErrMissingEntryPoint
}

// ErrorMatcher decides whether an exception action applies to err.
type ErrorMatcher func(err error) bool

// MatchIs matches errors for which errors.Is holds against any of targets.
func MatchIs(targets ...error) ErrorMatcher {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// MatchAs matches errors whose chain contains a value of type T.
func MatchAs[T error]() ErrorMatcher {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// MatchAll matches every error.
func MatchAll() ErrorMatcher {
	return func(error) bool { return true }
}
