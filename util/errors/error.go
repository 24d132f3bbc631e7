package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
)

// MaxStackDepth the maximum number of frames collected when creating a new Error.
var MaxStackDepth = 50

// Error wraps one or more reasons and attaches the callers at the time of creation.
//
// Use it for unexpected errors and programmer errors (malformed form declarations,
// invalid comparisons, database failures in external hooks). Errors that only
// describe invalid user input are plain values and must not use this type.
type Error struct {
	reasons      []error
	callers      []uintptr
	callerFrames FrameStack
}

// New create a new `*Error`. Collects the function callers.
//
// If the given reason is already of type `*Error`, returns it without change.
// If the given reason is `nil`, returns `nil`. `nil` elements of `[]error` and `[]any`
// are ignored. Any other non-error reason is wrapped in a `Reason`.
func New(reason any) error {
	return NewSkip(reason, 3)
}

// NewSkip create a new `*Error`, skipping the given amount of frames
// when collecting the callers.
func NewSkip(reason any, skip int) error {
	if reason == nil {
		return nil
	}
	if r, ok := reason.(*Error); ok {
		return r
	}
	callers := make([]uintptr, MaxStackDepth)
	n := runtime.Callers(skip, callers)

	return &Error{
		reasons: toErr(reason),
		callers: callers[:n],
	}
}

// Errorf is a shortcut for `errors.New(fmt.Errorf("format", args))`.
func Errorf(format string, args ...any) error {
	return NewSkip(fmt.Errorf(format, args...), 3)
}

// Is reports whether any error in err's tree matches target. Alias of the standard `errors.Is`.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. Alias of the standard `errors.As`.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func toErr(reason any) []error {
	errs := []error{}
	switch r := reason.(type) {
	case error:
		errs = append(errs, r)
	case []error:
		errs = append(errs, lo.Filter(r, func(e error, _ int) bool {
			return e != nil
		})...)
	case []any:
		for _, e := range r {
			if e == nil {
				continue
			}
			errs = append(errs, toErr(e)...)
		}
	default:
		errs = append(errs, Reason{reason: r})
	}
	return errs
}

func (e *Error) Error() string {
	if len(e.reasons) == 0 {
		return "goyave.dev/formrules/util/errors.Error: the Error doesn't wrap any reason"
	}
	return strings.Join(lo.Map(e.reasons, func(e error, _ int) string {
		if e == nil {
			return "<nil>"
		}
		return e.Error()
	}), "\n")
}

// String returns the error message followed by the stack trace.
func (e *Error) String() string {
	if len(e.reasons) == 1 {
		if err, ok := e.reasons[0].(*Error); ok {
			return err.String()
		}
	}
	return e.Error() + "\n" + e.StackFrames().String()
}

// FileLine returns the file path and line at which the error was created.
func (e *Error) FileLine() string {
	frames := e.StackFrames()
	if len(frames) > 0 {
		f := frames[0]
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return "[unknown file line]"
}

func (e *Error) Unwrap() []error {
	return e.reasons
}

// Len returns the number of underlying reasons.
func (e *Error) Len() int {
	return len(e.reasons)
}

// Callers returns the function callers collected at the time of creation of the `Error`.
func (e *Error) Callers() []uintptr {
	return e.callers
}

// StackFrames returns the parsed `FrameStack` for this error.
func (e *Error) StackFrames() FrameStack {
	if e.callerFrames == nil {
		frames := runtime.CallersFrames(e.callers)
		e.callerFrames = make(FrameStack, 0, len(e.callers))
		for frame, more := frames.Next(); more; frame, more = frames.Next() {
			e.callerFrames = append(e.callerFrames, frame)
		}
	}
	return e.callerFrames
}

// MarshalJSON marshals the error as a string if it wraps a single reason,
// or as an array of strings otherwise.
func (e *Error) MarshalJSON() ([]byte, error) {
	if len(e.reasons) == 1 {
		return marshalReason(e.reasons[0])
	}
	return json.Marshal(lo.Map(e.reasons, func(r error, _ int) string {
		return r.Error()
	}))
}

func marshalReason(e error) ([]byte, error) {
	switch err := e.(type) {
	case json.Marshaler:
		return json.Marshal(err)
	default:
		return json.Marshal(err.Error())
	}
}

// FrameStack slice of frames containing information about the stack.
type FrameStack []runtime.Frame

func (s FrameStack) String() string {
	return strings.Join(lo.Map(s, func(f runtime.Frame, _ int) string {
		return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
	}), "\n")
}

// Reason wrapper around any non-error reason. Preserves the JSON marshaling
// of the original value.
type Reason struct {
	reason any
}

// Value returns the reason's value.
func (r Reason) Value() any {
	return r.reason
}

func (r Reason) Error() string {
	return fmt.Sprintf("%v", r.reason)
}

// MarshalJSON marshals the wrapped reason.
func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.reason)
}
