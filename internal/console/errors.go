package console

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// LoadFailed covers the job list fetch and the app list fetch.
	LoadFailed ErrorKind = "load_failed"
	// ActionFailed is a delete or trigger the registry refused or never answered.
	ActionFailed ErrorKind = "action_failed"
	// DataContractViolation is a row value the console has no rendering for.
	DataContractViolation ErrorKind = "data_contract_violation"
)

var (
	ErrBusy     = errors.New("console: request already in flight")
	ErrNoTarget = errors.New("console: edit dialog opened without a job")
	ErrClosed   = errors.New("console: dialog is not open")
)

// Error is an error raised by one console operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match on kind alone, e.g. errors.Is(err, &Error{Kind: LoadFailed}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op) && t.Err == nil
}

// ActionError is the failure of a confirmed delete or trigger.
type ActionError struct {
	Action ActionKind
	JobID  int64
	Reason error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s job %d failed: %v", e.Action, e.JobID, e.Reason)
}

func (e *ActionError) Unwrap() error {
	return e.Reason
}

// KindOf returns the console error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return ActionFailed, true
	}
	return "", false
}
