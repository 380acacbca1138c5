package store

import "fmt"

// Subject identifies which part of the storage layer an I/O error came
// from, so operators can tell a bad vote write from a bad log write at a
// glance.
type Subject string

const (
	SubjectStore        Subject = "store"
	SubjectLogs         Subject = "logs"
	SubjectStateMachine Subject = "state_machine"
	SubjectVote         Subject = "vote"
)

// SubjectSnapshot tags a storage error with the snapshot's signature
// (its SnapshotMeta.ID), mirroring ErrorSubject::Snapshot(signature) in the
// source this package is ported from.
func SubjectSnapshot(signature string) Subject {
	return Subject("snapshot(" + signature + ")")
}

// Verb is the I/O direction that failed.
type Verb string

const (
	VerbRead  Verb = "read"
	VerbWrite Verb = "write"
)

// StorageError wraps an I/O or (de)serialization failure at a specific
// subject/verb. It is never swallowed: every storage method that can fail
// returns one instead of logging-and-continuing.
type StorageError struct {
	Subject Subject
	Verb    Verb
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Verb, e.Subject, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func readErr(subject Subject, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Subject: subject, Verb: VerbRead, Err: err}
}

func writeErr(subject Subject, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Subject: subject, Verb: VerbWrite, Err: err}
}

// ClientErrorKind is the closed set of command-level failures a Put/Delete
// can report. These travel inside a CommandResult, not as a Go error
// returned from Apply, so one bad command in a batch never aborts the rest.
type ClientErrorKind string

const (
	ErrKeyNotFound ClientErrorKind = "key_not_found"
	ErrInternal    ClientErrorKind = "internal"
)

// ClientError is a command-level failure surfaced in a CommandResult.
type ClientError struct {
	Kind    ClientErrorKind
	Message string
}

func (e *ClientError) Error() string {
	if e.Kind == ErrKeyNotFound {
		return "key not found"
	}
	return "internal error: " + e.Message
}

func NewKeyNotFoundError() *ClientError {
	return &ClientError{Kind: ErrKeyNotFound}
}

func NewInternalError(msg string) *ClientError {
	return &ClientError{Kind: ErrInternal, Message: msg}
}
