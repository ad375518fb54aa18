package submit

import (
	"errors"
	"fmt"

	ff "github.com/reoring/formflow"
)

// State is a step of the submission state machine:
//
//	Idle -> Validating -> ValidationFailed
//	                   -> Uploading -> Created | SideEffectFailed
//	                   -> Created (no asset to upload)
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateCreated
	StateValidationFailed
	StateSideEffectFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateCreated:
		return "created"
	case StateValidationFailed:
		return "validation_failed"
	case StateSideEffectFailed:
		return "side_effect_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateCreated || s == StateValidationFailed || s == StateSideEffectFailed
}

// ErrNoUploader is the side-effect reason when a valid record carries an
// asset but no uploader was supplied.
var ErrNoUploader = errors.New("submit: no uploader configured")

// SideEffectError reports a failed upload. It is a submission outcome, never
// part of the field error tree.
type SideEffectError struct {
	Field string // asset field whose upload failed
	Asset string // original asset name
	Err   error
}

func (e *SideEffectError) Error() string {
	return fmt.Sprintf("upload %s (field %s): %v", e.Asset, e.Field, e.Err)
}

func (e *SideEffectError) Unwrap() error { return e.Err }

// Outcome is the terminal result of one submission attempt: exactly one of
// Created, ValidationFailed or SideEffectFailed.
type Outcome struct {
	state  State
	record *ff.Record
	errors *ff.ErrorTree
	reason *SideEffectError
}

// State returns the terminal state the attempt ended in.
func (o Outcome) State() State { return o.state }

// Created returns the record when the attempt succeeded.
func (o Outcome) Created() (*ff.Record, bool) {
	return o.record, o.state == StateCreated
}

// ValidationFailed returns the error tree when validation rejected the input.
func (o Outcome) ValidationFailed() (*ff.ErrorTree, bool) {
	return o.errors, o.state == StateValidationFailed
}

// SideEffectFailed returns the upload failure.
func (o Outcome) SideEffectFailed() (*SideEffectError, bool) {
	return o.reason, o.state == StateSideEffectFailed
}

// Err returns nil for Created and the tree or side-effect error otherwise.
func (o Outcome) Err() error {
	switch o.state {
	case StateValidationFailed:
		return o.errors
	case StateSideEffectFailed:
		return o.reason
	default:
		return nil
	}
}
