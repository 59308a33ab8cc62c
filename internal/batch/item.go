package batch

import (
	"context"
	"errors"

	"batchme/internal/upc"
)

// State is an item's position in the per-item pipeline.
type State string

// Item pipeline states. Written and Rejected are terminal.
const (
	StatePending    State = "pending"
	StateValidating State = "validating"
	StateEncoding   State = "encoding"
	StateRendering  State = "rendering"
	StateWritten    State = "written"
	StateRejected   State = "rejected"
)

// Rejection reason labels used in the report's per-reason counts.
const (
	ReasonInvalidLength     = "invalid_length"
	ReasonInvalidCharacter  = "invalid_character"
	ReasonChecksumMismatch  = "checksum_mismatch"
	ReasonEncodingInvariant = "encoding_invariant"
	ReasonWriteFailure      = "write_failure"
	ReasonCanceled          = "canceled"
	ReasonOther             = "other"
)

// ErrWriteFailure marks an I/O failure from the injected blob writer. It is
// recoverable at the item level; the batch continues.
var ErrWriteFailure = errors.New("write failure")

// Item is one unit of batch work: a raw input line with its stable sequence
// number and, once processing finishes, its terminal outcome. Sequence
// numbers are 1-based, contiguous, and follow input order regardless of how
// processing is scheduled.
type Item struct {
	// Seq is the 1-based sequence number assigned at dispatch time.
	Seq int

	// Raw is the original input line (whitespace-trimmed).
	Raw string

	// State is the item's current pipeline state.
	State State

	// Path is the written blob name, set only in StateWritten.
	Path string

	// Err is the rejection cause, set only in StateRejected.
	Err error
}

// Written reports whether the item reached the written terminal state.
func (it *Item) Written() bool {
	return it.State == StateWritten
}

// Rejected reports whether the item reached the rejected terminal state.
func (it *Item) Rejected() bool {
	return it.State == StateRejected
}

// Validated reports whether the item passed checksum validation, regardless
// of what happened downstream. Items canceled before reaching the validator
// do not count.
func (it *Item) Validated() bool {
	if it.State == StateWritten {
		return true
	}
	if it.State != StateRejected || isValidationError(it.Err) {
		return false
	}
	return !errors.Is(it.Err, context.Canceled) && !errors.Is(it.Err, context.DeadlineExceeded)
}

// reject moves the item to the rejected terminal state.
func (it *Item) reject(err error) {
	it.State = StateRejected
	it.Err = err
}

// markWritten moves the item to the written terminal state.
func (it *Item) markWritten(path string) {
	it.State = StateWritten
	it.Path = path
}

// Reason buckets a rejection error into its report label.
func Reason(err error) string {
	switch {
	case errors.Is(err, upc.ErrInvalidLength):
		return ReasonInvalidLength
	case errors.Is(err, upc.ErrInvalidCharacter):
		return ReasonInvalidCharacter
	case errors.Is(err, upc.ErrChecksumMismatch):
		return ReasonChecksumMismatch
	case errors.Is(err, upc.ErrEncodingInvariant):
		return ReasonEncodingInvariant
	case errors.Is(err, ErrWriteFailure):
		return ReasonWriteFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonOther
	}
}

// isValidationError reports whether err is one of the user-input validation
// errors, as opposed to a downstream encoding or write failure.
func isValidationError(err error) bool {
	return errors.Is(err, upc.ErrInvalidLength) ||
		errors.Is(err, upc.ErrInvalidCharacter) ||
		errors.Is(err, upc.ErrChecksumMismatch)
}
