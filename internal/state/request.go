// Package state holds the client-visible copy of server state. Each slice
// pairs its data with a tagged Request status and exposes the asynchronous
// operations that mutate it; a Store groups the slices of one UI root.
package state

import (
	"errors"
	"log/slog"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
)

// Phase of a slice's most recently dispatched operation.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Request is the status of the last operation dispatched on a slice.
// Message is set only when Phase is Failed.
type Request struct {
	Phase   Phase
	Op      string
	Message string
}

func (r Request) Loading() bool { return r.Phase == Loading }

// Error returns the failure message, or "" unless the request failed.
func (r Request) Error() string {
	if r.Phase != Failed {
		return ""
	}
	return r.Message
}

func pending(op string) Request   { return Request{Phase: Loading, Op: op} }
func succeeded(op string) Request { return Request{Phase: Succeeded, Op: op} }
func failed(op, msg string) Request {
	return Request{Phase: Failed, Op: op, Message: msg}
}

// OpError is what a failed operation returns to its caller. Its message is
// the same string stored in the slice.
type OpError struct {
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string { return e.Message }
func (e *OpError) Unwrap() error { return e.Err }

// failure resolves the user-facing message for err: the server's message
// when there is one, fallback otherwise. Non-API errors are logged since the
// fallback hides them.
func failure(logger *slog.Logger, op string, err error, fallback string) *OpError {
	msg := apiclient.MessageOf(err)
	if msg == "" {
		msg = fallback
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) {
			logger.Warn("operation failed", "op", op, "error", err)
		}
	}
	return &OpError{Op: op, Message: msg, Err: err}
}
