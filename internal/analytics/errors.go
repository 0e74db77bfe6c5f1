package analytics

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrUpstream = errors.New("upstream failure")
)

// NotFoundError reports an unknown agency slug or title number.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.Key) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func agencyNotFound(slug string) error { return &NotFoundError{Kind: "agency", Key: slug} }

func titleNotFound(title int) error { return &NotFoundError{Kind: "title", Key: fmt.Sprint(title)} }

// UpstreamError wraps a failed fetch or an unparseable document.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// upstream wraps err unless it is already classified or is a context error.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUpstream) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
