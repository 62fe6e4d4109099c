package services

import (
	"errors"
	"fmt"

	"casefilehub/store"
)

// ErrorKind classifies expected business outcomes so callers can branch (and
// the HTTP layer can pick a status) without string matching.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindInvalidArgument  ErrorKind = "invalid_argument"
	KindConflict         ErrorKind = "conflict"
	KindUnavailable      ErrorKind = "unavailable"
	KindInternal         ErrorKind = "internal"
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// KindOf extracts the kind from any error, KindInternal when it carries none.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func notFound(format string, args ...any) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func permissionDenied(format string, args ...any) *ServiceError {
	return &ServiceError{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func invalidArgument(format string, args ...any) *ServiceError {
	return &ServiceError{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// storeError maps adapter failures onto the taxonomy: unreachable store,
// transaction conflict (retryable by the caller), or plain internal.
func storeError(message string, err error) *ServiceError {
	kind := KindInternal
	switch {
	case errors.Is(err, store.ErrUnavailable):
		kind = KindUnavailable
	case errors.Is(err, store.ErrTxnConflict):
		kind = KindConflict
	}
	return &ServiceError{Kind: kind, Message: message, cause: err}
}
