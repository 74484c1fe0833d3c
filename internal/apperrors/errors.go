package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// KindTransient covers failures expected to clear on retry: the
	// watcher service not up yet, a bus call timing out.
	KindTransient Kind = "transient"
	// KindTerminal covers failures retrying cannot fix.
	KindTerminal Kind = "terminal"
	// KindCanceled marks work abandoned because of shutdown.
	KindCanceled Kind = "canceled"
	// KindUnavailable marks an absent collaborator: no session bus, no
	// device attached.
	KindUnavailable Kind = "unavailable"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.SafeMessage)
	if msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary failure. Please try again."
	case KindCanceled:
		return "Operation canceled."
	case KindUnavailable:
		return "Required service or device is unavailable."
	case KindTerminal:
		return "Operation failed."
	default:
		return "Operation failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func Terminal(err error) error {
	return New(KindTerminal, "", err)
}

func Canceled(err error) error {
	return New(KindCanceled, "", err)
}

func Unavailable(err error) error {
	return New(KindUnavailable, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindTransient
}
