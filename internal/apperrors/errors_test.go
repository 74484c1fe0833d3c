package apperrors

import (
	"errors"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindUnavailable, "safe bus error", sentinel)
	if got := PublicMessage(err); got != "safe bus error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe bus error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestKindOfAndRetryable(t *testing.T) {
	err := New(KindTransient, "", errors.New("boom"))
	kind, ok := KindOf(err)
	if !ok || kind != KindTransient {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindTransient)
	}
	if !IsRetryable(err) {
		t.Fatalf("expected transient error to be retryable")
	}
	if IsRetryable(Terminal(errors.New("boom"))) {
		t.Fatalf("terminal errors must not be retryable")
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
}

func TestDefaultSafeMessages(t *testing.T) {
	for _, kind := range []Kind{KindTransient, KindTerminal, KindCanceled, KindUnavailable} {
		err := New(kind, "", errors.New("internal detail"))
		if msg := PublicMessage(err); msg == "" || msg == "internal detail" {
			t.Fatalf("kind %q: expected a safe default message, got %q", kind, msg)
		}
	}
}
