package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("disk full")
	err := DatabaseError("write failed", cause).WithContext("user:1")

	msg := err.Error()
	for _, want := range []string{"database", "write failed", "user:1", "disk full"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error message %q", want, msg)
		}
	}

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to see the cause through Unwrap")
	}
}

func TestKindInspection(t *testing.T) {
	if k := KindOf(NotFoundError("x")); k != KindNotFound {
		t.Errorf("expected notFound, got %s", k)
	}
	if k := KindOf(errors.New("foreign")); k != "" {
		t.Errorf("expected empty kind for foreign error, got %s", k)
	}
	if !IsKind(ClosedError(), KindDatabase) {
		t.Errorf("expected closed error to be of kind database")
	}
	if IsKind(nil, KindDatabase) {
		t.Errorf("expected nil to have no kind")
	}
}

func TestWithHelpersDoNotMutate(t *testing.T) {
	base := ValidationError("bad id", "")
	derived := base.WithContext("abc").WithCause(fmt.Errorf("len"))

	if base.Context != "" || base.Cause != nil {
		t.Errorf("expected base error to stay unchanged, got %+v", base)
	}
	if derived.Context != "abc" || derived.Cause == nil {
		t.Errorf("expected derived error to carry context and cause, got %+v", derived)
	}
}
