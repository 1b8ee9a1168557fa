package result

import (
	"errors"
	"fmt"
	"testing"
)

func TestOkAndErrVariants(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() || ok.IsErr() {
		t.Errorf("expected Ok variant, got IsOk=%v IsErr=%v", ok.IsOk(), ok.IsErr())
	}

	boom := errors.New("boom")
	bad := Err[int](boom)
	if bad.IsOk() || !bad.IsErr() {
		t.Errorf("expected Err variant, got IsOk=%v IsErr=%v", bad.IsOk(), bad.IsErr())
	}

	if _, err := bad.Get(); !errors.Is(err, boom) {
		t.Errorf("expected Get to return the original error, got %v", err)
	}
}

func TestMatchDispatchesExactlyOnce(t *testing.T) {
	var okCalls, errCalls int

	Ok("x").Match(
		func(string) { okCalls++ },
		func(error) { errCalls++ },
	)
	if okCalls != 1 || errCalls != 0 {
		t.Errorf("Ok match: okCalls=%d errCalls=%d", okCalls, errCalls)
	}

	Err[string](errors.New("nope")).Match(
		func(string) { okCalls++ },
		func(error) { errCalls++ },
	)
	if okCalls != 1 || errCalls != 1 {
		t.Errorf("Err match: okCalls=%d errCalls=%d", okCalls, errCalls)
	}
}

func TestMapTransformsSuccessOnly(t *testing.T) {
	doubled := Map(Ok(21), func(v int) int { return v * 2 })
	if got := doubled.Unwrap(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	boom := errors.New("boom")
	mapped := Map(Err[int](boom), func(v int) string { return fmt.Sprint(v) })
	if _, err := mapped.Get(); !errors.Is(err, boom) {
		t.Errorf("expected error to pass through Map, got %v", err)
	}
}

func TestMapErrTransformsErrorOnly(t *testing.T) {
	wrapped := Err[int](errors.New("inner")).MapErr(func(err error) error {
		return fmt.Errorf("outer: %w", err)
	})
	if _, err := wrapped.Get(); err == nil || err.Error() != "outer: inner" {
		t.Errorf("expected wrapped error, got %v", err)
	}

	untouched := Ok(7).MapErr(func(err error) error { return errors.New("never") })
	if got := untouched.Unwrap(); got != 7 {
		t.Errorf("expected success to pass through MapErr, got %d", got)
	}
}

func TestUnwrap(t *testing.T) {
	if got := Ok("v").Unwrap(); got != "v" {
		t.Errorf("expected v, got %s", got)
	}

	if got := Err[string](errors.New("x")).UnwrapOr("fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected Unwrap of Err to panic")
		}
	}()
	Err[string](errors.New("x")).Unwrap()
}
