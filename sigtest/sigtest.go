// Package sigtest provides test helpers for code that binds signatures.
package sigtest

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/bjaus/autosig"
)

// MustBind binds sig to fn and fails the test on error.
func MustBind(t testing.TB, sig *autosig.Signature, fn any, opts ...autosig.BindOption) *autosig.Func {
	t.Helper()
	f, err := autosig.Bind(sig, fn, opts...)
	if err != nil {
		t.Fatalf("sigtest: bind: %v", err)
	}
	return f
}

// Call invokes f with positional arguments and fails the test on error.
func Call(t testing.TB, f *autosig.Func, args ...any) []any {
	t.Helper()
	return CallKW(t, f, nil, args...)
}

// CallKW invokes f with positional and keyword arguments and fails the test
// on error.
func CallKW(t testing.TB, f *autosig.Func, kw map[string]any, args ...any) []any {
	t.Helper()
	results, err := f.CallKW(kw, args...)
	if err != nil {
		t.Fatalf("sigtest: call %s: %v", f.Name(), err)
	}
	return results
}

// Result returns results[0] as a T.
func Result[T any](t testing.TB, results []any) T {
	t.Helper()
	if len(results) == 0 {
		t.Fatalf("sigtest: no results")
	}
	v, ok := results[0].(T)
	if !ok {
		var zero T
		t.Fatalf("sigtest: result is %T, not %T", results[0], zero)
	}
	return v
}

// RequireValidationError fails the test unless err is a validation error of
// the given kind. For KindParam, name is the rejected parameter; for
// KindSignature, the bound function's name. It is ignored for KindReturn.
func RequireValidationError(t testing.TB, err error, kind autosig.Kind, name string) *autosig.ValidationError {
	t.Helper()
	var ve *autosig.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("sigtest: expected a validation error, got %v", err)
	}
	if ve.Kind != kind {
		t.Fatalf("sigtest: expected a %s validation error, got %s: %v", kind, ve.Kind, err)
	}
	if kind != autosig.KindReturn && ve.Name != name {
		t.Fatalf("sigtest: expected validation error for %q, got %q: %v", name, ve.Name, err)
	}
	return ve
}

// RequireMissing fails the test unless err reports exactly the given
// missing arguments, in order.
func RequireMissing(t testing.TB, err error, names ...string) *autosig.MissingArgumentError {
	t.Helper()
	var me *autosig.MissingArgumentError
	if !errors.As(err, &me) {
		t.Fatalf("sigtest: expected a missing argument error, got %v", err)
	}
	if !slices.Equal(me.Names, names) {
		t.Fatalf("sigtest: expected missing %v, got %v", names, me.Names)
	}
	return me
}

// Logger returns a debug-level logger writing to the test log, for use with
// autosig.WithLogger.
func Logger(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
