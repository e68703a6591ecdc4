package autosig_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/autosig"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("should satisfy positive")

	tests := map[string]struct {
		err    *autosig.ValidationError
		expect string
	}{
		"param": {
			err:    &autosig.ValidationError{Kind: autosig.KindParam, Name: "x", Value: -1, Err: cause},
			expect: "validation failed: x = -1: should satisfy positive",
		},
		"return": {
			err:    &autosig.ValidationError{Kind: autosig.KindReturn, Value: "abc", Err: cause},
			expect: "validation failed: return value = abc: should satisfy positive",
		},
		"signature": {
			err:    &autosig.ValidationError{Kind: autosig.KindSignature, Name: "pkg.f", Err: cause},
			expect: "validation failed: signature of pkg.f: should satisfy positive",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.EqualError(t, tc.err, tc.expect)
			assert.ErrorIs(t, tc.err, autosig.ErrValidation)
			assert.ErrorIs(t, tc.err, cause)
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "param", autosig.KindParam.String())
	assert.Equal(t, "signature", autosig.KindSignature.String())
	assert.Equal(t, "return", autosig.KindReturn.String())
	assert.Equal(t, "Kind(9)", autosig.Kind(9).String())
}

func TestMissingArgumentError(t *testing.T) {
	t.Parallel()

	err := &autosig.MissingArgumentError{Func: "pkg.f", Names: []string{"a", "b"}}
	assert.EqualError(t, err, "missing argument: pkg.f: a, b")
	assert.ErrorIs(t, err, autosig.ErrMissingArgument)
	assert.NotErrorIs(t, err, autosig.ErrValidation)
}

func TestTypeError(t *testing.T) {
	t.Parallel()

	var err error = &autosig.TypeError{Want: "int", Got: "string"}
	assert.EqualError(t, err, "should be int, string found instead")
	assert.ErrorIs(t, err, autosig.ErrType)

	var te *autosig.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "int", te.Want)
}
