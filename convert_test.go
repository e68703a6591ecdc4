package autosig_test

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/autosig"
)

func TestStockConverters(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		conv    autosig.Converter
		input   any
		expect  any
		wantErr bool
	}{
		"int from string":        {conv: autosig.ToInt, input: "5", expect: 5},
		"int from float":         {conv: autosig.ToInt, input: 5.0, expect: 5},
		"int from garbage":       {conv: autosig.ToInt, input: "abc", wantErr: true},
		"int64 from int":         {conv: autosig.ToInt64, input: 9, expect: int64(9)},
		"float from string":      {conv: autosig.ToFloat64, input: "2.5", expect: 2.5},
		"float from garbage":     {conv: autosig.ToFloat64, input: "x", wantErr: true},
		"string from int":        {conv: autosig.ToString, input: 42, expect: "42"},
		"string from bytes":      {conv: autosig.ToString, input: []byte("hi"), expect: "hi"},
		"bool from string":       {conv: autosig.ToBool, input: "true", expect: true},
		"bool from garbage":      {conv: autosig.ToBool, input: "maybe", wantErr: true},
		"duration from string":   {conv: autosig.ToDuration, input: "1m30s", expect: 90 * time.Second},
		"duration from duration": {conv: autosig.ToDuration, input: time.Second, expect: time.Second},
		"duration from garbage":  {conv: autosig.ToDuration, input: "soon", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.conv(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestToInt_errorIsCasts(t *testing.T) {
	t.Parallel()

	_, want := cast.ToIntE("abc")
	_, err := autosig.ToInt("abc")
	require.Error(t, err)
	assert.Equal(t, want.Error(), err.Error())
}

func TestChain(t *testing.T) {
	t.Parallel()

	double := func(v any) (any, error) { return v.(int) * 2, nil }
	conv := autosig.Chain(autosig.ToInt, nil, double)

	got, err := conv("21")
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	boom := errors.New("boom")
	conv = autosig.Chain(func(any) (any, error) { return nil, boom }, double)
	_, err = conv(1)
	assert.ErrorIs(t, err, boom)
}

func TestInto(t *testing.T) {
	t.Parallel()

	type options struct {
		Retries int           `arg:"retries"`
		Timeout time.Duration `arg:"timeout"`
		Addr    netip.Addr    `arg:"addr"`
		Verbose bool
	}

	tests := map[string]struct {
		input   any
		expect  options
		wantErr bool
	}{
		"weakly typed map": {
			input: map[string]any{
				"retries": "3",
				"timeout": "2s",
				"addr":    "127.0.0.1",
				"verbose": "true",
			},
			expect: options{
				Retries: 3,
				Timeout: 2 * time.Second,
				Addr:    netip.MustParseAddr("127.0.0.1"),
				Verbose: true,
			},
		},
		"duration from int": {
			input:  map[string]any{"timeout": int(time.Millisecond)},
			expect: options{Timeout: time.Millisecond},
		},
		"already the target type": {
			input:  options{Retries: 1},
			expect: options{Retries: 1},
		},
		"bad duration": {
			input:   map[string]any{"timeout": "later"},
			wantErr: true,
		},
		"bad address": {
			input:   map[string]any{"addr": "not-an-ip"},
			wantErr: true,
		},
		"not a map": {
			input:   42,
			wantErr: true,
		},
	}

	conv := autosig.Into[options]()
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := conv(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestInto_coercionError(t *testing.T) {
	t.Parallel()

	type options struct {
		Timeout time.Duration `arg:"timeout"`
	}

	_, err := autosig.Into[options]()(map[string]any{"timeout": "later"})
	require.Error(t, err)

	var ce autosig.CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "time.Duration", ce.To.String())
	assert.Contains(t, ce.Error(), "failed to coerce value from string to time.Duration")
}
