package autosig_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/autosig"
)

func TestStructArgument(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ    reflect.Type
		expect bool
	}{
		"struct":            {typ: reflect.TypeFor[greeting](), expect: true},
		"pointer to struct": {typ: reflect.TypeFor[*greeting](), expect: true},
		"empty struct":      {typ: reflect.TypeFor[struct{}](), expect: true},
		"string":            {typ: reflect.TypeFor[string]()},
		"pointer to int":    {typ: reflect.TypeFor[*int]()},
		"map":               {typ: reflect.TypeFor[map[string]any]()},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, autosig.StructArgument(tc.typ))
		})
	}
}

func TestTagOptions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input      string
		expectName string
		expectOpts string
	}{
		"empty": {},
		"name only": {
			input:      "limit",
			expectName: "limit",
		},
		"keyword-only": {
			input:      "limit,kwonly",
			expectName: "limit",
			expectOpts: "kwonly",
		},
		"options without a name": {
			input:      ",kwonly",
			expectOpts: "kwonly",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			gotName, gotOpts := autosig.TagOptions(tc.input)
			assert.Equal(t, tc.expectName, gotName)
			assert.Equal(t, tc.expectOpts, gotOpts)
		})
	}
}

func TestTagContains(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts   string
		name   string
		expect bool
	}{
		"single":         {opts: "kwonly", name: "kwonly", expect: true},
		"among others":   {opts: "omitempty,kwonly", name: "kwonly", expect: true},
		"missing":        {opts: "omitempty", name: "kwonly"},
		"prefix only":    {opts: "kwonlyx", name: "kwonly"},
		"empty options":  {name: "kwonly"},
		"trailing comma": {opts: "kwonly,", name: "kwonly", expect: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, autosig.TagContains(tc.opts, tc.name))
		})
	}
}

func TestParseTagValue(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ     reflect.Type
		value   string
		expect  any
		wantErr bool
	}{
		"string":          {typ: reflect.TypeFor[string](), value: "asc", expect: "asc"},
		"int":             {typ: reflect.TypeFor[int](), value: "-3", expect: -3},
		"int8 overflow":   {typ: reflect.TypeFor[int8](), value: "300", wantErr: true},
		"uint16":          {typ: reflect.TypeFor[uint16](), value: "8080", expect: uint16(8080)},
		"negative uint":   {typ: reflect.TypeFor[uint](), value: "-1", wantErr: true},
		"float32":         {typ: reflect.TypeFor[float32](), value: "0.5", expect: float32(0.5)},
		"bool":            {typ: reflect.TypeFor[bool](), value: "true", expect: true},
		"bad bool":        {typ: reflect.TypeFor[bool](), value: "yes please", wantErr: true},
		"duration":        {typ: reflect.TypeFor[time.Duration](), value: "1m", expect: time.Minute},
		"bad duration":    {typ: reflect.TypeFor[time.Duration](), value: "1 minute", wantErr: true},
		"named string":    {typ: reflect.TypeFor[order](), value: "desc", expect: order("desc")},
		"empty interface": {typ: reflect.TypeFor[any](), value: "x", expect: "x"},
		"error interface": {typ: reflect.TypeFor[error](), value: "x", wantErr: true},
		"slice":           {typ: reflect.TypeFor[[]string](), value: "a,b", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := autosig.ParseTagValue(tc.typ, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

type order string

func TestStructParams_tags(t *testing.T) {
	t.Parallel()

	type query struct {
		Term    string        `arg:"q" doc:"search term"`
		Limit   int           `default:"10"`
		Order   order         `arg:"order,kwonly" default:"asc"`
		Timeout time.Duration `arg:"timeout,kwonly" default:"5s"`
		Ignored string        `arg:"-"`
		hidden  bool
	}

	f := autosig.MustBind(nil, func(q query) bool { return q.hidden })
	assert.Equal(t, []string{"q", "Limit", "order", "timeout"}, f.Names())

	p, _ := f.Param("Limit")
	def, _ := p.Default()
	assert.Equal(t, 10, def)

	p, _ = f.Param("order")
	def, _ = p.Default()
	assert.Equal(t, order("asc"), def)
	assert.True(t, p.KWOnly())

	p, _ = f.Param("timeout")
	def, _ = p.Default()
	assert.Equal(t, 5*time.Second, def)

	got, err := f.CallKW(map[string]any{"order": "desc"}, "golang")
	require.NoError(t, err)
	assert.Equal(t, []any{false}, got)
}
