package autosig_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/autosig"
)

func TestSchema(t *testing.T) {
	t.Parallel()

	type server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}

	tests := map[string]struct {
		schema  string
		input   any
		wantErr bool
	}{
		"string length ok": {
			schema: `{"type":"string","minLength":2}`,
			input:  "ok",
		},
		"string too short": {
			schema:  `{"type":"string","minLength":2}`,
			input:   "x",
			wantErr: true,
		},
		"integer from Go int": {
			schema: `{"type":"integer","minimum":1}`,
			input:  5,
		},
		"integer below minimum": {
			schema:  `{"type":"integer","minimum":1}`,
			input:   0,
			wantErr: true,
		},
		"struct checked by its JSON shape": {
			schema: `{"type":"object","required":["host","port"],"properties":{"port":{"type":"integer","maximum":65535}}}`,
			input:  server{Host: "localhost", Port: 8080},
		},
		"struct violating the schema": {
			schema:  `{"type":"object","properties":{"port":{"type":"integer","maximum":65535}}}`,
			input:   server{Host: "localhost", Port: 70000},
			wantErr: true,
		},
		"enum": {
			schema:  `{"enum":["asc","desc"]}`,
			input:   "up",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := autosig.Schema(tc.schema)
			require.NoError(t, err)

			if tc.wantErr {
				assert.Error(t, v(tc.input))
			} else {
				assert.NoError(t, v(tc.input))
			}
		})
	}
}

func TestSchema_invalidDocument(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"not json":    `{"type":`,
		"bad keyword": `{"type":"strang"}`,
		"bad minimum": `{"minimum":"one"}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := autosig.Schema(doc)
			assert.ErrorIs(t, err, autosig.ErrSignature)
		})
	}

	assert.Panics(t, func() { autosig.MustSchema(`{"type":`) })
}

func TestSchema_unmarshalableValue(t *testing.T) {
	t.Parallel()

	v := autosig.MustSchema(`{}`)
	assert.Error(t, v(make(chan int)))
}

func TestSchemaFor(t *testing.T) {
	t.Parallel()

	type item struct {
		Name    string `json:"name" doc:"display name"`
		Skip    string `json:"-"`
		private int
	}

	tests := map[string]struct {
		typ    reflect.Type
		expect autosig.JSONSchema
	}{
		"nil":      {typ: nil, expect: autosig.JSONSchema{}},
		"string":   {typ: reflect.TypeFor[string](), expect: autosig.JSONSchema{Type: "string"}},
		"bool":     {typ: reflect.TypeFor[bool](), expect: autosig.JSONSchema{Type: "boolean"}},
		"uint8":    {typ: reflect.TypeFor[uint8](), expect: autosig.JSONSchema{Type: "integer"}},
		"float":    {typ: reflect.TypeFor[float32](), expect: autosig.JSONSchema{Type: "number"}},
		"pointer":  {typ: reflect.TypeFor[*int](), expect: autosig.JSONSchema{Type: "integer"}},
		"duration": {typ: reflect.TypeFor[time.Duration](), expect: autosig.JSONSchema{Type: "string", Format: "duration"}},
		"time":     {typ: reflect.TypeFor[time.Time](), expect: autosig.JSONSchema{Type: "string", Format: "date-time"}},
		"bytes":    {typ: reflect.TypeFor[[]byte](), expect: autosig.JSONSchema{Type: "string", Format: "byte"}},
		"any":      {typ: reflect.TypeFor[any](), expect: autosig.JSONSchema{}},
		"slice": {
			typ:    reflect.TypeFor[[]string](),
			expect: autosig.JSONSchema{Type: "array", Items: &autosig.JSONSchema{Type: "string"}},
		},
		"array": {
			typ:    reflect.TypeFor[[3]int](),
			expect: autosig.JSONSchema{Type: "array", Items: &autosig.JSONSchema{Type: "integer"}},
		},
		"string map": {
			typ:    reflect.TypeFor[map[string]bool](),
			expect: autosig.JSONSchema{Type: "object", AdditionalProperties: &autosig.JSONSchema{Type: "boolean"}},
		},
		"int map": {
			typ:    reflect.TypeFor[map[int]bool](),
			expect: autosig.JSONSchema{Type: "object"},
		},
		"struct": {
			typ: reflect.TypeFor[item](),
			expect: autosig.JSONSchema{
				Type: "object",
				Properties: map[string]autosig.JSONSchema{
					"name": {Type: "string", Description: "display name"},
				},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, autosig.SchemaFor(tc.typ))
		})
	}
}

func TestJSONFieldName(t *testing.T) {
	t.Parallel()

	typ := reflect.TypeFor[struct {
		A string
		B string `json:"b,omitempty"`
		C string `json:",omitempty"`
	}]()

	assert.Equal(t, "A", autosig.JSONFieldName(typ.Field(0)))
	assert.Equal(t, "b", autosig.JSONFieldName(typ.Field(1)))
	assert.Equal(t, "C", autosig.JSONFieldName(typ.Field(2)))
}
