// Package sigfile reads signatures from YAML or TOML documents so that
// argument conventions can be shared as data.
//
// A document lists parameters in order, plus an optional return block:
//
//	params:
//	  - name: count
//	    default: 10
//	    convert: int
//	    type: int
//	    doc: number of items
//	  - name: mode
//	    enum: [fast, slow]
//	    position: 0
//	  - name: host
//	    schema: {type: string, minLength: 1}
//	    kw_only: true
//	return:
//	  convert: string
//
// Converter and type names resolve through a registry holding int, int64,
// float, string, bool, and duration. WithConverter and WithType extend it.
// Enum values pass through the parameter's converter when it has one, so
// they compare equal to converted arguments.
package sigfile

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/autosig"
)

// Option configures parsing.
type Option func(*parser)

// WithConverter registers a converter under name, replacing any stock
// converter of the same name.
func WithConverter(name string, c autosig.Converter) Option {
	return func(p *parser) {
		p.converters[name] = c
	}
}

// WithType registers a Go type under name for `type:` keys.
func WithType(name string, t reflect.Type) Option {
	return func(p *parser) {
		p.types[name] = t
	}
}

// SyntaxError reports a document that is not well-formed YAML or TOML.
type SyntaxError struct {
	Format string
	Cause  error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// Is reports a SyntaxError as an autosig.ErrSignature.
func (e *SyntaxError) Is(target error) bool {
	return target == autosig.ErrSignature
}

// ParseYAML builds a signature from a YAML document.
func ParseYAML(data []byte, opts ...Option) (*autosig.Signature, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &SyntaxError{Format: "yaml", Cause: err}
	}
	return newParser(opts).parse(raw)
}

// ParseTOML builds a signature from a TOML document. Parameters are an
// array of tables:
//
//	[[params]]
//	name = "count"
//	default = 10
//	convert = "int"
//
//	[return]
//	convert = "string"
func ParseTOML(data []byte, opts ...Option) (*autosig.Signature, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &SyntaxError{Format: "toml", Cause: err}
	}
	return newParser(opts).parse(narrowInts(raw).(map[string]any))
}

// narrowInts rewrites the int64 integers TOML decodes to int, as YAML
// decodes them, so a document means the same in either format.
func narrowInts(v any) any {
	switch v := v.(type) {
	case int64:
		if n := int(v); int64(n) == v {
			return n
		}
		return v
	case map[string]any:
		for k, e := range v {
			v[k] = narrowInts(e)
		}
		return v
	case []map[string]any:
		for _, m := range v {
			narrowInts(m)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = narrowInts(e)
		}
		return v
	default:
		return v
	}
}

// LoadFile reads a signature from a .yaml, .yml, or .toml file.
func LoadFile(path string, opts ...Option) (*autosig.Signature, error) {
	var parse func([]byte, ...Option) (*autosig.Signature, error)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parse = ParseYAML
	case ".toml":
		parse = ParseTOML
	default:
		return nil, fmt.Errorf("%w: %s: unsupported file extension %q", autosig.ErrSignature, path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load signature (%s): %w", path, err)
	}
	sig, err := parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load signature (%s): %w", path, err)
	}
	return sig, nil
}

func newParser(opts []Option) *parser {
	p := &parser{
		converters: map[string]autosig.Converter{
			"int":      autosig.ToInt,
			"int64":    autosig.ToInt64,
			"float":    autosig.ToFloat64,
			"string":   autosig.ToString,
			"bool":     autosig.ToBool,
			"duration": autosig.ToDuration,
		},
		types: map[string]reflect.Type{
			"int":      reflect.TypeFor[int](),
			"int64":    reflect.TypeFor[int64](),
			"float":    reflect.TypeFor[float64](),
			"string":   reflect.TypeFor[string](),
			"bool":     reflect.TypeFor[bool](),
			"duration": reflect.TypeFor[time.Duration](),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}
