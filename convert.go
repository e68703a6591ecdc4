package autosig

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Converter normalises a raw argument value before validation.
type Converter func(v any) (any, error)

// ToInt converts numbers, numeric strings, and booleans to int.
func ToInt(v any) (any, error) {
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ToInt64 converts numbers, numeric strings, and booleans to int64.
func ToInt64(v any) (any, error) {
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ToFloat64 converts numbers and numeric strings to float64.
func ToFloat64(v any) (any, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ToString converts scalars, byte slices, Stringers, and errors to string.
func ToString(v any) (any, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ToBool converts booleans, numbers, and strings such as "true" or "0" to bool.
func ToBool(v any) (any, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ToDuration converts durations, integers (nanoseconds), and strings such
// as "1m30s" to time.Duration.
func ToDuration(v any) (any, error) {
	d, err := cast.ToDurationE(v)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Chain composes converters left to right.
func Chain(cs ...Converter) Converter {
	cs = append([]Converter(nil), cs...)
	return func(v any) (any, error) {
		for _, c := range cs {
			if c == nil {
				continue
			}
			var err error
			if v, err = c(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// Into returns a Converter decoding maps (or structs) into a T. Input is
// weakly typed, so "8" decodes into an int field; strings decode into
// encoding.TextUnmarshaler fields and time.Duration fields. Fields are
// matched by their `arg` tag, or by name.
func Into[T any]() Converter {
	return func(v any) (any, error) {
		if t, ok := v.(T); ok {
			return t, nil
		}

		var out T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "arg",
			Result:           &out,
			WeaklyTypedInput: true,
			DecodeHook: composeDecodeHooks(
				textUnmarshalerHookFunc(),
				timeDurationHookFunc(),
			),
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(v); err != nil {
			return nil, err
		}
		return out, nil
	}
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// CoercionError occurs when a decode hook fails to coerce a value into the
// target field type.
type CoercionError struct {
	From  reflect.Type
	To    reflect.Type
	Cause error
}

// Error implements the error interface.
func (e CoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.From, e.To, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e CoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, CoercionError{
				From:  f.Type(),
				To:    t.Type(),
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		if err := u.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeFor[time.Duration]() {
			return nil, errInvalidDecodeCondition
		}

		//exhaustive:ignore
		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(reflect.ValueOf(data).String())
		case reflect.Int, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
