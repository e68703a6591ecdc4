package autosig

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Validator checks a converted value. A nil error means the value is valid.
type Validator func(v any) error

// Check turns a type or a predicate into a Validator:
//
//   - a reflect.Type checks that the value is assignable to that type
//   - a func(any) bool fails when it returns false
//   - a func(any) error fails with the returned error
//   - a Validator is returned unchanged
//   - a slice, array, or map checks membership (map keys)
//
// Anything else is an ErrSignature error.
func Check(typeOrPredicate any) (Validator, error) {
	switch v := typeOrPredicate.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil validator", ErrSignature)
	case reflect.Type:
		return typeCheck(v), nil
	case Validator:
		return v, nil
	case func(any) error:
		return Validator(v), nil
	case func(any) bool:
		return Predicate(funcName(v), v), nil
	}

	rv := reflect.ValueOf(typeOrPredicate)
	//exhaustive:ignore
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		members := make([]any, rv.Len())
		for i := range rv.Len() {
			members[i] = rv.Index(i).Interface()
		}
		return OneOf(members...), nil
	case reflect.Map:
		members := make([]any, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			members = append(members, iter.Key().Interface())
		}
		return OneOf(members...), nil
	default:
		return nil, fmt.Errorf("%w: cannot build a validator from %T", ErrSignature, typeOrPredicate)
	}
}

// MustCheck is like Check but panics on error.
func MustCheck(typeOrPredicate any) Validator {
	v, err := Check(typeOrPredicate)
	if err != nil {
		panic(err)
	}
	return v
}

// IsType returns a Validator accepting values assignable to T under Go's
// assignability rules, so an interface T accepts any implementation.
func IsType[T any]() Validator {
	return typeCheck(reflect.TypeFor[T]())
}

func typeCheck(t reflect.Type) Validator {
	return func(v any) error {
		if v == nil {
			if isNilable(t.Kind()) {
				return nil
			}
			return &TypeError{Want: t.String(), Got: "nil"}
		}
		got := reflect.TypeOf(v)
		if got.AssignableTo(t) {
			return nil
		}
		return &TypeError{Want: t.String(), Got: got.String()}
	}
}

// Predicate returns a Validator failing when fn returns false. The name
// appears in the failure message.
func Predicate(name string, fn func(any) bool) Validator {
	return func(v any) error {
		if fn(v) {
			return nil
		}
		return fmt.Errorf("should satisfy %s", name)
	}
}

// OneOf returns a Validator accepting only the given values, compared with
// reflect.DeepEqual.
func OneOf(values ...any) Validator {
	members := append([]any(nil), values...)
	return func(v any) error {
		for _, m := range members {
			if reflect.DeepEqual(m, v) {
				return nil
			}
		}
		return fmt.Errorf("should be one of %v", members)
	}
}

// All returns a Validator requiring every validator to pass. The first
// failure is returned.
func All(vs ...Validator) Validator {
	vs = append([]Validator(nil), vs...)
	return func(v any) error {
		for _, fn := range vs {
			if fn == nil {
				continue
			}
			if err := fn(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Not returns a Validator failing when v passes.
func Not(v Validator) Validator {
	return func(x any) error {
		if v(x) == nil {
			return errors.New("should not satisfy the negated check")
		}
		return nil
	}
}

func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return "<func>"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func isNilable(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
