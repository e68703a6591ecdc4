package autosig

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sort"
)

// Args is the ordered, read-only set of arguments handed to a
// signature-level check.
type Args struct {
	names  []string
	values []any
}

// Len returns the number of arguments.
func (a Args) Len() int { return len(a.names) }

// Names returns the argument names in declaration order.
func (a Args) Names() []string { return slices.Clone(a.names) }

// Get returns the value of the named argument.
func (a Args) Get(name string) (any, bool) {
	i := slices.Index(a.names, name)
	if i < 0 {
		return nil, false
	}
	return a.values[i], true
}

// Value returns the value of the named argument, or nil.
func (a Args) Value(name string) any {
	v, _ := a.Get(name)
	return v
}

// Call invokes f with positional arguments. A receiver and a leading
// context.Context, when f has them, come first. See CallKW.
func (f *Func) Call(args ...any) ([]any, error) {
	return f.CallKW(nil, args...)
}

// CallKW invokes f with positional and keyword arguments and returns f's
// results, converted by the return descriptor if there is one.
//
// Every call runs the same steps and stops at the first failure: assemble
// the arguments and fill in defaults, convert each argument, validate each
// argument, run the signature-level check, call the function, then convert
// and validate the return value. Converter errors are returned as they
// are; validator failures come back as *ValidationError. An error returned
// by the function itself is returned unchanged along with its results.
func (f *Func) CallKW(kw map[string]any, args ...any) ([]any, error) {
	return f.call(kw, args, false)
}

func (f *Func) call(kw map[string]any, args []any, explicit bool) ([]any, error) {
	if len(args) < len(f.lead) {
		return nil, f.reject(fmt.Errorf("%w: %s: expected %d leading arguments, got %d", ErrArgument, f.name, len(f.lead), len(args)))
	}
	pass, args := args[:len(f.lead)], args[len(f.lead):]

	vals, err := f.enforce(kw, args, explicit)
	if err != nil {
		return nil, f.reject(err)
	}
	return f.invoke(pass, vals)
}

func (f *Func) reject(err error) error {
	f.debug("call rejected", slog.Any("err", err))
	return err
}

// enforce assembles, converts, and validates the arguments of one call.
func (f *Func) enforce(kw map[string]any, args []any, explicit bool) ([]any, error) {
	vals, err := f.assemble(kw, args, explicit)
	if err != nil {
		return nil, err
	}

	for i, p := range f.effective {
		v, err := p.Convert(vals[i])
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	for i, p := range f.effective {
		if err := p.Check(vals[i]); err != nil {
			return nil, &ValidationError{Kind: KindParam, Name: f.params[i].name, Value: vals[i], Err: err}
		}
	}

	if f.sig.check != nil {
		a := Args{names: f.Names(), values: slices.Clone(vals)}
		if err := f.sig.check(a); err != nil {
			return nil, &ValidationError{Kind: KindSignature, Name: f.name, Err: err}
		}
	}

	return vals, nil
}

// assemble places the actual arguments in declaration order and fills in
// defaults. With explicit set every parameter is passed positionally.
func (f *Func) assemble(kw map[string]any, args []any, explicit bool) ([]any, error) {
	n := len(f.params)
	vals := make([]any, n)
	set := make([]bool, n)

	limit := f.positional
	if explicit {
		limit = n
	}
	if len(args) > limit {
		return nil, fmt.Errorf("%w: %s takes %d positional arguments but %d were given", ErrArgument, f.name, limit, len(args))
	}
	for i, a := range args {
		vals[i], set[i] = a, true
	}

	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		i, ok := f.index[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unexpected keyword argument %q%s", ErrArgument, f.name, k, suggest(k, f.Names()))
		}
		if set[i] {
			return nil, fmt.Errorf("%w: %s: multiple values for argument %q", ErrArgument, f.name, k)
		}
		vals[i], set[i] = kw[k], true
	}

	var missing []string
	for i := range vals {
		if set[i] {
			continue
		}
		if def, ok := f.effective[i].Default(); ok {
			vals[i] = def
			continue
		}
		missing = append(missing, f.params[i].name)
	}
	if len(missing) > 0 {
		return nil, &MissingArgumentError{Func: f.name, Names: missing}
	}

	return vals, nil
}

// invoke calls the underlying function and applies the return descriptor.
func (f *Func) invoke(pass, vals []any) ([]any, error) {
	in := make([]reflect.Value, 0, f.typ.NumIn())
	for i, v := range pass {
		rv, err := coerce(v, f.lead[i])
		if err != nil {
			return nil, f.reject(fmt.Errorf("%w: %s: leading argument %d: %w", ErrArgument, f.name, i, err))
		}
		in = append(in, rv)
	}

	if f.structArg != nil {
		sv, err := f.buildStruct(vals)
		if err != nil {
			return nil, f.reject(err)
		}
		in = append(in, sv)
	} else {
		for i, v := range vals {
			rv, err := coerce(v, f.params[i].typ)
			if err != nil {
				return nil, f.reject(&ValidationError{Kind: KindParam, Name: f.params[i].name, Value: v, Err: err})
			}
			in = append(in, rv)
		}
	}

	outs := f.fn.Call(in)
	results := make([]any, len(outs))
	for i, o := range outs {
		results[i] = o.Interface()
	}

	if f.errIndex >= 0 {
		if err, _ := results[f.errIndex].(error); err != nil {
			return results, err
		}
	}

	if r, ok := f.sig.Return(); ok {
		v, err := r.Apply(results[f.retIndex])
		if err != nil {
			return nil, f.reject(err)
		}
		results[f.retIndex] = v
	}

	return results, nil
}

// buildStruct fills a new argument struct from the final values.
func (f *Func) buildStruct(vals []any) (reflect.Value, error) {
	t := f.structArg
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sv := reflect.New(t).Elem()
	for i, d := range f.params {
		rv, err := coerce(vals[i], d.typ)
		if err != nil {
			return reflect.Value{}, &ValidationError{Kind: KindParam, Name: d.name, Value: vals[i], Err: err}
		}
		sv.Field(d.field).Set(rv)
	}
	if f.structArg.Kind() == reflect.Pointer {
		return sv.Addr(), nil
	}
	return sv, nil
}

// explode reads the fields of an argument struct back into values.
func (f *Func) explode(arg reflect.Value) []any {
	if arg.Kind() == reflect.Pointer {
		if arg.IsNil() {
			arg = reflect.New(arg.Type().Elem()).Elem()
		} else {
			arg = arg.Elem()
		}
	}
	vals := make([]any, len(f.params))
	for i, d := range f.params {
		vals[i] = arg.Field(d.field).Interface()
	}
	return vals
}

// coerce fits v to the Go type t. Assignable values pass as they are;
// numbers convert between numeric kinds when no precision is lost; named
// types convert to and from their underlying type.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if isNilable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, &TypeError{Want: t.String(), Got: "nil"}
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(t):
		if t.Kind() == reflect.Interface && rv.Type() != t {
			out := reflect.New(t).Elem()
			out.Set(rv)
			return out, nil
		}
		return rv, nil
	case isNumericKind(rv.Kind()) && isNumericKind(t.Kind()):
		out := rv.Convert(t)
		if out.Convert(rv.Type()).Equal(rv) && negative(out) == negative(rv) {
			return out, nil
		}
	case rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, &TypeError{Want: t.String(), Got: rv.Type().String()}
}

func negative(v reflect.Value) bool {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	default:
		return false
	}
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
