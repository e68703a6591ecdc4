package autosig

import (
	"reflect"
)

// Wrap binds sig to fn and returns a function of fn's own type that
// enforces the signature on every call.
//
// Go calls pass every argument, so defaults never apply through the
// returned function; use Func.CallKW when arguments may be omitted. When F
// has a trailing error result, enforcement failures are returned through
// it. Otherwise they panic.
func Wrap[F any](sig *Signature, fn F, opts ...BindOption) (F, error) {
	var zero F
	f, err := Bind(sig, fn, opts...)
	if err != nil {
		return zero, err
	}
	wrapped := reflect.MakeFunc(f.typ, f.callValues)
	return wrapped.Interface().(F), nil
}

// MustWrap is like Wrap but panics on error.
func MustWrap[F any](sig *Signature, fn F, opts ...BindOption) F {
	w, err := Wrap(sig, fn, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// callValues is the reflect.MakeFunc body behind Wrap.
func (f *Func) callValues(in []reflect.Value) []reflect.Value {
	lead := len(f.lead)
	args := make([]any, 0, len(f.params)+lead)
	for _, v := range in[:lead] {
		args = append(args, v.Interface())
	}
	if f.structArg != nil {
		args = append(args, f.explode(in[lead])...)
	} else {
		for _, v := range in[lead:] {
			args = append(args, v.Interface())
		}
	}

	results, err := f.call(nil, args, true)
	if results == nil {
		return f.fail(err)
	}

	out := make([]reflect.Value, len(results))
	for i, r := range results {
		rv, cerr := coerce(r, f.typ.Out(i))
		if cerr != nil {
			return f.fail(&ValidationError{Kind: KindReturn, Value: r, Err: cerr})
		}
		out[i] = rv
	}
	return out
}

// fail reports err through the trailing error result, or panics when the
// function has none.
func (f *Func) fail(err error) []reflect.Value {
	if f.errIndex < 0 {
		panic(err)
	}
	out := make([]reflect.Value, f.typ.NumOut())
	for i := range out {
		out[i] = reflect.Zero(f.typ.Out(i))
	}
	out[f.errIndex] = reflect.ValueOf(&err).Elem()
	return out
}
