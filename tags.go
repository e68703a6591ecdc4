package autosig

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Struct tags read from struct-argument functions.
const (
	tagArg     = "arg"
	tagDefault = "default"
	tagDoc     = "doc"
)

// isStructArg reports whether t is a struct or a pointer to a struct.
func isStructArg(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// structParams returns the declared parameters of a struct argument type:
// one per exported field not tagged `arg:"-"`.
func structParams(t reflect.Type) ([]declared, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var params []declared
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, opts := tagOptions(f.Tag.Get(tagArg))
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}

		d := declared{
			name:   name,
			typ:    f.Type,
			field:  i,
			doc:    f.Tag.Get(tagDoc),
			kwOnly: tagContains(opts, "kwonly"),
		}

		if def, ok := f.Tag.Lookup(tagDefault); ok {
			v, err := parseTagValue(f.Type, def)
			if err != nil {
				return nil, fmt.Errorf("default of %s: %w", name, err)
			}
			d.def = v
			d.hasDefault = true
		}

		params = append(params, d)
	}
	return params, nil
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// tagContains reports whether a comma-separated list of options
// contains a particular option.
func tagContains(opts string, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}

// parseTagValue parses a `default` tag into a value of type t.
func parseTagValue(t reflect.Type, value string) (any, error) {
	field := reflect.New(t).Elem()

	if t == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		field.SetInt(int64(d))
		return field.Interface(), nil
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return nil, err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		field.SetBool(b)
	case reflect.Interface:
		if !reflect.TypeFor[string]().AssignableTo(t) {
			return nil, fmt.Errorf("unsupported type: %s", t)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t)
	}
	return field.Interface(), nil
}
