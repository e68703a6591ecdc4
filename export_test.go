package autosig

import "reflect"

// Test-only exports for internal functions.
var (
	TagOptions     = tagOptions
	TagContains    = tagContains
	ParseTagValue  = parseTagValue
	JSONFieldName  = jsonFieldName
	Suggest        = suggest
	StructArgument = isStructArg
)

// Coerce exposes coerce with an interface result for external tests.
func Coerce(v any, t reflect.Type) (any, error) {
	rv, err := coerce(v, t)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}
