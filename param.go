package autosig

// Param describes one formal argument: its default, converter, validator,
// docstring, preferred position, and whether it is keyword-only.
//
// A Param is a value; once built it never changes. Combining signatures
// produces new Params rather than editing existing ones.
type Param struct {
	def        any
	hasDefault bool
	converter  Converter
	validator  Validator
	doc        string
	position   int
	positioned bool
	kwOnly     bool
}

// ParamOption configures a Param.
type ParamOption interface {
	applyParam(*Param)
}

// RetvalOption configures a Retval.
type RetvalOption interface {
	applyRetval(*Retval)
}

// DescriptorOption configures both a Param and a Retval.
type DescriptorOption interface {
	ParamOption
	RetvalOption
}

type paramOption func(*Param)

func (o paramOption) applyParam(p *Param) { o(p) }

type descriptorOption struct {
	param  func(*Param)
	retval func(*Retval)
}

func (o descriptorOption) applyParam(p *Param)   { o.param(p) }
func (o descriptorOption) applyRetval(r *Retval) { o.retval(r) }

// WithDefault sets the default value. Without it the parameter is
// mandatory unless the bound function declares a default of its own.
// A nil default is a real default.
func WithDefault(v any) ParamOption {
	return paramOption(func(p *Param) {
		p.def = v
		p.hasDefault = true
	})
}

// WithPosition sets the preferred position of the parameter within a
// signature. Negative values count from the end, so -1 is last.
func WithPosition(n int) ParamOption {
	return paramOption(func(p *Param) {
		p.position = n
		p.positioned = true
	})
}

// WithKWOnly makes the parameter keyword-only.
func WithKWOnly() ParamOption {
	return paramOption(func(p *Param) {
		p.kwOnly = true
	})
}

// WithConverter sets the converter applied to the raw value before validation.
func WithConverter(c Converter) DescriptorOption {
	return descriptorOption{
		param:  func(p *Param) { p.converter = c },
		retval: func(r *Retval) { r.converter = c },
	}
}

// WithValidator sets the validator applied to the converted value.
func WithValidator(v Validator) DescriptorOption {
	return descriptorOption{
		param:  func(p *Param) { p.validator = v },
		retval: func(r *Retval) { r.validator = v },
	}
}

// WithDoc sets the docstring fragment.
func WithDoc(doc string) DescriptorOption {
	return descriptorOption{
		param:  func(p *Param) { p.doc = doc },
		retval: func(r *Retval) { r.doc = doc },
	}
}

// NewParam creates a Param. With no options the parameter is mandatory,
// unordered, positional, unconverted, and always valid.
func NewParam(opts ...ParamOption) Param {
	var p Param
	for _, opt := range opts {
		if opt != nil {
			opt.applyParam(&p)
		}
	}
	return p
}

// Default returns the default value and whether there is one.
func (p Param) Default() (any, bool) { return p.def, p.hasDefault }

// Doc returns the docstring fragment.
func (p Param) Doc() string { return p.doc }

// Position returns the preferred position and whether one was set.
func (p Param) Position() (int, bool) { return p.position, p.positioned }

// KWOnly reports whether the parameter is keyword-only.
func (p Param) KWOnly() bool { return p.kwOnly }

// Convert applies the converter, or returns v unchanged when there is none.
func (p Param) Convert(v any) (any, error) {
	if p.converter == nil {
		return v, nil
	}
	return p.converter(v)
}

// Check applies the validator. A Param without one accepts everything.
func (p Param) Check(v any) error {
	if p.validator == nil {
		return nil
	}
	return p.validator(v)
}

func (p Param) withDefault(v any) Param {
	p.def = v
	p.hasDefault = true
	return p
}

// Retval describes the return value of a bound function. It carries only a
// converter, a validator, and a docstring.
type Retval struct {
	converter Converter
	validator Validator
	doc       string
}

// NewRetval creates a Retval.
func NewRetval(opts ...RetvalOption) Retval {
	var r Retval
	for _, opt := range opts {
		if opt != nil {
			opt.applyRetval(&r)
		}
	}
	return r
}

// Doc returns the docstring for the Returns section.
func (r Retval) Doc() string { return r.doc }

// Apply converts then validates v. Validator failures come back as
// *ValidationError of kind KindReturn; converter failures are returned as is.
func (r Retval) Apply(v any) (any, error) {
	if r.converter != nil {
		var err error
		if v, err = r.converter(v); err != nil {
			return nil, err
		}
	}
	if r.validator != nil {
		if err := r.validator(v); err != nil {
			return nil, &ValidationError{Kind: KindReturn, Value: v, Err: err}
		}
	}
	return v, nil
}
