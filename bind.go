package autosig

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// BindOption configures Bind, Declare, and Wrap.
type BindOption func(*bindConfig)

type bindConfig struct {
	names    []string
	defaults map[string]any
	receiver bool
	logger   *slog.Logger
	summary  string
}

// WithNames declares the parameter names of a positional function, one per
// Go parameter, not counting the receiver or a leading context.Context.
func WithNames(names ...string) BindOption {
	return func(c *bindConfig) {
		c.names = append([]string(nil), names...)
	}
}

// WithDefaults declares the function's own defaults. A signature default
// takes precedence; these fill in where the signature has none.
func WithDefaults(defaults map[string]any) BindOption {
	return func(c *bindConfig) {
		if c.defaults == nil {
			c.defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			c.defaults[k] = v
		}
	}
}

// WithReceiver marks the first Go parameter as a receiver, as in a method
// expression like (*T).Method. The receiver is passed through untouched.
func WithReceiver() BindOption {
	return func(c *bindConfig) {
		c.receiver = true
	}
}

// WithLogger logs binding and rejected calls at debug level.
func WithLogger(logger *slog.Logger) BindOption {
	return func(c *bindConfig) {
		c.logger = logger
	}
}

// WithSummary sets the summary line used by Doc and Describe.
func WithSummary(summary string) BindOption {
	return func(c *bindConfig) {
		c.summary = summary
	}
}

// declared is one parameter as the bound function declares it.
type declared struct {
	name       string
	typ        reflect.Type
	field      int // struct field index for struct-argument functions
	def        any
	hasDefault bool
	doc        string
	kwOnly     bool
}

// Func is a function bound to a signature. It is immutable and safe for
// concurrent use as long as the converters and validators are.
type Func struct {
	name    string
	summary string
	logger  *slog.Logger

	fn  reflect.Value
	typ reflect.Type
	sig *Signature

	receiver  bool
	lead      []reflect.Type // receiver and context, passed through
	structArg reflect.Type   // nil for positional functions

	params     []declared
	effective  []Param
	index      map[string]int
	positional int

	retIndex int
	errIndex int
}

// Bind binds sig to fn. All mismatches between the two are reported here,
// never at call time: a signature name fn does not declare, a signature
// order fn does not follow, a mandatory positional parameter after a
// defaulted one, or a return descriptor on a function without results.
//
// fn is either a positional function whose parameter names are given with
// WithNames, or a function taking a single struct (or struct pointer) whose
// exported fields are the parameters. Struct fields are named by their
// `arg` tag, take native defaults from their `default` tag, and docs from
// their `doc` tag. A first context.Context parameter is passed through.
func Bind(sig *Signature, fn any, opts ...BindOption) (*Func, error) {
	cfg := &bindConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if sig == nil {
		sig = &Signature{params: make(map[string]Param)}
	}

	f, err := inspect(fn, cfg)
	if err == nil {
		err = f.reconcile(sig)
	}
	if err != nil {
		if cfg.logger != nil {
			cfg.logger.Debug("bind failed", slog.String("func", funcName(fn)), slog.Any("err", err))
		}
		return nil, err
	}

	f.debug("bound signature", slog.Int("params", len(f.params)))
	return f, nil
}

// MustBind is like Bind but panics on error.
func MustBind(sig *Signature, fn any, opts ...BindOption) *Func {
	f, err := Bind(sig, fn, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Declare binds fn to the parameters declared right next to it. The entries,
// arranged by their positions like NewSignature arranges them, name fn's
// parameters in order and carry their descriptors, so it behaves like
// Bind(sig, fn, WithNames(sig.Names()...)) for sig := NewSignature(entries...).
func Declare(fn any, entries []Entry, opts ...BindOption) (*Func, error) {
	sig, err := NewSignature(entries...)
	if err != nil {
		return nil, err
	}
	return Bind(sig, fn, append([]BindOption{WithNames(sig.Names()...)}, opts...)...)
}

func inspect(fn any, cfg *bindConfig) (*Func, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrBind, fn)
	}

	t := rv.Type()
	f := &Func{
		name:     funcName(fn),
		summary:  cfg.summary,
		logger:   cfg.logger,
		fn:       rv,
		typ:      t,
		receiver: cfg.receiver,
		retIndex: -1,
		errIndex: -1,
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: %s: variadic functions are not supported", ErrBind, f.name)
	}

	i := 0
	if cfg.receiver {
		if t.NumIn() == 0 {
			return nil, fmt.Errorf("%w: %s: no receiver parameter", ErrBind, f.name)
		}
		f.lead = append(f.lead, t.In(0))
		i++
	}
	if i < t.NumIn() && t.In(i) == contextType {
		f.lead = append(f.lead, contextType)
		i++
	}

	rest := t.NumIn() - i
	switch {
	case cfg.names == nil && rest == 1 && isStructArg(t.In(i)):
		params, err := structParams(t.In(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBind, f.name, err)
		}
		f.structArg = t.In(i)
		f.params = params
	case len(cfg.names) != rest:
		return nil, fmt.Errorf("%w: %s: %d names declared for %d parameters", ErrBind, f.name, len(cfg.names), rest)
	default:
		for j, name := range cfg.names {
			f.params = append(f.params, declared{name: name, typ: t.In(i + j), field: -1})
		}
	}

	f.index = make(map[string]int, len(f.params))
	for j, d := range f.params {
		if d.name == "" {
			return nil, fmt.Errorf("%w: %s: empty parameter name", ErrBind, f.name)
		}
		if _, dup := f.index[d.name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate parameter %q", ErrBind, f.name, d.name)
		}
		f.index[d.name] = j
	}

	for name, v := range cfg.defaults {
		j, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s: default for unknown parameter %q%s", ErrBind, f.name, name, suggest(name, f.Names()))
		}
		f.params[j].def = v
		f.params[j].hasDefault = true
	}

	n := t.NumOut()
	if n > 0 && t.Out(n-1) == errorType {
		f.errIndex = n - 1
	}
	for k := range n {
		if k != f.errIndex {
			f.retIndex = k
			break
		}
	}

	return f, nil
}

// reconcile resolves the effective descriptor of every declared parameter
// and checks that the signature fits the function's declaration.
func (f *Func) reconcile(sig *Signature) error {
	f.sig = sig

	last := -1
	for _, name := range sig.Names() {
		i, ok := f.index[name]
		if !ok {
			return fmt.Errorf("%w: %s: unknown parameter %q%s", ErrBind, f.name, name, suggest(name, f.Names()))
		}
		if i < last {
			return fmt.Errorf("%w: %s: signature orders %q after %q but the function declares it before", ErrBind, f.name, name, f.params[last].name)
		}
		last = i
	}

	f.effective = make([]Param, len(f.params))
	for i, d := range f.params {
		p, _ := sig.Param(d.name)
		if !p.hasDefault && d.hasDefault {
			p = p.withDefault(d.def)
		}
		if p.doc == "" {
			p.doc = d.doc
		}
		if d.kwOnly {
			p.kwOnly = true
		}
		f.effective[i] = p
	}

	var defaulted, keyword string
	for i, p := range f.effective {
		name := f.params[i].name
		if p.kwOnly {
			if keyword == "" {
				keyword = name
			}
			continue
		}
		if keyword != "" {
			return fmt.Errorf("%w: %s: positional parameter %q follows keyword-only parameter %q", ErrBind, f.name, name, keyword)
		}
		if p.hasDefault {
			if defaulted == "" {
				defaulted = name
			}
		} else if defaulted != "" {
			return fmt.Errorf("%w: %s: mandatory parameter %q follows defaulted parameter %q", ErrBind, f.name, name, defaulted)
		}
		f.positional++
	}

	if _, ok := sig.Return(); ok && f.retIndex < 0 {
		return fmt.Errorf("%w: %s: return descriptor on a function without results", ErrBind, f.name)
	}

	return nil
}

// Name returns the bound function's name.
func (f *Func) Name() string { return f.name }

// Names returns the declared parameter names in order.
func (f *Func) Names() []string {
	names := make([]string, len(f.params))
	for i, d := range f.params {
		names[i] = d.name
	}
	return names
}

// Param returns the effective descriptor of a declared parameter.
func (f *Func) Param(name string) (Param, bool) {
	i, ok := f.index[name]
	if !ok {
		return Param{}, false
	}
	return f.effective[i], true
}

// Signature returns the signature f was bound to.
func (f *Func) Signature() *Signature { return f.sig }

// Receiver reports whether f was bound with WithReceiver.
func (f *Func) Receiver() bool { return f.receiver }

func (f *Func) debug(msg string, attrs ...slog.Attr) {
	if f.logger == nil {
		return
	}
	attrs = append([]slog.Attr{slog.String("func", f.name)}, attrs...)
	f.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// suggest returns a "did you mean" hint for a name close to one of the
// candidates, or "".
func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		for _, c := range candidates {
			if fuzzy.MatchFold(c, name) {
				ranks = append(ranks, fuzzy.Rank{Source: c, Target: c, Distance: len(name) - len(c)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return fmt.Sprintf(" (did you mean %q?)", ranks[0].Target)
}
