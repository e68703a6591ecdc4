package autosig

import (
	"cmp"
	"fmt"
	"slices"
)

// Entry pairs a parameter name with its descriptor.
type Entry struct {
	Name  string
	Param Param
}

// Arg creates an Entry.
func Arg(name string, p Param) Entry {
	return Entry{Name: name, Param: p}
}

// Signature is an ordered set of named parameter descriptors, plus an
// optional return descriptor and an optional signature-level check.
//
// Signatures never change after construction. Add, WithReturn, and
// WithCheck all return new values.
type Signature struct {
	names  []string
	params map[string]Param
	ret    *Retval
	check  func(Args) error
}

// NewSignature creates a Signature from entries.
//
// Entries without a position keep the order they are given in. An entry
// with a position is placed at that slot of the final order, counting from
// the end when negative, and unordered entries move around it. A position
// beyond the entries' range is kept, so the entry takes that slot once
// Combine makes the signature long enough; until then it sorts to the
// nearer end. Duplicate names and two entries claiming the same slot are
// ErrSignature errors.
func NewSignature(entries ...Entry) (*Signature, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: empty parameter name", ErrSignature)
		}
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrSignature, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return build(entries)
}

// MustSignature is like NewSignature but panics on error.
func MustSignature(entries ...Entry) *Signature {
	s, err := NewSignature(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

func build(entries []Entry) (*Signature, error) {
	ordered, err := arrange(entries)
	if err != nil {
		return nil, err
	}
	s := &Signature{
		names:  make([]string, len(ordered)),
		params: make(map[string]Param, len(ordered)),
	}
	for i, e := range ordered {
		s.names[i] = e.Name
		s.params[e.Name] = e.Param
	}
	return s, nil
}

// arrange places positioned entries at their slots and fills the remaining
// slots with unordered entries in encounter order. A position beyond either
// end of the signature is kept on the entry and, until a larger signature
// brings it into range, sorts before (negative) or after (positive) every
// unordered entry.
func arrange(entries []Entry) ([]Entry, error) {
	n := len(entries)
	slots := make([]*Entry, n)
	floating := make([]Entry, 0, n)
	var before, after []Entry
	claimed := make(map[int]string)

	for i := range entries {
		e := &entries[i]
		pos, ok := e.Param.Position()
		if !ok {
			floating = append(floating, *e)
			continue
		}
		slot := pos
		if slot < 0 {
			slot += n
		}
		switch {
		case slot < 0 || slot >= n:
			if prev, dup := claimed[pos]; dup {
				return nil, fmt.Errorf("%w: %q and %q both claim position %d", ErrSignature, prev, e.Name, pos)
			}
			claimed[pos] = e.Name
			if slot < 0 {
				before = append(before, *e)
			} else {
				after = append(after, *e)
			}
		case slots[slot] != nil:
			return nil, fmt.Errorf("%w: %q and %q both claim position %d", ErrSignature, slots[slot].Name, e.Name, slot)
		default:
			slots[slot] = e
		}
	}

	byPosition := func(a, b Entry) int {
		pa, _ := a.Param.Position()
		pb, _ := b.Param.Position()
		return cmp.Compare(pa, pb)
	}
	slices.SortFunc(before, byPosition)
	slices.SortFunc(after, byPosition)

	rest := slices.Concat(before, floating, after)
	out := make([]Entry, n)
	next := 0
	for i, e := range slots {
		if e != nil {
			out[i] = *e
			continue
		}
		out[i] = rest[next]
		next++
	}
	return out, nil
}

// Names returns the parameter names in order.
func (s *Signature) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

// Len returns the number of parameters.
func (s *Signature) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Param returns the descriptor for name.
func (s *Signature) Param(name string) (Param, bool) {
	if s == nil {
		return Param{}, false
	}
	p, ok := s.params[name]
	return p, ok
}

// Entries returns the parameters in order.
func (s *Signature) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.names))
	for i, name := range s.names {
		out[i] = Entry{Name: name, Param: s.params[name]}
	}
	return out
}

// Return returns the return descriptor, if any.
func (s *Signature) Return() (Retval, bool) {
	if s == nil || s.ret == nil {
		return Retval{}, false
	}
	return *s.ret, true
}

// WithReturn returns a copy of s with r as its return descriptor.
func (s *Signature) WithReturn(r Retval) *Signature {
	c := s.clone()
	c.ret = &r
	return c
}

// WithCheck returns a copy of s with fn as its signature-level check. fn
// sees every converted and validated argument; a non-nil error rejects the
// call.
func (s *Signature) WithCheck(fn func(Args) error) *Signature {
	c := s.clone()
	c.check = fn
	return c
}

func (s *Signature) clone() *Signature {
	c := &Signature{params: make(map[string]Param)}
	if s == nil {
		return c
	}
	c.names = slices.Clone(s.names)
	for k, v := range s.params {
		c.params[k] = v
	}
	c.ret = s.ret
	c.check = s.check
	return c
}

// Add combines s with other. See Combine.
func (s *Signature) Add(other *Signature) (*Signature, error) {
	return Combine(s, other)
}

// Combine merges two signatures into a new one.
//
// The result holds the union of both parameter sets. Names only in b are
// appended after a's. When a name is in both, b's descriptor wins but the
// name keeps a's slot; the merged descriptor keeps a's position unless b's
// sets its own. b's return descriptor and check replace a's when present.
// Neither operand is modified.
func Combine(a, b *Signature) (*Signature, error) {
	merged := a.Entries()
	index := make(map[string]int, len(merged))
	for i, e := range merged {
		index[e.Name] = i
	}

	for _, e := range b.Entries() {
		i, ok := index[e.Name]
		if !ok {
			index[e.Name] = len(merged)
			merged = append(merged, e)
			continue
		}
		p := e.Param
		if _, has := p.Position(); !has {
			p.position, p.positioned = merged[i].Param.Position()
		}
		merged[i].Param = p
	}

	out, err := build(merged)
	if err != nil {
		return nil, err
	}

	if r, ok := b.Return(); ok {
		out.ret = &r
	} else if r, ok := a.Return(); ok {
		out.ret = &r
	}

	switch {
	case b != nil && b.check != nil:
		out.check = b.check
	case a != nil:
		out.check = a.check
	}

	return out, nil
}

// MustCombine folds Combine over sigs and panics on error.
func MustCombine(sigs ...*Signature) *Signature {
	out := &Signature{params: make(map[string]Param)}
	for _, s := range sigs {
		var err error
		if out, err = Combine(out, s); err != nil {
			panic(err)
		}
	}
	return out
}
