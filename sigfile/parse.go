package sigfile

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bjaus/autosig"
)

var (
	documentKeys = []string{"params", "return"}
	paramKeys    = []string{"name", "default", "convert", "type", "enum", "schema", "doc", "position", "kw_only"}
	returnKeys   = []string{"convert", "type", "enum", "schema", "doc"}
)

type parser struct {
	converters map[string]autosig.Converter
	types      map[string]reflect.Type
}

// descriptorDecl holds the keys shared by parameters and the return block.
type descriptorDecl struct {
	Convert string `mapstructure:"convert"`
	Type    string `mapstructure:"type"`
	Enum    []any  `mapstructure:"enum"`
	Schema  any    `mapstructure:"schema"`
	Doc     string `mapstructure:"doc"`
}

type paramDecl struct {
	descriptorDecl `mapstructure:",squash"`

	Name     string `mapstructure:"name"`
	Default  any    `mapstructure:"default"`
	Position *int   `mapstructure:"position"`
	KWOnly   bool   `mapstructure:"kw_only"`
}

func (p *parser) parse(raw map[string]any) (*autosig.Signature, error) {
	if err := checkKeys("document", raw, documentKeys); err != nil {
		return nil, err
	}

	var doc struct {
		Params []map[string]any `mapstructure:"params"`
		Return map[string]any   `mapstructure:"return"`
	}
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", autosig.ErrSignature, err)
	}

	entries := make([]autosig.Entry, 0, len(doc.Params))
	for i, m := range doc.Params {
		e, err := p.param(m)
		if err != nil {
			return nil, fmt.Errorf("params[%d]: %w", i, err)
		}
		entries = append(entries, e)
	}

	sig, err := autosig.NewSignature(entries...)
	if err != nil {
		return nil, err
	}

	if doc.Return != nil {
		if err := checkKeys("return", doc.Return, returnKeys); err != nil {
			return nil, err
		}
		var decl descriptorDecl
		if err := mapstructure.Decode(doc.Return, &decl); err != nil {
			return nil, fmt.Errorf("%w: return: %w", autosig.ErrSignature, err)
		}
		opts, err := p.descriptor(decl)
		if err != nil {
			return nil, fmt.Errorf("return: %w", err)
		}
		ropts := make([]autosig.RetvalOption, len(opts))
		for i, o := range opts {
			ropts[i] = o
		}
		sig = sig.WithReturn(autosig.NewRetval(ropts...))
	}

	return sig, nil
}

func (p *parser) param(m map[string]any) (autosig.Entry, error) {
	if err := checkKeys("param", m, paramKeys); err != nil {
		return autosig.Entry{}, err
	}

	var decl paramDecl
	if err := mapstructure.Decode(m, &decl); err != nil {
		return autosig.Entry{}, fmt.Errorf("%w: %w", autosig.ErrSignature, err)
	}
	if decl.Name == "" {
		return autosig.Entry{}, fmt.Errorf("%w: param without a name", autosig.ErrSignature)
	}

	desc, err := p.descriptor(decl.descriptorDecl)
	if err != nil {
		return autosig.Entry{}, fmt.Errorf("%s: %w", decl.Name, err)
	}

	opts := make([]autosig.ParamOption, 0, len(desc)+3)
	for _, o := range desc {
		opts = append(opts, o)
	}
	if _, ok := m["default"]; ok {
		opts = append(opts, autosig.WithDefault(decl.Default))
	}
	if decl.Position != nil {
		opts = append(opts, autosig.WithPosition(*decl.Position))
	}
	if decl.KWOnly {
		opts = append(opts, autosig.WithKWOnly())
	}

	return autosig.Arg(decl.Name, autosig.NewParam(opts...)), nil
}

// descriptor resolves the converter and validators of a declaration.
func (p *parser) descriptor(decl descriptorDecl) ([]autosig.DescriptorOption, error) {
	var opts []autosig.DescriptorOption
	if decl.Doc != "" {
		opts = append(opts, autosig.WithDoc(decl.Doc))
	}

	var conv autosig.Converter
	if decl.Convert != "" {
		c, ok := p.converters[decl.Convert]
		if !ok {
			return nil, fmt.Errorf("%w: unknown converter %q%s", autosig.ErrSignature, decl.Convert, suggest(decl.Convert, slices.Sorted(maps.Keys(p.converters))))
		}
		conv = c
		opts = append(opts, autosig.WithConverter(c))
	}

	var vs []autosig.Validator

	if decl.Type != "" {
		t, ok := p.types[decl.Type]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type %q%s", autosig.ErrSignature, decl.Type, suggest(decl.Type, slices.Sorted(maps.Keys(p.types))))
		}
		v, err := autosig.Check(t)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}

	if len(decl.Enum) > 0 {
		values := make([]any, len(decl.Enum))
		for i, v := range decl.Enum {
			if conv == nil {
				values[i] = v
				continue
			}
			c, err := conv(v)
			if err != nil {
				return nil, fmt.Errorf("%w: enum value %v: %w", autosig.ErrSignature, v, err)
			}
			values[i] = c
		}
		vs = append(vs, autosig.OneOf(values...))
	}

	if decl.Schema != nil {
		doc, ok := decl.Schema.(string)
		if !ok {
			b, err := json.Marshal(decl.Schema)
			if err != nil {
				return nil, fmt.Errorf("%w: schema: %w", autosig.ErrSignature, err)
			}
			doc = string(b)
		}
		v, err := autosig.Schema(doc)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}

	switch len(vs) {
	case 0:
	case 1:
		opts = append(opts, autosig.WithValidator(vs[0]))
	default:
		opts = append(opts, autosig.WithValidator(autosig.All(vs...)))
	}

	return opts, nil
}

// checkKeys rejects keys outside known, suggesting the closest match.
func checkKeys(where string, m map[string]any, known []string) error {
	keys := slices.Sorted(maps.Keys(m))
	for _, k := range keys {
		if !slices.Contains(known, k) {
			return fmt.Errorf("%w: %s: unknown key %q%s", autosig.ErrSignature, where, k, suggest(k, known))
		}
	}
	return nil
}

func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		for _, c := range candidates {
			if fuzzy.MatchNormalizedFold(c, name) {
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
