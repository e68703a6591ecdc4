package autosig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParamDoc documents one parameter.
type ParamDoc struct {
	Name     string      `json:"name" yaml:"name"`
	Position int         `json:"position" yaml:"position"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	KWOnly   bool        `json:"kwOnly,omitempty" yaml:"kwOnly,omitempty"`
	Default  any         `json:"default,omitempty" yaml:"default,omitempty"`
	Doc      string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Schema   *JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ReturnDoc documents the return value.
type ReturnDoc struct {
	Doc    string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Schema *JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// FuncDoc documents a signature or a bound function.
type FuncDoc struct {
	Name    string     `json:"name,omitempty" yaml:"name,omitempty"`
	Summary string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Params  []ParamDoc `json:"params" yaml:"params"`
	Returns *ReturnDoc `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Describe documents a signature on its own. Types are unknown until the
// signature is bound, so the docs carry no schemas.
func Describe(sig *Signature) FuncDoc {
	doc := FuncDoc{Params: make([]ParamDoc, 0, sig.Len())}
	for i, e := range sig.Entries() {
		doc.Params = append(doc.Params, paramDoc(i, e.Name, e.Param))
	}
	if r, ok := sig.Return(); ok {
		doc.Returns = &ReturnDoc{Doc: r.Doc()}
	}
	return doc
}

// Describe documents f with the effective descriptors and Go types of its
// parameters.
func (f *Func) Describe() FuncDoc {
	doc := FuncDoc{
		Name:    f.name,
		Summary: f.summary,
		Params:  make([]ParamDoc, 0, len(f.params)),
	}
	for i, d := range f.params {
		pd := paramDoc(i, d.name, f.effective[i])
		schema := SchemaFor(d.typ)
		pd.Schema = &schema
		doc.Params = append(doc.Params, pd)
	}
	if r, ok := f.sig.Return(); ok {
		schema := SchemaFor(f.typ.Out(f.retIndex))
		doc.Returns = &ReturnDoc{Doc: r.Doc(), Schema: &schema}
	}
	return doc
}

func paramDoc(i int, name string, p Param) ParamDoc {
	def, ok := p.Default()
	return ParamDoc{
		Name:     name,
		Position: i,
		Required: !ok,
		KWOnly:   p.KWOnly(),
		Default:  def,
		Doc:      p.Doc(),
	}
}

// Doc renders f's documentation as text: the summary, then a Parameters
// section listing each parameter with its docstring, then a Returns section
// when there is a return descriptor.
func (f *Func) Doc() string {
	return f.Describe().String()
}

// String renders the doc as text.
func (d FuncDoc) String() string {
	var b strings.Builder

	summary := d.Summary
	if summary == "" {
		summary = d.Name
	}
	if summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	b.WriteString("Parameters\n----------\n")
	for _, p := range d.Params {
		fmt.Fprintf(&b, "%s", p.Name)
		if p.Schema != nil && p.Schema.Type != "" {
			fmt.Fprintf(&b, " : %s", p.Schema.Type)
		}
		if !p.Required {
			fmt.Fprintf(&b, ", default %v", p.Default)
		}
		if p.KWOnly {
			b.WriteString(", keyword-only")
		}
		b.WriteString("\n")
		if p.Doc != "" {
			fmt.Fprintf(&b, "    %s\n", p.Doc)
		}
	}

	if d.Returns != nil {
		b.WriteString("\nReturns\n-------\n")
		if d.Returns.Schema != nil && d.Returns.Schema.Type != "" {
			fmt.Fprintf(&b, "%s\n", d.Returns.Schema.Type)
		}
		if d.Returns.Doc != "" {
			fmt.Fprintf(&b, "    %s\n", d.Returns.Doc)
		}
	}

	return b.String()
}

// WriteJSON writes the doc as indented JSON to w.
func (d FuncDoc) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteYAML writes the doc as YAML to w.
func (d FuncDoc) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}
