package eval

import (
	"strings"

	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// StructDef is the value of a struct declaration.
type StructDef struct {
	Decl *parse.StructDecl
	Src  parse.Source
	// The declaring scope. Defaults are evaluated and methods are called in
	// children of it.
	captured *Env
	fieldIdx map[string]int
	methods  map[string]*parse.FnLit
}

func newStructDef(decl *parse.StructDecl, src parse.Source, env *Env) *StructDef {
	def := &StructDef{Decl: decl, Src: src, captured: env,
		fieldIdx: map[string]int{}, methods: map[string]*parse.FnLit{}}
	for i, f := range decl.Fields {
		def.fieldIdx[f.Name.Name] = i
	}
	for _, m := range decl.Methods {
		def.methods[m.Name] = m
	}
	return def
}

// Name returns the name of the struct.
func (d *StructDef) Name() string { return d.Decl.Name.Name }

// FieldNames returns the names of the fields in declaration order.
func (d *StructDef) FieldNames() []string {
	names := make([]string, len(d.Decl.Fields))
	for i, f := range d.Decl.Fields {
		names[i] = f.Name.Name
	}
	return names
}

func (*StructDef) Kind() vals.Kind { return vals.StructDefKind }

func (d *StructDef) Repr(func(vals.Value) string) string {
	return "<struct " + d.Name() + ">"
}

// StructInstance is an instance of a struct. It is a reference value.
type StructInstance struct {
	Def *StructDef
	// Field values, indexed like Def.Decl.Fields.
	fields []vals.Value
}

func (*StructInstance) Kind() vals.Kind { return vals.StructKind }

// Field returns the value of a field.
func (s *StructInstance) Field(name string) (vals.Value, bool) {
	i, ok := s.Def.fieldIdx[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// SetField sets the value of a declared field, and reports whether the field
// exists.
func (s *StructInstance) SetField(name string, v vals.Value) bool {
	i, ok := s.Def.fieldIdx[name]
	if ok {
		s.fields[i] = v
	}
	return ok
}

func (s *StructInstance) Repr(nested func(vals.Value) string) string {
	if len(s.fields) == 0 {
		return s.Def.Name() + " {}"
	}
	var sb strings.Builder
	sb.WriteString(s.Def.Name() + " { ")
	for i, f := range s.Def.Decl.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name.Name + ": " + nested(s.fields[i]))
	}
	sb.WriteString(" }")
	return sb.String()
}

// Equal compares the fields of two instances of the same struct.
func (s *StructInstance) Equal(other vals.Value, eq func(a, b vals.Value) bool) bool {
	o, ok := other.(*StructInstance)
	if !ok || o.Def != s.Def {
		return false
	}
	for i := range s.fields {
		if !eq(s.fields[i], o.fields[i]) {
			return false
		}
	}
	return true
}

func (s *StructInstance) DeepCopy(remember func(vals.Value), copy func(vals.Value) vals.Value) vals.Value {
	dup := &StructInstance{Def: s.Def, fields: make([]vals.Value, len(s.fields))}
	remember(dup)
	for i, f := range s.fields {
		dup.fields[i] = copy(f)
	}
	return dup
}

// BoundMethod is a method together with its receiver, the value of
// "instance.method" without a call.
type BoundMethod struct {
	Recv   *StructInstance
	Method *parse.FnLit
}

func (BoundMethod) Kind() vals.Kind { return vals.FnKind }

func (m BoundMethod) Repr(func(vals.Value) string) string {
	return "<method " + m.Recv.Def.Name() + "." + m.Method.Name + ">"
}

func (m BoundMethod) call(fm *frame, args []vals.Value) (vals.Value, error) {
	def := m.Recv.Def
	return callFnLit(fm, m.Method, def.Src, def.captured, m.Recv, args)
}
