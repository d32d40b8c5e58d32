package eval

import (
	"strings"

	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Evaluates an assignment. The target is evaluated once, also for compound
// assignments. The value of the assignment is the assigned value.
func (fm *frame) evalAssign(e *parse.Assign) (vals.Value, error) {
	// The binary operator of a compound assignment, or "" for plain "=".
	op := strings.TrimSuffix(e.Op, "=")

	switch target := e.Target.(type) {
	case *parse.Ident:
		get := func() (vals.Value, error) { return fm.evalExpr(target) }
		v, err := fm.assignedValue(e, op, get)
		if err != nil {
			return nil, err
		}
		if err := fm.env.Assign(target.Name, v); err != nil {
			return nil, fm.errorAt(target, err)
		}
		return v, nil
	case *parse.Index:
		container, err := fm.evalExpr(target.Target)
		if err != nil {
			return nil, err
		}
		index, err := fm.evalExpr(target.Index)
		if err != nil {
			return nil, err
		}
		get := func() (vals.Value, error) { return fm.index(target, container, index) }
		v, err := fm.assignedValue(e, op, get)
		if err != nil {
			return nil, err
		}
		if err := setIndex(container, index, v); err != nil {
			return nil, fm.errorAt(target, err)
		}
		return v, nil
	case *parse.Field:
		obj, err := fm.evalExpr(target.Target)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*StructInstance)
		if !ok {
			return nil, fm.errorAt(target.Target, errs.BadType{What: "target of field assignment",
				Valid: "struct", Actual: vals.KindOf(obj).String()})
		}
		if _, ok := inst.Field(target.Name.Name); !ok {
			return nil, fm.errorAt(target.Name,
				errs.NoField{Struct: inst.Def.Name(), Field: target.Name.Name})
		}
		get := func() (vals.Value, error) { return fm.field(target.Name, inst) }
		v, err := fm.assignedValue(e, op, get)
		if err != nil {
			return nil, err
		}
		inst.SetField(target.Name.Name, v)
		return v, nil
	}
	// The parser only accepts the target types above.
	panic("unhandled assignment target")
}

// Evaluates the value to store. For a compound assignment, get returns the
// current value of the target.
func (fm *frame) assignedValue(e *parse.Assign, op string, get func() (vals.Value, error)) (vals.Value, error) {
	if op == "" {
		return fm.evalExpr(e.Value)
	}
	old, err := get()
	if err != nil {
		return nil, err
	}
	rhs, err := fm.evalExpr(e.Value)
	if err != nil {
		return nil, err
	}
	v, err := binaryOp(op, old, rhs)
	if err != nil {
		return nil, fm.errorAt(e, err)
	}
	return v, nil
}

// Replaces an element of an array, or a character of a string. A string
// element must be replaced by a one-character string.
func setIndex(container, index, v vals.Value) error {
	switch container := container.(type) {
	case *vals.Array:
		i, err := checkIndex(index, container.Len())
		if err != nil {
			return err
		}
		container.Elems[i] = v
		return nil
	case *vals.Str:
		i, err := checkIndex(index, container.Len())
		if err != nil {
			return err
		}
		s, ok := v.(*vals.Str)
		if !ok {
			return errs.BadType{What: "string element", Valid: "string",
				Actual: vals.KindOf(v).String()}
		}
		if s.Len() != 1 {
			return errs.Bad{What: "string element", Valid: "a single character",
				Actual: parse.Quote(s.String())}
		}
		container.SetAt(i, s.At(0))
		return nil
	}
	return errs.BadType{What: "target of index assignment", Valid: "array or string",
		Actual: vals.KindOf(container).String()}
}
