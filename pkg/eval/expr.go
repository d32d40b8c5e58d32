package eval

import (
	"strconv"
	"strings"

	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Evaluates an expression. The value is never nil.
func (fm *frame) evalExpr(e parse.Expr) (vals.Value, error) {
	switch e := e.(type) {
	case *parse.IntLit:
		return vals.Int(e.Value), nil
	case *parse.FloatLit:
		return vals.Float(e.Value), nil
	case *parse.BoolLit:
		return vals.Bool(e.Value), nil
	case *parse.NullLit:
		return vals.Null{}, nil
	case *parse.StringLit:
		return fm.evalString(e)
	case *parse.Ident:
		if v, ok := fm.env.Lookup(e.Name); ok {
			return v, nil
		}
		return nil, fm.errorAt(e, errs.Undefined{Name: e.Name})
	case *parse.SelfExpr:
		if v, ok := fm.env.Lookup("self"); ok {
			return v, nil
		}
		return nil, fm.errorAt(e, errs.Undefined{Name: "self"})
	case *parse.ArrayLit:
		elems, err := fm.evalExprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return vals.NewArray(elems...), nil
	case *parse.StructLit:
		return fm.evalStructLit(e)
	case *parse.FnLit:
		return &Closure{e, fm.src, fm.env}, nil
	case *parse.RangeExpr:
		return fm.evalRange(e)
	case *parse.Unary:
		return fm.evalUnary(e)
	case *parse.Binary:
		return fm.evalBinary(e)
	case *parse.Assign:
		return fm.evalAssign(e)
	case *parse.Call:
		callee, err := fm.evalExpr(e.Callee)
		if err != nil {
			return nil, err
		}
		args, err := fm.evalExprs(e.Args)
		if err != nil {
			return nil, err
		}
		return fm.call(e, callee, args)
	case *parse.Index:
		target, err := fm.evalExpr(e.Target)
		if err != nil {
			return nil, err
		}
		index, err := fm.evalExpr(e.Index)
		if err != nil {
			return nil, err
		}
		return fm.index(e, target, index)
	case *parse.Field:
		target, err := fm.evalExpr(e.Target)
		if err != nil {
			return nil, err
		}
		return fm.field(e.Name, target)
	case *parse.MethodCall:
		return fm.evalMethodCall(e)
	}
	panic("unhandled expression type")
}

func (fm *frame) evalExprs(es []parse.Expr) ([]vals.Value, error) {
	vs := make([]vals.Value, len(es))
	for i, e := range es {
		v, err := fm.evalExpr(e)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func (fm *frame) evalString(e *parse.StringLit) (vals.Value, error) {
	var sb strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Text)
			continue
		}
		v, err := fm.evalExpr(part.Expr)
		if err != nil {
			return nil, err
		}
		sb.WriteString(vals.ToString(v))
	}
	// Every evaluation creates a new string, since strings are mutable.
	return vals.NewStr(sb.String()), nil
}

func (fm *frame) evalRange(e *parse.RangeExpr) (vals.Value, error) {
	var bounds [2]int64
	for i, b := range [2]parse.Expr{e.Start, e.End} {
		v, err := fm.evalExpr(b)
		if err != nil {
			return nil, err
		}
		n, ok := v.(vals.Int)
		if !ok {
			return nil, fm.errorAt(b, errs.BadType{
				What: "range bound", Valid: "int", Actual: vals.KindOf(v).String()})
		}
		bounds[i] = int64(n)
	}
	return vals.Range{Start: bounds[0], End: bounds[1]}, nil
}

func (fm *frame) evalStructLit(e *parse.StructLit) (vals.Value, error) {
	v, err := fm.evalExpr(e.Name)
	if err != nil {
		return nil, err
	}
	def, ok := v.(*StructDef)
	if !ok {
		return nil, fm.errorAt(e.Name, errs.BadType{What: "struct literal name",
			Valid: "struct definition", Actual: vals.KindOf(v).String()})
	}
	inst := &StructInstance{Def: def, fields: make([]vals.Value, len(def.Decl.Fields))}
	for _, init := range e.Fields {
		i, ok := def.fieldIdx[init.Name.Name]
		if !ok {
			return nil, fm.errorAt(init.Name,
				errs.NoField{Struct: def.Name(), Field: init.Name.Name})
		}
		v, err := fm.evalExpr(init.Value)
		if err != nil {
			return nil, err
		}
		inst.fields[i] = v
	}
	for i, decl := range def.Decl.Fields {
		if inst.fields[i] != nil {
			continue
		}
		if decl.Default == nil {
			inst.fields[i] = vals.Null{}
			continue
		}
		// Each default is evaluated afresh in its own scope, so that
		// instances never share mutable defaults.
		v, err := fm.fork(def.Src, NewEnv(def.captured)).evalExpr(decl.Default)
		if err != nil {
			return nil, fm.addFrame(err, e)
		}
		inst.fields[i] = v
	}
	return inst, nil
}

func (fm *frame) evalUnary(e *parse.Unary) (vals.Value, error) {
	v, err := fm.evalExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		switch v := v.(type) {
		case vals.Int:
			return -v, nil
		case vals.Float:
			return -v, nil
		}
		return nil, fm.errorAt(e, errs.BadType{
			What: "operand of -", Valid: "number", Actual: vals.KindOf(v).String()})
	case "!":
		if b, ok := v.(vals.Bool); ok {
			return !b, nil
		}
		return nil, fm.errorAt(e, errs.BadType{
			What: "operand of !", Valid: "bool", Actual: vals.KindOf(v).String()})
	}
	panic("unhandled unary operator " + e.Op)
}

func (fm *frame) evalBinary(e *parse.Binary) (vals.Value, error) {
	left, err := fm.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == "&&" || e.Op == "||" {
		l, ok := left.(vals.Bool)
		if !ok {
			return nil, fm.errorAt(e.Left, errs.BadType{What: "left operand of " + e.Op,
				Valid: "bool", Actual: vals.KindOf(left).String()})
		}
		if bool(l) == (e.Op == "||") {
			return l, nil
		}
		right, err := fm.evalExpr(e.Right)
		if err != nil {
			return nil, err
		}
		if _, ok := right.(vals.Bool); !ok {
			return nil, fm.errorAt(e.Right, errs.BadType{What: "right operand of " + e.Op,
				Valid: "bool", Actual: vals.KindOf(right).String()})
		}
		return right, nil
	}
	right, err := fm.evalExpr(e.Right)
	if err != nil {
		return nil, err
	}
	v, err := binaryOp(e.Op, left, right)
	if err != nil {
		return nil, fm.errorAt(e, err)
	}
	return v, nil
}

func (fm *frame) evalMethodCall(e *parse.MethodCall) (vals.Value, error) {
	target, err := fm.evalExpr(e.Target)
	if err != nil {
		return nil, err
	}
	args, err := fm.evalExprs(e.Args)
	if err != nil {
		return nil, err
	}
	name := e.Name.Name
	switch target := target.(type) {
	case *StructInstance:
		if m, ok := target.Def.methods[name]; ok {
			return fm.call(e, BoundMethod{target, m}, args)
		}
		if v, ok := target.Field(name); ok {
			return fm.call(e, v, args)
		}
		return nil, fm.errorAt(e.Name, errs.NoMethod{Receiver: target.Def.Name(), Method: name})
	case *vals.Array:
		if m, ok := arrayMethods[name]; ok {
			if len(args) != m.arity {
				return nil, fm.errorAt(e, errs.ArityMismatch{What: "arguments of " + name,
					ValidLow: m.arity, ValidHigh: m.arity, Actual: len(args)})
			}
			v, err := m.impl(target, args)
			if err != nil {
				return nil, fm.errorAt(e, err)
			}
			return v, nil
		}
	}
	return nil, fm.errorAt(e.Name, errs.NoMethod{
		Receiver: receiverName(target), Method: name})
}

type arrayMethod struct {
	arity int
	impl  func(a *vals.Array, args []vals.Value) (vals.Value, error)
}

var arrayMethods = map[string]arrayMethod{
	"push": {1, func(a *vals.Array, args []vals.Value) (vals.Value, error) {
		a.Push(args[0])
		return vals.Null{}, nil
	}},
	"pop": {0, func(a *vals.Array, args []vals.Value) (vals.Value, error) {
		v, ok := a.Pop()
		if !ok {
			return nil, errs.OutOfRange{What: "pop from array", ValidLow: 0, ValidHigh: -1, Actual: "empty"}
		}
		return v, nil
	}},
}

func receiverName(v vals.Value) string {
	if inst, ok := v.(*StructInstance); ok {
		return inst.Def.Name()
	}
	return vals.KindOf(v).String()
}

// Calls a callable value. Errors are annotated with the call site.
func (fm *frame) call(site diag.Ranger, callee vals.Value, args []vals.Value) (vals.Value, error) {
	c, ok := callee.(callable)
	if !ok {
		return nil, fm.errorAt(site, errs.BadType{
			What: "callee", Valid: "fn", Actual: vals.KindOf(callee).String()})
	}
	if fm.depth >= maxCallDepth {
		return nil, fm.errorAt(site, errs.Bad{What: "call depth",
			Valid: "at most " + strconv.Itoa(maxCallDepth), Actual: strconv.Itoa(fm.depth + 1)})
	}
	fm.depth++
	v, err := c.call(fm, args)
	fm.depth--
	if err != nil {
		return nil, fm.addFrame(err, site)
	}
	return v, nil
}

// Implemented by values that can be called.
type callable interface {
	vals.Value
	call(fm *frame, args []vals.Value) (vals.Value, error)
}

// Adds the given site to the stack trace of an *Exception. Other runtime
// errors become an *Exception at the site. Control flow errors are returned
// unchanged.
func (fm *frame) addFrame(err error, site diag.Ranger) error {
	switch e := err.(type) {
	case *Exception:
		e.StackTrace = append(e.StackTrace, diag.NewContext(fm.src.Name, fm.src.Code, site))
		return e
	case retFlow, *ExitError:
		return err
	}
	return fm.errorAt(site, err)
}

// Indexes an array or a string.
func (fm *frame) index(site diag.Ranger, target, index vals.Value) (vals.Value, error) {
	switch target := target.(type) {
	case *vals.Array:
		i, err := checkIndex(index, target.Len())
		if err != nil {
			return nil, fm.errorAt(site, err)
		}
		return target.Elems[i], nil
	case *vals.Str:
		i, err := checkIndex(index, target.Len())
		if err != nil {
			return nil, fm.errorAt(site, err)
		}
		return vals.NewStrFromRunes([]rune{target.At(i)}), nil
	}
	return nil, fm.errorAt(site, errs.BadType{
		What: "indexee", Valid: "array or string", Actual: vals.KindOf(target).String()})
}

func checkIndex(index vals.Value, n int) (int, error) {
	i, ok := index.(vals.Int)
	if !ok {
		return 0, errs.BadType{What: "index", Valid: "int", Actual: vals.KindOf(index).String()}
	}
	if i < 0 || int64(i) >= int64(n) {
		return 0, errs.OutOfRange{What: "index",
			ValidLow: 0, ValidHigh: n - 1, Actual: strconv.FormatInt(int64(i), 10)}
	}
	return int(i), nil
}

// Accesses a field of a struct instance, or the length of an array or a
// string.
func (fm *frame) field(name *parse.Ident, target vals.Value) (vals.Value, error) {
	switch target := target.(type) {
	case *StructInstance:
		if v, ok := target.Field(name.Name); ok {
			return v, nil
		}
		if m, ok := target.Def.methods[name.Name]; ok {
			return BoundMethod{target, m}, nil
		}
	case *vals.Array, *vals.Str:
		if name.Name == "length" {
			n, _ := vals.Len(target)
			return vals.Int(n), nil
		}
	}
	return nil, fm.errorAt(name, errs.NoField{Struct: receiverName(target), Field: name.Name})
}
