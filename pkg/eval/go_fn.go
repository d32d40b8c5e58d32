package eval

import (
	"errors"
	"io"
	"reflect"
	"strconv"

	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
)

// CallCtx is passed to Go functions that declare it as their first
// parameter. It gives access to the state of the caller.
type CallCtx struct {
	fm *frame
}

// Stdout returns the writer for the output of the evaluation.
func (c *CallCtx) Stdout() io.Writer { return c.fm.out }

// Lookup looks up a name in the scope of the call site.
func (c *CallCtx) Lookup(name string) (vals.Value, bool) {
	return c.fm.env.Lookup(name)
}

// GoFn is a builtin function implemented in Go.
type GoFn struct {
	name string
	impl any

	// If true, pass a *CallCtx as the first argument.
	ctx bool
	// Types of the non-variadic parameters.
	normalArgs []reflect.Type
	// Element type of the variadic parameter, or nil.
	variadicArg reflect.Type
}

var (
	callCtxType = reflect.TypeOf((*CallCtx)(nil))
	valueType   = reflect.TypeOf((*vals.Value)(nil)).Elem()
	float64Type = reflect.TypeOf(0.0)
	intType     = reflect.TypeOf(0)
	stringType  = reflect.TypeOf("")
	// error(nil) is treated as nil by reflect.TypeOf, so we first get the
	// type of *error and use Elem to obtain type of error.
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// NewGoFn wraps a Go function into a builtin using reflection.
//
// If the first parameter has type *CallCtx, it gets the context of the call.
// Other parameters determine the arity, and a variadic parameter accepts any
// number of trailing arguments. Each argument is converted to the parameter
// type: vals.Value accepts anything, a concrete value type like vals.Int or
// *vals.Str accepts only values of that kind, float64 accepts any number,
// int accepts an Int and string accepts a String.
//
// The function may return nothing, a value or an error, or a value followed
// by an error. Any Go value accepted by vals.FromGo may be returned. A nil
// error is ignored; a non-nil one becomes a runtime error of the call.
func NewGoFn(name string, impl any) *GoFn {
	implType := reflect.TypeOf(impl)
	if implType.Kind() != reflect.Func {
		panic("NewGoFn: impl must be a function")
	}
	b := &GoFn{name: name, impl: impl}
	i := 0
	if i < implType.NumIn() && implType.In(i) == callCtxType {
		b.ctx = true
		i++
	}
	for ; i < implType.NumIn(); i++ {
		paramType := implType.In(i)
		if i == implType.NumIn()-1 && implType.IsVariadic() {
			b.variadicArg = paramType.Elem()
			break
		}
		b.normalArgs = append(b.normalArgs, paramType)
	}
	return b
}

// Name returns the name of the builtin.
func (b *GoFn) Name() string { return b.name }

func (*GoFn) Kind() vals.Kind { return vals.FnKind }

func (b *GoFn) Repr(func(vals.Value) string) string {
	return "<builtin " + b.name + ">"
}

func (b *GoFn) call(fm *frame, args []vals.Value) (vals.Value, error) {
	if b.variadicArg != nil {
		if len(args) < len(b.normalArgs) {
			return nil, errs.ArityMismatch{What: "arguments of " + b.name,
				ValidLow: len(b.normalArgs), ValidHigh: -1, Actual: len(args)}
		}
	} else if len(args) != len(b.normalArgs) {
		return nil, errs.ArityMismatch{What: "arguments of " + b.name,
			ValidLow: len(b.normalArgs), ValidHigh: len(b.normalArgs), Actual: len(args)}
	}

	var in []reflect.Value
	if b.ctx {
		in = append(in, reflect.ValueOf(&CallCtx{fm}))
	}
	for i, arg := range args {
		typ := b.variadicArg
		if i < len(b.normalArgs) {
			typ = b.normalArgs[i]
		}
		v, err := scanArg(arg, typ)
		if err != nil {
			return nil, errs.BadType{
				What:   ordinal(i+1) + " argument of " + b.name,
				Valid:  err.Error(),
				Actual: vals.KindOf(arg).String()}
		}
		in = append(in, v)
	}

	outs := reflect.ValueOf(b.impl).Call(in)

	if len(outs) > 0 && outs[len(outs)-1].Type() == errorType {
		err := outs[len(outs)-1].Interface()
		if err != nil {
			return nil, err.(error)
		}
		outs = outs[:len(outs)-1]
	}
	if len(outs) == 0 {
		return vals.Null{}, nil
	}
	return vals.FromGo(outs[0].Interface()), nil
}

var (
	errWantNumber = errors.New("number")
	errWantInt    = errors.New("int")
	errWantString = errors.New("string")
)

// Converts arg to a reflect.Value of type typ. The error names the expected
// kind.
func scanArg(arg vals.Value, typ reflect.Type) (reflect.Value, error) {
	switch typ {
	case float64Type:
		if f, ok := vals.ToFloat(arg); ok {
			return reflect.ValueOf(f), nil
		}
		return reflect.Value{}, errWantNumber
	case intType:
		if i, ok := arg.(vals.Int); ok {
			return reflect.ValueOf(int(i)), nil
		}
		return reflect.Value{}, errWantInt
	case stringType:
		if s, ok := arg.(*vals.Str); ok {
			return reflect.ValueOf(s.String()), nil
		}
		return reflect.Value{}, errWantString
	case valueType:
		return reflect.ValueOf(&arg).Elem(), nil
	}
	if v := reflect.ValueOf(arg); v.Type() == typ {
		return v, nil
	}
	if v, ok := reflect.Zero(typ).Interface().(vals.Value); ok {
		return reflect.Value{}, errors.New(v.Kind().String())
	}
	return reflect.Value{}, errors.New(typ.String())
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
