package eval

import (
	"src.iok.sh/pkg/eval/errs"
	"src.iok.sh/pkg/eval/vals"
	"src.iok.sh/pkg/parse"
)

// Executes statements in the current scope. The value is that of the last
// statement.
func (fm *frame) execStmts(stmts []parse.Stmt) (vals.Value, error) {
	var last vals.Value = vals.Null{}
	for _, s := range stmts {
		v, err := fm.execStmt(s)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// Executes a statement. Only expression statements have a value other than
// null.
func (fm *frame) execStmt(s parse.Stmt) (vals.Value, error) {
	switch s := s.(type) {
	case *parse.ExprStmt:
		v, err := fm.evalExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		if _, isAssign := s.Expr.(*parse.Assign); isAssign {
			return vals.Null{}, nil
		}
		return v, nil
	case *parse.LetStmt:
		var v vals.Value = vals.Null{}
		if s.Value != nil {
			var err error
			v, err = fm.evalExpr(s.Value)
			if err != nil {
				return nil, err
			}
		}
		fm.env.Declare(s.Name.Name, v)
	case *parse.Block:
		_, err := fm.withEnv(NewEnv(fm.env)).execStmts(s.Stmts)
		if err != nil {
			return nil, err
		}
	case *parse.FnDecl:
		fm.env.Declare(s.Fn.Name, &Closure{s.Fn, fm.src, fm.env})
	case *parse.StructDecl:
		fm.env.Declare(s.Name.Name, newStructDef(s, fm.src, fm.env))
	case *parse.IfStmt:
		return vals.Null{}, fm.execIf(s)
	case *parse.WhileStmt:
		return vals.Null{}, fm.execWhile(s)
	case *parse.ForStmt:
		return vals.Null{}, fm.execFor(s)
	case *parse.RetStmt:
		var v vals.Value = vals.Null{}
		if s.Value != nil {
			var err error
			v, err = fm.evalExpr(s.Value)
			if err != nil {
				return nil, err
			}
		}
		return nil, retFlow{v}
	case *parse.ImportStmt:
		// Imports are resolved before the program runs.
	default:
		panic("unhandled statement type")
	}
	return vals.Null{}, nil
}

// Evaluates a condition, which must be a Bool.
func (fm *frame) evalCond(e parse.Expr) (bool, error) {
	v, err := fm.evalExpr(e)
	if err != nil {
		return false, err
	}
	b, ok := v.(vals.Bool)
	if !ok {
		return false, fm.errorAt(e, errs.BadType{
			What: "condition", Valid: "bool", Actual: vals.KindOf(v).String()})
	}
	return bool(b), nil
}

func (fm *frame) execBody(body *parse.Block) error {
	_, err := fm.withEnv(NewEnv(fm.env)).execStmts(body.Stmts)
	return err
}

func (fm *frame) execIf(s *parse.IfStmt) error {
	for i, cond := range s.Conds {
		ok, err := fm.evalCond(cond)
		if err != nil {
			return err
		}
		if ok {
			return fm.execBody(s.Bodies[i])
		}
	}
	if s.Else != nil {
		return fm.execBody(s.Else)
	}
	return nil
}

func (fm *frame) execWhile(s *parse.WhileStmt) error {
	for {
		ok, err := fm.evalCond(s.Cond)
		if err != nil || !ok {
			return err
		}
		if err := fm.execBody(s.Body); err != nil {
			return err
		}
	}
}

func (fm *frame) execFor(s *parse.ForStmt) error {
	iter, err := fm.evalExpr(s.Iter)
	if err != nil {
		return err
	}
	body := func(v vals.Value) error {
		env := NewEnv(fm.env)
		env.Declare(s.Var.Name, v)
		_, err := fm.withEnv(env).execStmts(s.Body.Stmts)
		return err
	}
	switch iter := iter.(type) {
	case vals.Range:
		for i := iter.Start; i < iter.End; i++ {
			if err := body(vals.Int(i)); err != nil {
				return err
			}
		}
	case *vals.Array:
		// Iterate over a snapshot, so that mutating the array in the body
		// does not affect the iteration.
		elems := append([]vals.Value(nil), iter.Elems...)
		for _, e := range elems {
			if err := body(e); err != nil {
				return err
			}
		}
	case *vals.Str:
		for _, r := range iter.Runes() {
			if err := body(vals.NewStrFromRunes([]rune{r})); err != nil {
				return err
			}
		}
	default:
		return fm.errorAt(s.Iter, errs.BadType{What: "iterable",
			Valid: "range, array or string", Actual: vals.KindOf(iter).String()})
	}
	return nil
}
