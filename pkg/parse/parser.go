package parse

import (
	"fmt"
	"strconv"
	"strings"

	"src.iok.sh/pkg/diag"
)

// Error is a parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "parse error" }

// Parse parses the given source. The returned error is a *LexError or an
// *Error; parsing stops at the first one.
func Parse(src Source) (prog *Program, err error) {
	p := &parser{src: src, lex: NewLexer(src)}
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *Error:
				prog, err = nil, e
			case *LexError:
				prog, err = nil, e
			default:
				panic(r)
			}
		}
	}()
	return p.parseProgram(), nil
}

// parser maintains the mutable state of parsing. Errors are raised by
// panicking with an *Error or *LexError, recovered by Parse.
type parser struct {
	src     Source
	lex     *Lexer
	ahead   []Token
	prevEnd int

	// Nesting level of () and [], inside which newlines don't end an
	// expression.
	depth int
	// Whether struct literals are disallowed, as in the header of if, while
	// and for.
	noStruct bool
	// Set for parsers of interpolated expressions, whose end of input is not
	// the end of the source.
	inInterpolation bool
}

var binaryLevels = []map[string]bool{
	{"||": true},
	{"&&": true},
	{"==": true, "!=": true},
	{"<": true, "<=": true, ">": true, ">=": true},
	{"|": true},
	{"&": true},
	{"<<": true, ">>": true},
	{"+": true, "-": true},
	{"*": true, "/": true, "%": true},
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// Token stream.

func (p *parser) peekAt(i int) Token {
	for len(p.ahead) <= i {
		t, err := p.lex.Next()
		if err != nil {
			panic(err)
		}
		p.ahead = append(p.ahead, t)
	}
	return p.ahead[i]
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) next() Token {
	t := p.peek()
	p.ahead = p.ahead[1:]
	if t.Kind != EOF {
		p.prevEnd = t.To
	}
	return t
}

// Whether t can continue the expression before it.
func (p *parser) onSameLine(t Token) bool {
	return !t.NewlineBefore || p.depth > 0
}

func (p *parser) acceptPunct(val string) bool {
	if p.peek().IsPunct(val) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectPunct(val string) Token {
	if t := p.peek(); !t.IsPunct(val) {
		p.unexpected(t, "'"+val+"'")
	}
	return p.next()
}

func (p *parser) acceptKeyword(val string) bool {
	if p.peek().Is(Keyword, val) {
		p.next()
		return true
	}
	return false
}

func (p *parser) parseIdent(what string) *Ident {
	t := p.peek()
	if t.Kind != IdentToken {
		p.unexpected(t, what)
	}
	p.next()
	id := &Ident{Name: t.Val}
	id.setRange(t.Ranging)
	return id
}

// Errors.

func (p *parser) errorf(r diag.Ranger, partial bool, format string, args ...any) {
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(p.src.Name, p.src.Code, r),
		Partial: partial,
	})
}

func (p *parser) unexpected(t Token, shouldbe ...string) {
	found := t.Describe()
	if t.Kind == EOF && p.inInterpolation {
		found = "end of interpolation"
	}
	p.errorf(t, t.Kind == EOF && !p.inInterpolation,
		"should be %s, found %s", strings.Join(shouldbe, " or "), found)
}

func finish[N interface{ setRange(diag.Ranging) }](p *parser, n N, from int) N {
	n.setRange(diag.Ranging{From: from, To: p.prevEnd})
	return n
}

// Statements.

func (p *parser) parseProgram() *Program {
	prog := &Program{Source: p.src}
	for p.peek().Kind != EOF {
		if p.acceptPunct(";") {
			continue
		}
		prog.Stmts = append(prog.Stmts, p.parseStmt(true))
	}
	prog.setRange(diag.Ranging{From: 0, To: len(p.src.Code)})
	return prog
}

func (p *parser) parseStmt(top bool) Stmt {
	t := p.peek()
	switch {
	case t.Is(Keyword, "let"):
		return p.parseLet()
	case t.Is(Keyword, "fn") && p.peekAt(1).Kind == IdentToken:
		p.next()
		name := p.parseIdent("function name")
		return finish(p, &FnDecl{Fn: p.parseFnRest(t.From, name.Name)}, t.From)
	case t.Is(Keyword, "struct"):
		return p.parseStruct()
	case t.Is(Keyword, "for"):
		return p.parseFor()
	case t.Is(Keyword, "while"):
		p.next()
		cond := p.parseExprNoStruct()
		return finish(p, &WhileStmt{Cond: cond, Body: p.parseBlock()}, t.From)
	case t.Is(Keyword, "if"):
		return p.parseIf()
	case t.Is(Keyword, "ret"):
		return p.parseRet()
	case t.Is(Keyword, "import"):
		if !top {
			p.errorf(t, false, "import is only allowed at the top level")
		}
		return p.parseImport()
	case t.Is(Keyword, "els"), t.Is(Keyword, "elsif"):
		p.errorf(t, false, "%s without if", t.Val)
	case t.IsPunct("{"):
		return p.parseBlock()
	}
	e := p.parseExpr()
	return finish(p, &ExprStmt{Expr: e}, e.Range().From)
}

func (p *parser) parseBlock() *Block {
	from := p.expectPunct("{").From
	savedDepth, savedNoStruct := p.depth, p.noStruct
	p.depth, p.noStruct = 0, false
	b := &Block{}
	for !p.peek().IsPunct("}") {
		if p.peek().Kind == EOF {
			p.unexpected(p.peek(), "'}'")
		}
		if p.acceptPunct(";") {
			continue
		}
		b.Stmts = append(b.Stmts, p.parseStmt(false))
	}
	p.next()
	p.depth, p.noStruct = savedDepth, savedNoStruct
	return finish(p, b, from)
}

func (p *parser) parseLet() *LetStmt {
	from := p.next().From
	s := &LetStmt{Name: p.parseIdent("variable name")}
	if t := p.peek(); t.Is(Operator, "=") {
		p.next()
		s.Value = p.parseExpr()
	}
	return finish(p, s, from)
}

// Parses the parameters and body of a function whose "fn" keyword and name
// have been consumed.
func (p *parser) parseFnRest(from int, name string) *FnLit {
	fn := &FnLit{Name: name, Params: p.parseParams()}
	switch t := p.peek(); {
	case t.IsPunct("=>"):
		p.next()
		if p.peek().IsPunct("{") {
			fn.Body = p.parseBlock()
		} else {
			fn.Arrow = p.parseExpr()
		}
	case t.IsPunct("{"):
		fn.Body = p.parseBlock()
	default:
		p.unexpected(t, "'=>'", "'{'")
	}
	return finish(p, fn, from)
}

func (p *parser) parseParams() []*Ident {
	p.expectPunct("(")
	var params []*Ident
	seen := map[string]bool{}
	for !p.acceptPunct(")") {
		param := p.parseIdent("parameter name")
		if seen[param.Name] {
			p.errorf(param, false, "duplicate parameter %s", param.Name)
		}
		seen[param.Name] = true
		params = append(params, param)
		if !p.acceptPunct(",") && !p.peek().IsPunct(")") {
			p.unexpected(p.peek(), "','", "')'")
		}
	}
	return params
}

func (p *parser) parseStruct() *StructDecl {
	from := p.next().From
	s := &StructDecl{Name: p.parseIdent("struct name")}
	p.expectPunct("{")
	seen := map[string]bool{}
	checkDup := func(id *Ident) {
		if seen[id.Name] {
			p.errorf(id, false, "duplicate member %s", id.Name)
		}
		seen[id.Name] = true
	}
	for {
		t := p.peek()
		switch {
		case t.IsPunct("}"):
			p.next()
			return finish(p, s, from)
		case t.IsPunct(";"):
			p.next()
		case t.Is(Keyword, "let"):
			p.next()
			f := &FieldDecl{Name: p.parseIdent("field name")}
			checkDup(f.Name)
			if p.peek().Is(Operator, "=") {
				p.next()
				f.Default = p.parseExpr()
			}
			s.Fields = append(s.Fields, finish(p, f, t.From))
		case t.Is(Keyword, "fn"):
			p.next()
			name := p.parseIdent("method name")
			checkDup(name)
			s.Methods = append(s.Methods, p.parseFnRest(t.From, name.Name))
		default:
			p.unexpected(t, "'let'", "'fn'", "'}'")
		}
	}
}

func (p *parser) parseFor() *ForStmt {
	from := p.next().From
	s := &ForStmt{Var: p.parseIdent("loop variable")}
	p.expectPunct("->")
	s.Iter = p.parseExprNoStruct()
	s.Body = p.parseBlock()
	return finish(p, s, from)
}

func (p *parser) parseIf() *IfStmt {
	from := p.next().From
	s := &IfStmt{}
	s.Conds = append(s.Conds, p.parseExprNoStruct())
	s.Bodies = append(s.Bodies, p.parseBlock())
	for {
		switch t := p.peek(); {
		case t.Is(Keyword, "elsif"):
			p.next()
			s.Conds = append(s.Conds, p.parseExprNoStruct())
			s.Bodies = append(s.Bodies, p.parseBlock())
		case t.Is(Keyword, "els"):
			p.next()
			if next := p.peek(); next.Is(Keyword, "if") {
				nested := p.parseIf()
				s.Else = finish(p, &Block{Stmts: []Stmt{nested}}, next.From)
			} else {
				s.Else = p.parseBlock()
			}
			return finish(p, s, from)
		default:
			return finish(p, s, from)
		}
	}
}

func (p *parser) parseRet() *RetStmt {
	from := p.next().From
	s := &RetStmt{}
	t := p.peek()
	if !(t.Kind == EOF || t.NewlineBefore || t.IsPunct("}") || t.IsPunct(";")) {
		s.Value = p.parseExpr()
	}
	return finish(p, s, from)
}

func (p *parser) parseImport() *ImportStmt {
	from := p.next().From
	s := &ImportStmt{}
	s.Path = append(s.Path, p.parseIdent("module name").Name)
	for p.acceptPunct("::") {
		s.Path = append(s.Path, p.parseIdent("name").Name)
	}
	return finish(p, s, from)
}

// Expressions.

func (p *parser) parseExpr() Expr { return p.parseAssign() }

func (p *parser) parseExprNoStruct() Expr {
	saved := p.noStruct
	p.noStruct = true
	e := p.parseExpr()
	p.noStruct = saved
	return e
}

func (p *parser) parseAssign() Expr {
	left := p.parseRange()
	t := p.peek()
	if t.Kind != Operator || !assignOps[t.Val] || !p.onSameLine(t) {
		return left
	}
	switch left.(type) {
	case *Ident, *Index, *Field:
	default:
		p.errorf(left, false, "cannot assign to this expression")
	}
	p.next()
	right := p.parseAssign()
	return finish(p, &Assign{Op: t.Val, Target: left, Value: right}, left.Range().From)
}

func (p *parser) parseRange() Expr {
	left := p.parseBinary(0)
	if t := p.peek(); t.IsPunct("..") || t.Is(Operator, "..") {
		if p.onSameLine(t) {
			p.next()
			right := p.parseBinary(0)
			return finish(p, &RangeExpr{Start: left, End: right}, left.Range().From)
		}
	}
	return left
}

func (p *parser) parseBinary(level int) Expr {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for {
		t := p.peek()
		if t.Kind != Operator || !binaryLevels[level][t.Val] || !p.onSameLine(t) {
			return left
		}
		p.next()
		right := p.parseBinary(level + 1)
		left = finish(p, &Binary{Op: t.Val, OpPos: t.Ranging, Left: left, Right: right},
			left.Range().From)
	}
}

func (p *parser) parseUnary() Expr {
	t := p.peek()
	if !t.Is(Operator, "-") && !t.Is(Operator, "!") {
		return p.parsePostfix()
	}
	p.next()
	if lit := p.peek(); t.Val == "-" && lit.Kind == Int && lit.From == t.To {
		// Fold the sign into the literal so that the most negative Int can
		// be written.
		p.next()
		v, err := strconv.ParseInt("-"+lit.Val, 10, 64)
		if err != nil {
			p.errorf(diag.MixedRanging(t, lit), false, "integer literal out of range")
		}
		return p.parsePostfixOf(finish(p, &IntLit{Value: v}, t.From))
	}
	operand := p.parseUnary()
	return finish(p, &Unary{Op: t.Val, Operand: operand}, t.From)
}

func (p *parser) parsePostfix() Expr {
	return p.parsePostfixOf(p.parsePrimary())
}

func (p *parser) parsePostfixOf(e Expr) Expr {
	from := e.Range().From
	for {
		t := p.peek()
		switch {
		case t.IsPunct("(") && p.onSameLine(t):
			args := p.parseArgs()
			e = finish(p, &Call{Callee: e, Args: args}, from)
		case t.IsPunct("[") && p.onSameLine(t):
			p.next()
			p.depth++
			index := p.parseExpr()
			p.expectPunct("]")
			p.depth--
			e = finish(p, &Index{Target: e, Index: index}, from)
		case t.IsPunct("."):
			p.next()
			name := p.parseIdent("field or method name")
			if next := p.peek(); next.IsPunct("(") && !next.NewlineBefore {
				args := p.parseArgs()
				e = finish(p, &MethodCall{Target: e, Name: name, Args: args}, from)
			} else {
				e = finish(p, &Field{Target: e, Name: name}, from)
			}
		case (t.Is(Operator, "++") || t.Is(Operator, "--")) && p.onSameLine(t):
			return p.parseIncDec(e, from)
		default:
			return e
		}
	}
}

// Parses "x++" and "x--" as "x += 1" and "x -= 1". The operator ends the
// postfix chain.
func (p *parser) parseIncDec(target Expr, from int) Expr {
	switch target.(type) {
	case *Ident, *Index, *Field:
	default:
		p.errorf(target, false, "cannot assign to this expression")
	}
	t := p.next()
	one := &IntLit{Value: 1}
	one.setRange(t.Ranging)
	return finish(p, &Assign{Op: t.Val[:1] + "=", Target: target, Value: one}, from)
}

func (p *parser) parseArgs() []Expr {
	return p.parseList("(", ")")
}

// Parses a comma-separated list of expressions between open and close. A
// trailing comma is allowed.
func (p *parser) parseList(open, close string) []Expr {
	p.expectPunct(open)
	p.depth++
	savedNoStruct := p.noStruct
	p.noStruct = false
	var elems []Expr
	for !p.acceptPunct(close) {
		elems = append(elems, p.parseExpr())
		if !p.acceptPunct(",") && !p.peek().IsPunct(close) {
			p.unexpected(p.peek(), "','", "'"+close+"'")
		}
	}
	p.depth--
	p.noStruct = savedNoStruct
	return elems
}

func (p *parser) parsePrimary() Expr {
	t := p.peek()
	switch t.Kind {
	case Int:
		p.next()
		v, err := strconv.ParseInt(t.Val, 10, 64)
		if err != nil {
			p.errorf(t, false, "integer literal out of range")
		}
		return finish(p, &IntLit{Value: v}, t.From)
	case Float:
		p.next()
		v, err := strconv.ParseFloat(t.Val, 64)
		if err != nil {
			p.errorf(t, false, "float literal out of range")
		}
		return finish(p, &FloatLit{Value: v}, t.From)
	case String:
		p.next()
		return p.parseString(t)
	case IdentToken:
		id := p.parseIdent("expression")
		if !p.noStruct && p.structLitAhead() {
			return p.parseStructLit(id)
		}
		return id
	case Keyword:
		switch t.Val {
		case "true", "false":
			p.next()
			return finish(p, &BoolLit{Value: t.Val == "true"}, t.From)
		case "null":
			p.next()
			return finish(p, &NullLit{}, t.From)
		case "self":
			p.next()
			return finish(p, &SelfExpr{}, t.From)
		case "fn":
			if p.peekAt(1).IsPunct("(") {
				p.next()
				return p.parseFnRest(t.From, "")
			}
		}
	case Punct:
		switch t.Val {
		case "(":
			p.next()
			p.depth++
			savedNoStruct := p.noStruct
			p.noStruct = false
			e := p.parseExpr()
			p.expectPunct(")")
			p.depth--
			p.noStruct = savedNoStruct
			return e
		case "[":
			elems := p.parseList("[", "]")
			return finish(p, &ArrayLit{Elems: elems}, t.From)
		}
	}
	p.unexpected(t, "expression")
	panic("unreachable")
}

// Reports whether the upcoming tokens start the body of a struct literal:
// "{ }" or "{ IDENT :".
func (p *parser) structLitAhead() bool {
	if !p.peek().IsPunct("{") {
		return false
	}
	if p.peekAt(1).IsPunct("}") {
		return true
	}
	return p.peekAt(1).Kind == IdentToken && p.peekAt(2).IsPunct(":")
}

func (p *parser) parseStructLit(name *Ident) *StructLit {
	lit := &StructLit{Name: name}
	p.expectPunct("{")
	p.depth++
	seen := map[string]bool{}
	for !p.acceptPunct("}") {
		field := p.parseIdent("field name")
		if seen[field.Name] {
			p.errorf(field, false, "duplicate field %s", field.Name)
		}
		seen[field.Name] = true
		p.expectPunct(":")
		init := &FieldInit{Name: field, Value: p.parseExpr()}
		lit.Fields = append(lit.Fields, finish(p, init, field.From))
		if !p.acceptPunct(",") && !p.peek().IsPunct("}") {
			p.unexpected(p.peek(), "','", "'}'")
		}
	}
	p.depth--
	return finish(p, lit, name.From)
}

// Builds a StringLit from a String token, parsing interpolated expressions.
func (p *parser) parseString(t Token) *StringLit {
	lit := &StringLit{}
	for _, part := range t.Parts {
		if !part.IsExpr {
			lit.Parts = append(lit.Parts, TemplatePart{Text: part.Text})
			continue
		}
		if strings.TrimSpace(p.src.Code[part.Expr.From:part.Expr.To]) == "" {
			p.errorf(diag.Ranging{From: part.Expr.From - 1, To: part.Expr.To + 1},
				false, "empty interpolation")
		}
		sub := &parser{
			src: p.src, lex: newLexer(p.src.Name, p.src.Code, part.Expr),
			depth: 1, inInterpolation: true}
		e := sub.parseExpr()
		if rest := sub.peek(); rest.Kind != EOF {
			sub.unexpected(rest, "'}'")
		}
		lit.Parts = append(lit.Parts, TemplatePart{Expr: e})
	}
	lit.setRange(t.Ranging)
	return lit
}
