package vm

import (
	"fmt"
	"strings"

	"lazuli/internal/ast"
	"lazuli/internal/trace"
)

type ctrl uint8

const (
	ctrlNone ctrl = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

func (c ctrl) String() string {
	switch c {
	case ctrlBreak:
		return "break"
	case ctrlContinue:
		return "continue"
	case ctrlReturn:
		return "return"
	default:
		return "none"
	}
}

// ModulePrefix: префикс пути в using.
const ModulePrefix = "lzr.lang."

func (in *interp) exec(id ast.StmtID, env *Env) (ctrl, Value, error) {
	st := in.b.Stmts.Get(id)
	switch st.Kind {
	case ast.StmtExpr:
		_, err := in.eval(in.b.Stmts.Expr(id).Expr, env)
		return ctrlNone, Null(), err

	case ast.StmtBlock:
		return in.execBlock(in.b.Stmts.Block(id).Stmts, newEnv(env))

	case ast.StmtUsing:
		data := in.b.Stmts.Using(id)
		name, ok := strings.CutPrefix(data.Path, ModulePrefix)
		if !ok {
			return ctrlNone, Null(), in.fault(FaultUnknownModule, data.PathSpan, "unknown module %q (expected %s<name>)", data.Path, ModulePrefix)
		}
		mod := in.module(name)
		if mod == nil {
			return ctrlNone, Null(), in.fault(FaultUnknownModule, data.PathSpan, "unknown module %q", data.Path)
		}
		trace.Point(in.tracer, trace.ScopeScript, "using", data.Path, in.parent)
		env.Define(name, Value{Kind: KindModule, Module: mod})
		return ctrlNone, Null(), nil

	case ast.StmtFn:
		in.declareFn(id, env)
		return ctrlNone, Null(), nil

	case ast.StmtBuiltin:
		data := in.b.Stmts.Builtin(id)
		bi, ok := builtins[data.Name]
		if !ok {
			return ctrlNone, Null(), in.fault(FaultUndefined, st.Span, "no builtin named %q", data.Name)
		}
		env.Define(data.Name, Value{Kind: KindBuiltin, Builtin: bi})
		return ctrlNone, Null(), nil

	case ast.StmtReturn:
		data := in.b.Stmts.Return(id)
		if !data.Value.IsValid() {
			return ctrlReturn, Null(), nil
		}
		v, err := in.eval(data.Value, env)
		if err != nil {
			return ctrlNone, Null(), err
		}
		return ctrlReturn, v, nil

	case ast.StmtBreak:
		return ctrlBreak, Null(), nil

	case ast.StmtContinue:
		return ctrlContinue, Null(), nil

	case ast.StmtIf:
		data := in.b.Stmts.If(id)
		cond, err := in.eval(data.Cond, env)
		if err != nil {
			return ctrlNone, Null(), err
		}
		if cond.Truthy() {
			return in.exec(data.Then, env)
		}
		if data.Else.IsValid() {
			return in.exec(data.Else, env)
		}
		return ctrlNone, Null(), nil

	case ast.StmtWhile:
		return in.execWhile(in.b.Stmts.While(id), env)

	case ast.StmtFor:
		return in.execFor(in.b.Stmts.For(id), env)

	default:
		panic(fmt.Sprintf("vm: unknown statement kind %v", st.Kind))
	}
}

func (in *interp) execBlock(stmts []ast.StmtID, env *Env) (ctrl, Value, error) {
	for _, id := range stmts {
		c, v, err := in.exec(id, env)
		if err != nil || c != ctrlNone {
			return c, v, err
		}
	}
	return ctrlNone, Null(), nil
}

func (in *interp) execWhile(data *ast.StmtWhileData, env *Env) (ctrl, Value, error) {
	for {
		if err := in.checkCtx(); err != nil {
			return ctrlNone, Null(), err
		}
		cond, err := in.eval(data.Cond, env)
		if err != nil {
			return ctrlNone, Null(), err
		}
		if !cond.Truthy() {
			return ctrlNone, Null(), nil
		}
		c, v, err := in.exec(data.Body, env)
		if err != nil {
			return ctrlNone, Null(), err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, Null(), nil
		case ctrlReturn:
			return c, v, nil
		}
	}
}

func (in *interp) execFor(data *ast.StmtForData, env *Env) (ctrl, Value, error) {
	iter, err := in.eval(data.Iter, env)
	if err != nil {
		return ctrlNone, Null(), err
	}
	var items []Value
	switch iter.Kind {
	case KindArray:
		// снимок: изменения массива в теле цикла не влияют на обход
		items = append([]Value(nil), iter.Arr.Elems...)
	case KindMap:
		items = iter.Map.Keys()
	case KindString:
		for _, r := range iter.Str {
			items = append(items, String(string(r)))
		}
	default:
		return ctrlNone, Null(), in.typeMismatch(in.b.Exprs.Get(data.Iter).Span, "array, map or string", iter)
	}
	for _, item := range items {
		if err := in.checkCtx(); err != nil {
			return ctrlNone, Null(), err
		}
		scope := newEnv(env)
		scope.Define(data.Var, item)
		c, v, err := in.exec(data.Body, scope)
		if err != nil {
			return ctrlNone, Null(), err
		}
		switch c {
		case ctrlBreak:
			return ctrlNone, Null(), nil
		case ctrlReturn:
			return c, v, nil
		}
	}
	return ctrlNone, Null(), nil
}
