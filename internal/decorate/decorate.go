// Package decorate prepares a parsed program for execution.
//
// It declares host built-ins at the head of the program and records
// top-level function declarations so they can be called before the line
// that declares them.
package decorate

import (
	"lazuli/internal/ast"
)

// DefaultBuiltins: имена, которые vm предоставляет всегда.
var DefaultBuiltins = []string{
	"println", "print", "len", "str", "int", "float", "type",
	"push", "keys", "range", "error",
}

// collector собирает уже объявленные имена верхнего уровня.
type collector struct {
	ast.NopStmtVisitor
	declared map[string]struct{}
	builtins []ast.StmtID
	hoisted  []ast.StmtID
}

func (c *collector) VisitBuiltin(id ast.StmtID, data *ast.StmtBuiltinData) {
	c.declared[data.Name] = struct{}{}
	c.builtins = append(c.builtins, id)
}

func (c *collector) VisitFn(id ast.StmtID, data *ast.StmtFnData) {
	c.declared[data.Name] = struct{}{}
	c.hoisted = append(c.hoisted, id)
}

// Decorate injects one builtin declaration per name in builtins, in the
// given order, ahead of the program's own statements. Names the program
// already declares (as a builtin or a top-level fn) are skipped, so a
// second call changes nothing. Hoisted is recomputed on every call.
func Decorate(b *ast.Builder, prog ast.ProgramID, builtins []string) ast.ProgramID {
	p := b.Program(prog)
	if p == nil {
		return prog
	}
	c := &collector{declared: make(map[string]struct{}, len(builtins))}
	ast.Accept(b, prog, c)

	var head []ast.StmtID
	for _, name := range builtins {
		if _, ok := c.declared[name]; ok {
			continue
		}
		c.declared[name] = struct{}{}
		head = append(head, b.Stmts.NewBuiltin(name))
	}
	if len(head) > 0 {
		// существующие builtin-объявления остаются в начале
		stmts := make([]ast.StmtID, 0, len(head)+len(p.Stmts))
		n := leadingBuiltins(b, p.Stmts)
		stmts = append(stmts, p.Stmts[:n]...)
		stmts = append(stmts, head...)
		stmts = append(stmts, p.Stmts[n:]...)
		p.Stmts = stmts
	}
	p.Hoisted = c.hoisted
	p.Decorated = true
	return prog
}

func leadingBuiltins(b *ast.Builder, stmts []ast.StmtID) int {
	for i, id := range stmts {
		if b.Stmts.Get(id).Kind != ast.StmtBuiltin {
			return i
		}
	}
	return len(stmts)
}

// Builtins возвращает имена builtin-объявлений программы в порядке объявления.
func Builtins(b *ast.Builder, prog ast.ProgramID) []string {
	c := &collector{declared: make(map[string]struct{})}
	ast.Accept(b, prog, c)
	names := make([]string, 0, len(c.builtins))
	for _, id := range c.builtins {
		names = append(names, b.Stmts.Builtin(id).Name)
	}
	return names
}
