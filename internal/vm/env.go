package vm

// Env is one lexical scope.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func newEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Lookup ищет имя вверх по цепочке областей.
func (e *Env) Lookup(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return Null(), false
}

// Define binds name in this scope, shadowing outer ones.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign updates the nearest existing binding or defines a new one here.
func (e *Env) Assign(name string, v Value) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}
