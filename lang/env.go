package lang

import "iter"

// Environment is the ordered, append-only set of constants declared by a
// program. A name, once bound, can be neither rebound nor removed.
type Environment struct {
	rec record
}

// NewEnvironment returns an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{rec: newRecord()}
}

// Bind adds name to the environment. Binding a name that is already present
// fails with [ErrDuplicateConstant] and leaves the environment unchanged.
//
// Bind is how callers extend an environment outside the parser, such as a
// parsed [Program.Env]. The parser reports a duplicate at the name itself,
// before its value is evaluated, so it never reaches this failure.
func (e *Environment) Bind(name string, v Value) error {
	if e.rec.m == nil {
		e.rec = newRecord()
	}

	if !e.rec.insert(name, v) {
		return parseError(ErrDuplicateConstant.About(name))
	}

	return nil
}

// Lookup returns the value bound to name.
func (e *Environment) Lookup(name string) (Value, bool) {
	return e.rec.get(name)
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	_, ok := e.rec.get(name)

	return ok
}

// Len returns the number of bound constants.
func (e *Environment) Len() int { return e.rec.len() }

// Names returns the bound names in declaration order.
func (e *Environment) Names() []string { return e.rec.keys() }

// All returns an iterator over the bindings in declaration order.
func (e *Environment) All() iter.Seq2[string, Value] { return e.rec.all() }

// Clone returns an independent copy of the environment. Values are shared,
// since they are immutable.
func (e *Environment) Clone() *Environment {
	return &Environment{rec: e.rec.clone()}
}

// Native returns the environment as a map of native Go values, suitable as
// the evaluation environment of a query.
func (e *Environment) Native() map[string]any {
	out := make(map[string]any, e.Len())
	for k, v := range e.All() {
		out[k] = ToNative(v)
	}

	return out
}
