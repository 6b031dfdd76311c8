// Package interp defines the command-evaluator capability consumed by
// the repl server, plus a small default implementation: line commands
// with quote-aware arguments and integer arithmetic expressions.
//
// Each session owns exactly one Interpreter instance for its whole
// lifetime, so implementations need not be safe for concurrent use.
package interp

// Command is a native command callable from the interpreter.  It
// receives the arguments after the command word and returns the result
// text, or an error whose message becomes the result text.
type Command func(args []string) (string, error)

// Interpreter is the capability a repl session needs from an embedded
// evaluator.  Any implementation honouring these contracts can back a
// session: a scripting engine, a subprocess, or the expression
// evaluator in this package.
type Interpreter interface {
	// Eval evaluates one complete submission and returns its textual
	// result.  A non-nil error marks the submission as failed; the
	// error text is what the client sees.
	Eval(cmd string) (string, error)

	// Complete reports whether text forms one syntactically complete,
	// evaluable unit.  The accumulator keeps reading lines until this
	// returns true.
	Complete(text string) bool

	// Var returns the value of a named interpreter variable, if set.
	Var(name string) (string, bool)

	// SetVar sets a named interpreter variable.
	SetVar(name, value string)

	// Register installs a native command under the given name,
	// replacing any existing one.
	Register(name string, fn Command)

	// Close releases the interpreter.  No method may be called after.
	Close()
}

// Factory allocates a fresh, private Interpreter for one session.
type Factory func() Interpreter
