package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Interp is the default Interpreter: named variables, registered
// native commands plus a handful of built-ins, and integer arithmetic
// for anything that is not a command.
type Interp struct {
	vars    map[string]string
	cmds    map[string]Command
	history []string
}

// New returns an Interp with the built-in commands registered.
func New() *Interp {
	i := &Interp{
		vars: make(map[string]string),
		cmds: make(map[string]Command),
	}
	i.Register("set", i.cmdSet)
	i.Register("get", i.cmdGet)
	i.Register("unset", i.cmdUnset)
	i.Register("vars", i.cmdVars)
	i.Register("echo", i.cmdEcho)
	i.Register("history", i.cmdHistory)
	return i
}

// Eval records the submission, then evaluates it.  A submission may
// carry several newline-separated commands (piped input often lands in
// one chunk): each complete unit is evaluated in order, evaluation
// stops at the first error, and the non-empty results are joined with
// newlines.
func (i *Interp) Eval(cmd string) (string, error) {
	i.history = append(i.history, cmd)

	var outs []string
	var unit []string
	flush := func() (string, bool, error) {
		joined := strings.Join(unit, "\n")
		unit = unit[:0]
		if strings.TrimSpace(joined) == "" {
			return "", false, nil
		}
		out, err := i.evalOne(joined)
		return out, true, err
	}

	for _, line := range strings.Split(cmd, "\n") {
		unit = append(unit, line)
		if !Complete(strings.Join(unit, "\n")) {
			continue
		}
		out, ran, err := flush()
		if err != nil {
			return "", err
		}
		if ran && out != "" {
			outs = append(outs, out)
		}
	}
	// Trim defensively: the accumulator only passes complete buffers,
	// but evaluate any leftover so a malformed tail still errors.
	if len(unit) > 0 {
		out, ran, err := flush()
		if err != nil {
			return "", err
		}
		if ran && out != "" {
			outs = append(outs, out)
		}
	}
	return strings.Join(outs, "\n"), nil
}

// evalOne dispatches one complete unit: a known command word runs as a
// command, anything else is parsed as an arithmetic expression.
func (i *Interp) evalOne(cmd string) (string, error) {
	name := firstWord(cmd)
	if fn, ok := i.cmds[name]; ok {
		args, err := splitArgs(strings.TrimPrefix(strings.TrimLeft(cmd, " \t\n"), name))
		if err != nil {
			return "", err
		}
		return fn(args)
	}

	v, err := evalExpr(cmd, i.vars)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// Complete delegates to the package-level completeness check.
func (i *Interp) Complete(text string) bool { return Complete(text) }

// Var returns the value of a variable, if set.
func (i *Interp) Var(name string) (string, bool) {
	v, ok := i.vars[name]
	return v, ok
}

// SetVar sets a variable.
func (i *Interp) SetVar(name, value string) { i.vars[name] = value }

// Register installs fn under name, replacing any existing command.
func (i *Interp) Register(name string, fn Command) { i.cmds[name] = fn }

// Close releases the interpreter state.
func (i *Interp) Close() {
	i.vars = nil
	i.cmds = nil
	i.history = nil
}

// ── Built-in commands ────────────────────────────────────────────────

// set name [value...]: with a value, assign and echo it back; without,
// behave like get.
func (i *Interp) cmdSet(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("wrong # args: should be \"set name ?value?\"")
	case 1:
		return i.cmdGet(args)
	default:
		v := strings.Join(args[1:], " ")
		i.vars[args[0]] = v
		return v, nil
	}
}

func (i *Interp) cmdGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("wrong # args: should be \"get name\"")
	}
	v, ok := i.vars[args[0]]
	if !ok {
		return "", fmt.Errorf("no such variable %q", args[0])
	}
	return v, nil
}

func (i *Interp) cmdUnset(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("wrong # args: should be \"unset name\"")
	}
	delete(i.vars, args[0])
	return "", nil
}

func (i *Interp) cmdVars(args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("wrong # args: should be \"vars\"")
	}
	names := make([]string, 0, len(i.vars))
	for n := range i.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for k, n := range names {
		if k > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s=%s", n, i.vars[n])
	}
	return b.String(), nil
}

func (i *Interp) cmdEcho(args []string) (string, error) {
	return strings.Join(args, " "), nil
}

func (i *Interp) cmdHistory(args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("wrong # args: should be \"history\"")
	}
	var b strings.Builder
	for k, h := range i.history {
		if k > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%3d  %s", k+1, strings.ReplaceAll(h, "\n", "\n     "))
	}
	return b.String(), nil
}

// ── Word splitting ───────────────────────────────────────────────────

// firstWord returns the leading whitespace-delimited word of s.
func firstWord(s string) string {
	s = strings.TrimLeft(s, " \t\n")
	end := strings.IndexAny(s, " \t\n")
	if end < 0 {
		return s
	}
	return s[:end]
}

// splitArgs splits s on whitespace, honouring double quotes (one
// quoted run is one argument) and backslash escapes inside quotes.
func splitArgs(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote, inWord, esc := false, false, false

	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && inQuote:
			esc = true
		case r == '"':
			if inQuote {
				args = append(args, cur.String())
				cur.Reset()
				inQuote, inWord = false, false
			} else {
				inQuote, inWord = true, true
			}
		case inQuote:
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
