package interp

import "strings"

// Complete reports whether text is one syntactically complete unit:
// every (, [ and { opened outside quotes is closed, every double quote
// is terminated, and the final line does not end in a backslash
// continuation.  A stray closer makes the text "complete" so the error
// surfaces in Eval instead of hanging the continuation prompt forever.
func Complete(text string) bool {
	var stack []byte
	inQuote, esc := false, false

	for k := 0; k < len(text); k++ {
		c := text[k]
		if esc {
			esc = false
			continue
		}
		switch c {
		case '\\':
			esc = true
		case '"':
			inQuote = !inQuote
		case '(', '[', '{':
			if !inQuote {
				stack = append(stack, c)
			}
		case ')', ']', '}':
			if inQuote {
				break
			}
			if len(stack) == 0 {
				return true // unbalanced closer: fail fast in Eval
			}
			if stack[len(stack)-1] == opener(c) {
				stack = stack[:len(stack)-1]
			} else {
				return true // mismatched closer: same
			}
		}
	}
	if inQuote || len(stack) > 0 {
		return false
	}
	// A final line ending in an odd number of backslashes continues
	// onto the next line.
	trimmed := strings.TrimRight(text, "\n")
	n := 0
	for n < len(trimmed) && trimmed[len(trimmed)-1-n] == '\\' {
		n++
	}
	return n%2 == 0
}

func opener(closer byte) byte {
	switch closer {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}
