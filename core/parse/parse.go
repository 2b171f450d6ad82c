// Package parse turns a raw input line into a command ready for dispatch.
//
// The tokenizer intentionally splits on whitespace only: quoting, escaping
// and variable expansion are not part of the language this interpreter
// accepts.
package parse

import "fmt"

// Command is the parsed form of a single input line. It lives for one loop
// iteration: until the command finishes or is handed to the job table.
type Command struct {
	// Argv holds the program name and arguments in original order, with
	// all redirection operators and their operands removed.
	Argv []string

	// Background is set when the line contains a & token.
	Background bool

	// Stdin is the input redirection path, or "" when absent.
	Stdin string

	// Stdout is the output redirection path, or "" when absent. Append
	// selects between truncate and append semantics.
	Stdout string
	Append bool
}

// Empty reports whether the line held no command at all.
func (c *Command) Empty() bool {
	return len(c.Argv) == 0
}

// OperandError reports a redirection operator with no following path token.
type OperandError struct {
	Op string
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("syntax error: %q expects a file name", e.Op)
}

// Tokenize splits a line on spaces and tabs. Runs of delimiters produce no
// empty tokens; a blank line produces a nil slice.
func Tokenize(line string) []string {
	var tokens []string
	start := -1
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
			if start >= 0 {
				tokens = append(tokens, line[start:i])
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		tokens = append(tokens, line[start:])
	}
	return tokens
}

// Parse consumes a token sequence and separates the argument vector from the
// redirection operators and the background flag.
//
// Each of < > >> takes the next token as its operand; both are consumed and
// neither reaches Argv. An operator appearing as the final token has no
// operand and is a syntax error, the command must not run.
func Parse(tokens []string) (*Command, error) {
	out := &Command{}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "<", ">", ">>":
			if i+1 >= len(tokens) {
				return nil, &OperandError{Op: tok}
			}
			i++
			switch tok {
			case "<":
				out.Stdin = tokens[i]
			case ">":
				out.Stdout = tokens[i]
				out.Append = false
			case ">>":
				out.Stdout = tokens[i]
				out.Append = true
			}
		case "&":
			out.Background = true
		default:
			out.Argv = append(out.Argv, tok)
		}
	}

	return out, nil
}

// ParseLine tokenizes and parses a raw line in one step.
func ParseLine(line string) (*Command, error) {
	return Parse(Tokenize(line))
}
