package scripts

import (
	"strings"
)

// parserState represents the current state of the splitter.
type parserState int

const (
	stateNormal parserState = iota
	stateLineComment
	stateBlockComment
	stateSingleQuote
	stateDoubleQuote
	stateBacktick
)

// SplitStatements splits a SQL script into individual statements on
// top-level semicolons, using a state machine so semicolons inside string
// literals, quoted identifiers and comments never split a statement.
// Handles:
// - Single-line comments: -- to end of line
// - Block comments: /* */ (no nesting, per MySQL/SQLite)
// - Single-quoted strings: '...' with '' escape
// - Double-quoted identifiers: "..." with "" escape
// - Backtick-quoted identifiers: `...` with `` escape
// Statements that are empty after trimming are dropped.
func SplitStatements(script string) []string {
	if len(script) == 0 {
		return nil
	}

	var statements []string
	var current strings.Builder
	state := stateNormal

	runes := []rune(script)
	i := 0

	for i < len(runes) {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateNormal:
			switch {
			case r == '-' && next == '-':
				state = stateLineComment
				i += 2
			case r == '/' && next == '*':
				state = stateBlockComment
				i += 2
			case r == '\'':
				state = stateSingleQuote
				current.WriteRune(r)
				i++
			case r == '"':
				state = stateDoubleQuote
				current.WriteRune(r)
				i++
			case r == '`':
				state = stateBacktick
				current.WriteRune(r)
				i++
			case r == ';':
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					statements = append(statements, stmt)
				}
				current.Reset()
				i++
			default:
				current.WriteRune(r)
				i++
			}

		case stateLineComment:
			if r == '\n' {
				// Preserve the newline as statement-internal whitespace
				current.WriteRune(r)
				state = stateNormal
			}
			i++

		case stateBlockComment:
			if r == '*' && next == '/' {
				state = stateNormal
				i += 2
			} else {
				i++
			}

		case stateSingleQuote:
			current.WriteRune(r)
			if r == '\'' {
				if next == '\'' {
					// Escaped quote ''
					current.WriteRune(next)
					i += 2
				} else {
					state = stateNormal
					i++
				}
			} else {
				i++
			}

		case stateDoubleQuote:
			current.WriteRune(r)
			if r == '"' {
				if next == '"' {
					current.WriteRune(next)
					i += 2
				} else {
					state = stateNormal
					i++
				}
			} else {
				i++
			}

		case stateBacktick:
			current.WriteRune(r)
			if r == '`' {
				if next == '`' {
					current.WriteRune(next)
					i += 2
				} else {
					state = stateNormal
					i++
				}
			} else {
				i++
			}
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// Abbreviate shortens a statement for error messages, collapsing internal
// whitespace and truncating to max runes with an ellipsis.
func Abbreviate(stmt string, max int) string {
	collapsed := strings.Join(strings.Fields(stmt), " ")
	runes := []rune(collapsed)
	if len(runes) <= max {
		return collapsed
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
