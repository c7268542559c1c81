package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON extracts a JSON object of type T from raw LLM text output.
// It tolerates markdown code fences, prose around the object, comments,
// trailing commas and numbers written as ".5". If validator is non-nil, the
// extracted value is validated before return.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := extractJSONBlock(fencedBody(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(sanitizeJSON(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// fencedBody returns the body of the first ``` fence that contains an
// object, or s unchanged when there is none.
func fencedBody(s string) string {
	lines := strings.Split(s, "\n")
	var body []string
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inFence {
				if joined := strings.Join(body, "\n"); strings.Contains(joined, "{") {
					return joined
				}
				body = body[:0]
			}
			inFence = !inFence
			continue
		}
		if inFence {
			body = append(body, line)
		}
	}
	// An unterminated fence still counts.
	if inFence && strings.Contains(strings.Join(body, "\n"), "{") {
		return strings.Join(body, "\n")
	}
	return s
}

// extractJSONBlock finds the first balanced { ... } block in the text.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	var str stringState
	for i := start; i < len(s); i++ {
		if str.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stringState tracks whether a byte scan is inside a JSON string.
type stringState struct {
	in      bool
	escaped bool
}

// step consumes c and reports whether it belongs to a string literal,
// quotes included.
func (st *stringState) step(c byte) bool {
	switch {
	case st.escaped:
		st.escaped = false
		return true
	case st.in && c == '\\':
		st.escaped = true
		return true
	case c == '"':
		st.in = !st.in
		return true
	default:
		return st.in
	}
}

// sanitizeJSON repairs the near-JSON models tend to emit. Outside string
// values it drops // and /* */ comments, drops commas directly before a
// closing bracket, and rewrites ".8" and "-.3" as "0.8" and "-0.3".
func sanitizeJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var str stringState
	for i := 0; i < len(s); i++ {
		c := s[i]
		if str.step(c) {
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				i = len(s)
			} else {
				i += end + 3
			}
			continue
		case c == ',' && closesNext(s, i+1):
			continue
		case c == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(b.String())):
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closesNext reports whether the next significant byte from i closes an
// object or array, skipping whitespace and comments.
func closesNext(s string, i int) bool {
	for i < len(s) {
		switch {
		case isSpace(s[i]):
			i++
		case strings.HasPrefix(s[i:], "//"):
			nl := strings.IndexByte(s[i:], '\n')
			if nl == -1 {
				return false
			}
			i += nl
		case strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				return false
			}
			i += end + 4
		default:
			return s[i] == '}' || s[i] == ']'
		}
	}
	return false
}

func prevNonSpace(s string) byte {
	for i := len(s) - 1; i >= 0; i-- {
		if !isSpace(s[i]) {
			return s[i]
		}
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isNumericBoundary(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
