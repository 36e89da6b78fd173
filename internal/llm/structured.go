package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONValue parses the first JSON object or array found in raw model
// output. It tolerates markdown code fences, surrounding prose, comments,
// trailing commas and numbers written as ".5".
func ExtractJSONValue(raw string) (any, error) {
	cleaned := StripCodeFences(raw)
	jsonStr := extractJSONBlock(cleaned)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON object or array found in response", ErrInvalidOutput)
	}
	jsonStr = stripJSONComments(jsonStr)
	jsonStr = stripTrailingCommas(jsonStr)
	jsonStr = normalizeLeadingDecimalNumbers(jsonStr)

	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return result, nil
}

// StripCodeFences removes markdown fence lines (```json, ```) and keeps
// whatever they wrapped.
func StripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "```"); ok {
			// Single-line fences carry the payload after the language tag.
			rest = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
			line = strings.TrimSuffix(strings.TrimSpace(rest), "```")
			if strings.TrimSpace(line) == "" {
				continue
			}
		} else if strings.HasSuffix(trimmed, "```") {
			line = strings.TrimSuffix(trimmed, "```")
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock returns the first balanced {...} or [...] block.
func extractJSONBlock(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// scanOutsideStrings calls fn for every byte outside JSON string literals.
// fn returns how many bytes it consumed (0 means copy c verbatim).
func scanOutsideStrings(s string, fn func(b *strings.Builder, s string, i int) int) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString:
			if n := fn(&b, s, i); n > 0 {
				i += n - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripJSONComments removes // and /* */ comments outside string values.
func stripJSONComments(s string) string {
	return scanOutsideStrings(s, func(_ *strings.Builder, s string, i int) int {
		if s[i] != '/' || i+1 >= len(s) {
			return 0
		}
		switch s[i+1] {
		case '/':
			end := strings.IndexByte(s[i:], '\n')
			if end == -1 {
				return len(s) - i
			}
			return end
		case '*':
			end := strings.Index(s[i+2:], "*/")
			if end == -1 {
				return len(s) - i
			}
			return end + 4
		}
		return 0
	})
}

// stripTrailingCommas drops a comma that directly precedes } or ].
func stripTrailingCommas(s string) string {
	return scanOutsideStrings(s, func(_ *strings.Builder, s string, i int) int {
		if s[i] != ',' {
			return 0
		}
		next := strings.TrimLeft(s[i+1:], " \t\r\n")
		if next != "" && (next[0] == '}' || next[0] == ']') {
			return 1
		}
		return 0
	})
}

// normalizeLeadingDecimalNumbers rewrites ".8" and "-.3" into "0.8" and
// "-0.3" outside string values.
func normalizeLeadingDecimalNumbers(s string) string {
	return scanOutsideStrings(s, func(b *strings.Builder, s string, i int) int {
		if s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) && isNumericBoundary(prevNonSpace(s, i-1)) {
			b.WriteString("0.")
			return 1
		}
		return 0
	})
}

func prevNonSpace(s string, i int) byte {
	for ; i >= 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\r' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
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
