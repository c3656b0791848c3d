package analysis

import (
	"regexp"
	"strings"
)

// Textual repair passes for malformed model output, ordered from gentle to
// aggressive. All of them operate on raw text and leave the original
// untouched.

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	lineCommentRe   = regexp.MustCompile(`(?m)^\s*//.*$`)
)

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`,
	"‘", `'`, "’", `'`,
)

// stripCodeFences removes markdown fences around the payload.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```JSON")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// permissiveRepair is the generic repair pass: drop fences and surrounding
// prose, normalize smart quotes, strip trailing commas, and balance any
// unclosed strings/brackets.
func permissiveRepair(s string) string {
	t := stripCodeFences(s)
	t = trimToPayload(t)
	t = smartQuoteReplacer.Replace(t)
	t = trailingCommaRe.ReplaceAllString(t, "$1")
	return balanceBrackets(t)
}

// heuristicCleanup extracts the largest bracket-delimited substring matching
// the expected container, then applies the textual fixes: trailing commas,
// smart quotes, bare newlines/tabs inside string literals.
func heuristicCleanup(s string, shape *Shape) string {
	open, closing := byte('{'), byte('}')
	if shape.Kind == ShapeArray {
		open, closing = '[', ']'
	}
	t := extractBracketWindow(stripCodeFences(s), open, closing)
	if t == "" {
		return ""
	}
	t = smartQuoteReplacer.Replace(t)
	t = trailingCommaRe.ReplaceAllString(t, "$1")
	return escapeBareControlChars(t)
}

// aggressiveClean applies progressively harsher cleaning per attempt level
// (1-based) for the bounded final strategy.
func aggressiveClean(s string, level int) string {
	t := stripCodeFences(s)
	t = trimToPayload(t)
	t = smartQuoteReplacer.Replace(t)
	t = trailingCommaRe.ReplaceAllString(t, "$1")

	if level >= 2 {
		t = lineCommentRe.ReplaceAllString(t, "")
		t = escapeBareControlChars(t)
	}
	if level >= 3 {
		t = stripNonPrintable(t)
	}
	return balanceBrackets(t)
}

// trimToPayload cuts leading/trailing prose around the outermost brackets.
func trimToPayload(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return s
	}
	end := -1
	for i := len(s) - 1; i >= start; i-- {
		if s[i] == '}' || s[i] == ']' {
			end = i
			break
		}
	}
	if end < 0 {
		// payload never closed; keep the tail and let balancing fix it
		return s[start:]
	}
	return s[start : end+1]
}

// extractBracketWindow returns the largest balanced region delimited by the
// given bracket pair, scanning string-aware so brackets inside literals
// don't count.
func extractBracketWindow(s string, open, closing byte) string {
	best := ""
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		for j := i; j < len(s); j++ {
			c := s[j]
			if inString {
				switch {
				case escaped:
					escaped = false
				case c == '\\':
					escaped = true
				case c == '"':
					inString = false
				}
				continue
			}
			switch c {
			case '"':
				inString = true
			case open:
				depth++
			case closing:
				depth--
				if depth == 0 {
					if j-i+1 > len(best) {
						best = s[i : j+1]
					}
					j = len(s) // done with this start
				}
			}
		}
	}
	return best
}

// balanceBrackets appends the closers (and a closing quote) that an output
// truncated mid-generation is missing.
func balanceBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}
	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// escapeBareControlChars escapes literal newlines/tabs that appear inside
// string literals, a common defect in model output.
func escapeBareControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteByte(c)
				continue
			case c == '\\':
				escaped = true
				b.WriteByte(c)
				continue
			case c == '"':
				inString = false
				b.WriteByte(c)
				continue
			case c == '\n':
				b.WriteString(`\n`)
				continue
			case c == '\t':
				b.WriteString(`\t`)
				continue
			case c == '\r':
				b.WriteString(`\r`)
				continue
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripNonPrintable drops control bytes that break the decoder outright.
func stripNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
}
