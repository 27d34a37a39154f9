package tools

import (
	"regexp"
	"strings"
)

// LLM output formatting is not guaranteed. Extraction scans the response
// through an ordered rule chain and uses the first rule that matches,
// degrading to the raw trimmed text when none do.

var (
	jsonFence  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	latexFence = regexp.MustCompile("(?s)```latex\\s*(.*?)\\s*```")
	anyFence   = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// ExtractJSON pulls a JSON payload out of a free-text response: a json-tagged
// fence, then any fence, then the first balanced {...} span, then the raw
// trimmed text.
func ExtractJSON(response string) string {
	if m := jsonFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if span := balancedObject(response); span != "" {
		return span
	}
	return strings.TrimSpace(response)
}

// ExtractLaTeX pulls LaTeX markup out of a free-text response: a latex-tagged
// fence, then any fence, then the substring starting at \documentclass, then
// the raw trimmed text.
func ExtractLaTeX(response string) string {
	if m := latexFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	if i := strings.Index(response, `\documentclass`); i >= 0 {
		return strings.TrimSpace(response[i:])
	}
	return strings.TrimSpace(response)
}

// balancedObject returns the first balanced top-level {...} span, or "".
// Braces inside string literals are skipped.
func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
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
