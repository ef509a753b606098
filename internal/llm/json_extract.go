package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedBlock captures the language tag and body of a markdown code fence.
var fencedBlock = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// StripFences removes markdown code fence markers (```json and ```) from
// model output and trims surrounding whitespace.
func StripFences(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ExtractJSON finds the JSON document in model output that wraps it in
// prose or fences. A json or untagged fence wins over bare text; blocks
// tagged with another language are ignored. In bare text every '{' or '['
// is tried in order until one opens a balanced, valid document.
func ExtractJSON(response string) (string, error) {
	for _, m := range fencedBlock.FindAllStringSubmatch(response, -1) {
		if tag := strings.ToLower(m[1]); tag != "" && tag != "json" {
			continue
		}
		if body := strings.TrimSpace(m[2]); json.Valid([]byte(body)) {
			return body, nil
		}
	}

	for i := 0; i < len(response); i++ {
		if response[i] != '{' && response[i] != '[' {
			continue
		}
		if doc := balanced(response[i:]); doc != "" && json.Valid([]byte(doc)) {
			return doc, nil
		}
	}

	return "", NewMalformedResponseError("no valid JSON found in model output", nil)
}

// balanced returns the prefix of s up to the bracket closing s[0], or ""
// when it never closes. Brackets inside string literals are skipped.
func balanced(s string) string {
	open := s[0]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
