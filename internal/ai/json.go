package ai

import "strings"

// extractJSONBlock returns the first balanced { ... } block in the text,
// skipping markdown code fences and any prose the model wrapped around it.
// Returns "" when no complete object is present.
func extractJSONBlock(s string) string {
	s = stripCodeFences(s)

	start := strings.IndexByte(s, '{')
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

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return ""
}

// stripCodeFences removes markdown code fence lines (```json ... ```).
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}

	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
