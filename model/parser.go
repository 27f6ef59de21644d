package model

import (
	"errors"
	"strings"
)

// ExtractJSON returns the first top-level JSON object embedded in s.
// Models wrap structured output in prose or markdown fences often enough
// that parsing the raw completion directly is not reliable.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start == -1 || end == -1 || end <= start {
		return s, errors.New("no valid json found")
	}

	return s[start : end+1], nil
}
