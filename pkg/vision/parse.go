package vision

import (
	"encoding/json"
	"strings"
)

// ExtractNames pulls a string array out of a model reply. Models wrap JSON in
// code fences, prepend prose, or emit a bare list, so this is deliberately
// tolerant: it finds the first JSON array in the text and keeps its non-empty
// string elements. Anything unparseable yields an empty slice, never an
// error; an empty result simply means no detections.
func ExtractNames(reply string) []string {
	text := strings.TrimSpace(reply)

	if strings.Contains(text, "```") {
		text = stripCodeFences(text)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return []string{}
	}

	var raw []any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return []string{}
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		names = append(names, s)
	}
	return names
}

func stripCodeFences(text string) string {
	var b strings.Builder
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	// no fenced block content found; fall back to the original text
	if b.Len() == 0 {
		return text
	}
	return b.String()
}
