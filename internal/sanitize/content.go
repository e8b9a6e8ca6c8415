// Package sanitize extracts guest-facing text from raw chat log entries and
// drops internal traces, tool payloads and PMS rows.
package sanitize

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// tracePrefixes mark agent reasoning that must never reach a guest view.
var tracePrefixes = []string{
	"Calling Think with input:",
	"Analyze guest input:",
	"Think:",
	"Thinking:",
}

var callingToolPrefix = regexp.MustCompile(`^Calling .+? with input:`)

// pmsKeys are column names of property-management rows echoed by tools.
var pmsKeys = []string{"row_number", "Codice", "Riferimento", "Arrivo", "Partenza", "Camere", "Ospiti"}

// CleanMessageContent returns the guest-facing text of a chat message body,
// or "" when the body is an internal trace, a tool payload or noise.
//
// Rules run in order: trace prefixes, then JSON extraction, then substring
// heuristics on plain text. Text extracted from JSON is cleaned again, so
// CleanMessageContent(CleanMessageContent(x)) == CleanMessageContent(x).
// Plain text that passes every rule is returned untrimmed.
func CleanMessageContent(content string) string {
	trimmed := strings.TrimSpace(content)

	if hasTracePrefix(trimmed) {
		return ""
	}

	if looksLikeJSON(trimmed) {
		if v, ok := decode(trimmed); ok {
			switch val := v.(type) {
			case []any:
				return cleanArray(val)
			case map[string]any:
				return cleanObject(val)
			}
		}
	}

	if isRawNoise(trimmed) {
		return ""
	}
	return content
}

func hasTracePrefix(s string) bool {
	for _, p := range tracePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return callingToolPrefix.MatchString(s)
}

func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

func decode(s string) (any, bool) {
	if !json.Valid([]byte(s)) {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func cleanArray(items []any) string {
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok && hasAnyKey(obj, pmsKeys) {
			return ""
		}
	}

	if len(items) > 0 {
		if obj, ok := items[0].(map[string]any); ok {
			if s, ok := nonEmptyString(obj["response"]); ok {
				return CleanMessageContent(s)
			}
		}
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return ""
		}
		parts = append(parts, s)
	}
	return CleanMessageContent(strings.Join(parts, " "))
}

func cleanObject(obj map[string]any) string {
	if hasAnyKey(obj, pmsKeys) {
		return ""
	}
	if _, ok := obj["tool_calls"]; ok {
		return ""
	}

	for _, key := range []string{"response", "message", "text"} {
		if s, ok := nonEmptyString(obj[key]); ok {
			return CleanMessageContent(s)
		}
	}

	content, ok := obj["content"]
	if !ok || content == nil {
		return ""
	}
	if s, ok := content.(string); ok {
		return CleanMessageContent(s)
	}
	return CleanMessageContent(encode(content))
}

func isRawNoise(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "time: ") && strings.Contains(lower, "plan:") {
		return true
	}
	if strings.Contains(trimmed, `"tool_calls"`) || strings.Contains(trimmed, `"row_number"`) {
		return true
	}
	return strings.Contains(lower, "escalate yes")
}

func hasAnyKey(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// encode renders a decoded JSON value back to compact text.
func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
