// ABOUTME: Finds and validates the JSON object embedded in a model reply.
// ABOUTME: Uses a brace-depth scanner that understands JSON strings and escapes.
package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} object in text. Braces
// inside JSON strings are ignored. ok is false when no object closes.
func ExtractJSONObject(text string) (obj string, ok bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchObject(text, start); end > 0 {
			return text[start:end], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchObject returns the index just past the brace closing the object that
// opens at start, or -1.
func matchObject(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
				return i + 1
			}
		}
	}
	return -1
}

// ParseAnalysis extracts and validates an Analysis from a model reply.
func ParseAnalysis(raw string) (*Analysis, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, &ParseError{Raw: raw}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	var a Analysis
	nameRaw, ok := fields["name"]
	if !ok || json.Unmarshal(nameRaw, &a.Name) != nil || isNull(nameRaw) {
		return nil, &ShapeError{Raw: raw, Reason: "name must be a string"}
	}

	ingRaw, ok := fields["ingredients"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(ingRaw), []byte("[")) {
		return nil, &ShapeError{Raw: raw, Reason: "ingredients must be an array"}
	}
	if err := json.Unmarshal(ingRaw, &a.Ingredients); err != nil {
		return nil, &ShapeError{Raw: raw, Reason: "ingredients: " + err.Error()}
	}
	if a.Ingredients == nil {
		a.Ingredients = []AnalyzedIngredient{}
	}
	return &a, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
