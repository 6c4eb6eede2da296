package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-engine/resume/assemble"
)

// ErrNoContent is returned when no schema-valid JSON object can be recovered.
var ErrNoContent = errors.New("no structured content in model output")

const generatedSchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "items"],
        "properties": {
          "category": {"type": "string"},
          "items": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "bullets": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string"}}
    }
  },
  "anyOf": [
    {"required": ["summary"]},
    {"required": ["skills"]},
    {"required": ["bullets"]}
  ]
}`

var generatedSchemaLoader = gojsonschema.NewStringLoader(generatedSchema)

// ParseContent extracts the structured resume content from raw model text. It tries the
// whole text, then the first balanced JSON object after code fences are stripped.
// Failure returns an empty result and an error wrapping ErrNoContent.
func ParseContent(raw string) (assemble.Generated, error) {
	var lastErr error
	for _, candidate := range candidates(raw) {
		g, err := decodeGenerated(candidate)
		if err == nil {
			return g, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("empty output")
	}
	return assemble.Generated{}, fmt.Errorf("%w: %v", ErrNoContent, lastErr)
}

func candidates(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	out := []string{text}
	stripped := stripFences(text)
	if stripped != text {
		out = append(out, stripped)
	}
	if obj, ok := firstObject(stripped); ok && obj != stripped {
		out = append(out, obj)
	}
	return out
}

func decodeGenerated(text string) (assemble.Generated, error) {
	if !json.Valid([]byte(text)) {
		return assemble.Generated{}, errors.New("invalid json")
	}
	result, err := gojsonschema.Validate(generatedSchemaLoader, gojsonschema.NewStringLoader(text))
	if err != nil {
		return assemble.Generated{}, err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			msgs = append(msgs, field+": "+desc.Description())
		}
		return assemble.Generated{}, errors.New(strings.Join(msgs, "; "))
	}
	var g assemble.Generated
	if err := json.Unmarshal([]byte(text), &g); err != nil {
		return assemble.Generated{}, err
	}
	return g, nil
}

func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// firstObject returns the first balanced {...} span, honoring JSON string escapes.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
