// Package prompts holds prompt templates for resume generation: placeholder validation,
// rendering against a consultant and job, and resolution of the active template.
package prompts

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Placeholders every template must reference.
var RequiredPlaceholders = []string{
	"job_title",
	"company",
	"job_description",
	"consultant_name",
	"consultant_bio",
	"consultant_skills",
	"experience_summary",
	"certifications",
}

// OptionalPlaceholders may appear but are not required.
var OptionalPlaceholders = []string{
	"role_keys",
	"job_keywords",
}

// Template is a stored prompt. Literal braces are written doubled: "{{" and "}}".
type Template struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name" validate:"required,max=200"`
	Description     string  `json:"description,omitempty"`
	SystemText      string  `json:"systemText"`
	TemplateText    string  `json:"templateText" validate:"required"`
	Temperature     float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxOutputTokens int     `json:"maxOutputTokens" validate:"gt=0,lte=16384"`
	IsActive        bool    `json:"isActive"`
	IsDefault       bool    `json:"isDefault"`
}

// FieldError is one template validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a template.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid prompt template: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate reports every field, placeholder and parameter problem. A nil result means
// the template can be rendered.
func (t Template) Validate() []FieldError {
	var out []FieldError
	if err := structValidator().Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				out = append(out, FieldError{Field: fe.Field(), Message: describeTag(fe)})
			}
		} else {
			out = append(out, FieldError{Field: "(root)", Message: err.Error()})
		}
	}

	for _, field := range []struct {
		name string
		text string
	}{
		{"systemText", t.SystemText},
		{"templateText", t.TemplateText},
	} {
		names, malformed := scanPlaceholders(field.text)
		for _, m := range malformed {
			out = append(out, FieldError{Field: field.name, Message: "malformed placeholder " + m})
		}
		for _, n := range names {
			if !isKnown(n) {
				out = append(out, FieldError{Field: field.name, Message: "unknown placeholder {" + n + "}"})
			}
		}
	}

	if strings.TrimSpace(t.TemplateText) != "" {
		names, _ := scanPlaceholders(t.TemplateText)
		present := make(map[string]struct{}, len(names))
		for _, n := range names {
			present[n] = struct{}{}
		}
		var missing []string
		for _, r := range RequiredPlaceholders {
			if _, ok := present[r]; !ok {
				missing = append(missing, "{"+r+"}")
			}
		}
		if len(missing) > 0 {
			out = append(out, FieldError{Field: "templateText", Message: "missing placeholders: " + strings.Join(missing, ", ")})
		}
	}
	return out
}

// Check returns Validate's findings as a *ValidationError, or nil.
func (t Template) Check() error {
	if errs := t.Validate(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Render substitutes vars into both texts and collapses doubled braces.
func (t Template) Render(v Vars) (system, user string) {
	values := v.values()
	return substitute(t.SystemText, values), substitute(t.TemplateText, values)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func isKnown(name string) bool {
	for _, set := range [][]string{RequiredPlaceholders, OptionalPlaceholders} {
		for _, n := range set {
			if n == name {
				return true
			}
		}
	}
	return false
}

// scanPlaceholders returns placeholder names in first-seen order and any malformed
// brace sequences. "{{" and "}}" are literal braces.
func scanPlaceholders(text string) (names, malformed []string) {
	seen := make(map[string]struct{})
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			next := strings.IndexByte(text[i+1:], '{')
			if end < 0 || (next >= 0 && next < end) {
				malformed = append(malformed, snippet(text, i))
				continue
			}
			name := text[i+1 : i+1+end]
			if !validName(name) {
				malformed = append(malformed, "{"+name+"}")
			} else if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i++
				continue
			}
			malformed = append(malformed, snippet(text, i))
		}
	}
	return names, malformed
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}

func snippet(text string, at int) string {
	end := at + 16
	if end > len(text) {
		end = len(text)
	}
	return fmt.Sprintf("%q", text[at:end])
}

func substitute(text string, values map[string]string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if (ch == '{' || ch == '}') && i+1 < len(text) && text[i+1] == ch {
			b.WriteByte(ch)
			i++
			continue
		}
		if ch == '{' {
			if end := strings.IndexByte(text[i+1:], '}'); end >= 0 {
				if val, ok := values[text[i+1:i+1+end]]; ok {
					b.WriteString(val)
					i += end + 1
					continue
				}
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// Names lists every placeholder the renderer understands, sorted.
func Names() []string {
	out := append(append([]string(nil), RequiredPlaceholders...), OptionalPlaceholders...)
	sort.Strings(out)
	return out
}
