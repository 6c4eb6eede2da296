package generation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"resume-engine/internal/prompts"
)

var (
	validateOnce sync.Once
	requestCheck *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		requestCheck = validator.New()
		requestCheck.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return requestCheck
}

// validateRequest collects every field, date and template problem in req.
func validateRequest(req Request) error {
	var out []prompts.FieldError
	if err := requestValidator().Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			out = append(out, prompts.FieldError{Field: fieldPath(fe.Namespace()), Message: describe(fe)})
		}
	}
	if err := req.Consultant.Validate(); err != nil {
		out = append(out, prompts.FieldError{Field: "consultant", Message: err.Error()})
	}
	if req.Prompt != nil {
		for _, fe := range req.Prompt.Validate() {
			fe.Field = "prompt." + fe.Field
			out = append(out, fe)
		}
	}
	if len(out) > 0 {
		return &ValidationError{Errors: dedupe(out)}
	}
	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "is required"
	}
	return "failed " + fe.Tag() + " validation"
}

func dedupe(in []prompts.FieldError) []prompts.FieldError {
	seen := make(map[prompts.FieldError]struct{}, len(in))
	out := in[:0]
	for _, fe := range in {
		if _, ok := seen[fe]; ok {
			continue
		}
		seen[fe] = struct{}{}
		out = append(out, fe)
	}
	return out
}
