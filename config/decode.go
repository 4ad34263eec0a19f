package config

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Decode copies params into the struct pointed to by out, using the
// struct's yaml tags as parameter names, then validates the result with its
// validate tags. Unknown parameters and mismatched types are rejected.
func Decode(params map[string]interface{}, out interface{}) error {
	if len(params) > 0 {
		b, err := yaml.Marshal(params)
		if err != nil {
			return Errorf("encoding parameters: %w", err)
		}
		if err := yaml.UnmarshalStrict(b, out); err != nil {
			return Errorf("decoding parameters: %w", err)
		}
	}
	return Validate(out)
}

// Validate checks a config struct against its validate tags.
func Validate(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errorf("validating parameters: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return Errorf("%s: %w", strings.Join(msgs, ", "), err)
}
