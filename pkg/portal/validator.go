package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	mu       sync.Mutex
	instance *validator.Validate
	errors   map[string]any
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

func GetDefaultValidator() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = MakeValidatorFrom(
			validator.New(validator.WithRequiredStructEnabled()),
		)
	})

	return defaultValidator
}

func MakeValidatorFrom(abstract *validator.Validate) *Validator {
	registerCustomValidations(abstract)

	return &Validator{
		instance: abstract,
		errors:   make(map[string]any),
	}
}

func (v *Validator) Passes(target any) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.errors = make(map[string]any)

	if err := v.instance.Struct(target); err != nil {
		v.errors = parseError(err)

		return false, err
	}

	return true, nil
}

// Inspect validates target and returns its field errors without touching the shared state,
// so request handlers can use the default validator concurrently.
func (v *Validator) Inspect(target any) map[string]any {
	if err := v.instance.Struct(target); err != nil {
		return parseError(err)
	}

	return nil
}

func (v *Validator) Rejects(target any) (bool, error) {
	passes, err := v.Passes(target)

	return !passes, err
}

func (v *Validator) GetErrors() map[string]any {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]any, len(v.errors))
	for field, message := range v.errors {
		out[field] = message
	}

	return out
}

func (v *Validator) GetErrorsAsJson() string {
	data, err := json.Marshal(v.GetErrors())

	if err != nil {
		return ""
	}

	return string(data)
}

func parseError(err error) map[string]any {
	out := make(map[string]any)
	var validationErrs validator.ValidationErrors

	if !errors.As(err, &validationErrs) {
		out["_"] = err.Error()
		return out
	}

	for _, current := range validationErrs {
		field := strings.ToLower(current.Field())

		out[field] = fmt.Sprintf(
			"%s is invalid. It failed on the [%s] rule with the given value [%v]",
			field,
			current.Tag(),
			current.Value(),
		)
	}

	return out
}
