package portal

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

var categoryPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 \-]{0,39}$`)

func registerCustomValidations(v *validator.Validate) {
	if v == nil {
		return
	}

	rules := map[string]validator.Func{
		"cron":     validateCronExpression,
		"category": validateCategory,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("portal: failed to register " + tag + " validation: " + err.Error())
		}
	}
}

func validateCronExpression(fl validator.FieldLevel) bool {
	expr := strings.TrimSpace(fl.Field().String())
	if expr == "" {
		return false
	}

	_, err := cronParser.Parse(expr)
	return err == nil
}

// validateCategory accepts short free-form labels such as "tech tips" or "self-care".
// Empty values pass so the column default can apply.
func validateCategory(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}

	return categoryPattern.MatchString(value)
}
