package env

import "time"

type AuthEnvironment struct {
	JWTSecret string        `validate:"required,min=32"`
	TokenTTL  time.Duration `validate:"required,gt=0"`
}
