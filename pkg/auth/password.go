package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const PasswordMinLength = 8

type Password struct {
	hash []byte
}

func MakePassword(plain string) (Password, error) {
	if len(plain) < PasswordMinLength {
		return Password{}, fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, fmt.Errorf("unable to hash password: %w", err)
	}

	return Password{hash: hash}, nil
}

func PasswordFromHash(hash string) Password {
	return Password{hash: []byte(hash)}
}

// Is compares in constant time.
func (p Password) Is(plain string) bool {
	if len(p.hash) == 0 {
		return false
	}

	return bcrypt.CompareHashAndPassword(p.hash, []byte(plain)) == nil
}

func (p Password) GetHash() string {
	return string(p.hash)
}
