package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SecretMinLength = 16

// JWTHandler manages creation and validation of session tokens.
type JWTHandler struct {
	// SecretKey is used to sign tokens.
	SecretKey []byte
	// TTL defines how long generated tokens remain valid.
	TTL time.Duration
	now func() time.Time
}

// Claims represents the session claims. RegisteredClaims.ID identifies the token for revocation.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// MakeJWTHandler validates the provided secret and returns a configured handler.
func MakeJWTHandler(secret []byte, ttl time.Duration) (JWTHandler, error) {
	if len(secret) < SecretMinLength {
		return JWTHandler{}, errors.New("secret key too short")
	}

	if ttl <= 0 {
		return JWTHandler{}, errors.New("token ttl must be positive")
	}

	return JWTHandler{SecretKey: secret, TTL: ttl, now: time.Now}, nil
}

// Generate creates a signed JWT for the given user.
func (j JWTHandler) Generate(userID, email string) (string, *Claims, error) {
	now := j.clock()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(j.SecretKey)
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}

// Validate parses the token string and returns the Claims if valid.
func (j JWTHandler) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}

			return j.SecretKey, nil
		},
		jwt.WithTimeFunc(j.clock),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (j JWTHandler) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}

	return j.now()
}
