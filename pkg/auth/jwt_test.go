package auth

import (
	"strings"
	"testing"
	"time"
)

func TestJWTHandlerGenerateValidate(t *testing.T) {
	h, err := MakeJWTHandler([]byte("supersecretkey123"), time.Minute)
	if err != nil {
		t.Fatalf("make handler err: %v", err)
	}

	token, issued, err := h.Generate("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("generate token err: %v", err)
	}

	claims, err := h.Validate(token)
	if err != nil {
		t.Fatalf("validate token err: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("expected token id %s, got %s", issued.ID, claims.ID)
	}
}

func TestJWTHandlerTokensAreUnique(t *testing.T) {
	h, _ := MakeJWTHandler([]byte("supersecretkey123"), time.Minute)

	_, a, _ := h.Generate("user-1", "a@example.com")
	_, b, _ := h.Generate("user-1", "a@example.com")

	if a.ID == b.ID {
		t.Fatalf("expected distinct token ids")
	}
}

func TestJWTHandlerValidateFail(t *testing.T) {
	h, err := MakeJWTHandler([]byte("anothersecretkey"), time.Minute)
	if err != nil {
		t.Fatalf("make handler err: %v", err)
	}

	if _, err := h.Validate("invalid.token"); err == nil {
		t.Fatalf("expected error for invalid token")
	}

	other, _ := MakeJWTHandler([]byte("a-completely-different-key"), time.Minute)
	token, _, _ := other.Generate("user-1", "a@example.com")

	if _, err := h.Validate(token); err == nil {
		t.Fatalf("expected error for token signed with another key")
	}
}

func TestJWTHandlerRejectsExpiredTokens(t *testing.T) {
	h, _ := MakeJWTHandler([]byte("supersecretkey123"), time.Minute)

	issuedAt := time.Now().Add(-time.Hour)
	h.now = func() time.Time { return issuedAt }

	token, _, err := h.Generate("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	h.now = time.Now

	if _, err := h.Validate(token); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestMakeJWTHandlerValidatesInput(t *testing.T) {
	if _, err := MakeJWTHandler([]byte("short"), time.Minute); err == nil {
		t.Fatalf("expected short secret error")
	}

	if _, err := MakeJWTHandler([]byte("supersecretkey123"), 0); err == nil {
		t.Fatalf("expected ttl error")
	}
}
