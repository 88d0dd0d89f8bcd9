package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	secret := "my-secret-key"
	j := NewJWT(secret)

	userID := int64(123)
	email := "test@example.com"

	token, err := j.Generate(userID, email)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Validate() got UserID %d, want %d", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Errorf("Validate() got Email %s, want %s", claims.Email, email)
	}
}

func TestJWT_TamperedSignature(t *testing.T) {
	j := NewJWT("my-secret-key")
	token, _ := j.Generate(1, "a@b.com")

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + "invalid-signature"
	if _, err := j.Validate(tampered); err == nil {
		t.Error("Validate() accepted tampered signature")
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	token, _ := NewJWT("secret-a").Generate(1, "a@b.com")

	if _, err := NewJWT("secret-b").Validate(token); err == nil {
		t.Error("Validate() accepted token signed with different secret")
	}
}

func TestJWT_InvalidFormat(t *testing.T) {
	j := NewJWT("my-secret-key")

	if _, err := j.Validate("invalid.token"); err == nil {
		t.Error("Validate() accepted invalid format")
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	secret := "my-secret-key"
	j := NewJWT(secret)

	now := time.Now()
	claims := Claims{
		UserID: 7,
		Email:  "old@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	_, err = j.Validate(expired)
	if err != ErrExpiredToken {
		t.Errorf("Validate() = %v, want ErrExpiredToken", err)
	}
}

func TestJWT_RejectsUnexpectedSigningMethod(t *testing.T) {
	j := NewJWT("my-secret-key")

	// Token signed with "none" must not validate.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	if _, err := j.Validate(unsigned); err == nil {
		t.Error("Validate() accepted token with none signing method")
	}
}
