package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrFormMismatch is returned when a token was issued for another form.
var ErrFormMismatch = errors.New("token issued for another form")

// FormClaims bind an anti-forgery token to one form.
type FormClaims struct {
	Form string `json:"form"`
	jwt.RegisteredClaims
}

func generateJTI() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// FormSigner issues short-lived HS256 tokens embedded in HTML forms.
type FormSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewFormSigner(secret string, ttl time.Duration) *FormSigner {
	return &FormSigner{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for form.
func (s *FormSigner) Issue(form string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}

	now := time.Now()
	c := FormClaims{
		Form: form,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

// Verify checks the signature, expiry and form binding of tokenStr.
func (s *FormSigner) Verify(form, tokenStr string) error {
	if tokenStr == "" {
		return jwt.ErrTokenMalformed
	}
	t, err := jwt.ParseWithClaims(tokenStr, &FormClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("parse form token: %w", err)
	}
	claims, ok := t.Claims.(*FormClaims)
	if !ok || !t.Valid {
		return jwt.ErrTokenInvalidClaims
	}
	if claims.Form != form {
		return ErrFormMismatch
	}
	return nil
}
