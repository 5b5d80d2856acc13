package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	Secret        string   `yaml:"secret"`
	TokenLifetime Duration `yaml:"token_lifetime"`
}

var ErrTokenSubject = errors.New("token issued for another session")

// Tokens signs and checks the bearer tokens that tie a client to the game
// session it created.
type Tokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// NewTokens uses the configured secret, or a random one when none is set;
// tokens signed with a random secret do not survive a restart.
func NewTokens(c JWT) (*Tokens, error) {
	secret := []byte(c.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate JWT secret: %w", err)
		}
	}
	return &Tokens{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: c.TokenLifetime.Duration,
	}, nil
}

func (t *Tokens) Sign(sessionId string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  sessionId,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.tokenLifetime > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.tokenLifetime))
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

// Verify checks the signature and expiry of tokenString and that it was
// issued for sessionId.
func (t *Tokens) Verify(tokenString, sessionId string) error {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
	)
	if err != nil {
		return err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return err
	}
	if subject != sessionId {
		return ErrTokenSubject
	}
	return nil
}
