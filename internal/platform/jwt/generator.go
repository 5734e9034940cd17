package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopePublish は POST /reddit-sentiment に必要なスコープです。
const ScopePublish = "publish"

var ErrEmptySecret = errors.New("jwt: signing secret is empty")

// Claims are the claims carried by a publisher token.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Generator issues publisher tokens.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator は HS256 で署名する Generator を返します。
func NewGenerator(secret string, expiration time.Duration) (*Generator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Generator{secret: []byte(secret), expiration: expiration, now: time.Now}, nil
}

// GenerateToken signs a publish-scoped token for the named publisher.
func (g *Generator) GenerateToken(publisher string) (string, error) {
	now := g.now()
	claims := Claims{
		Scope: ScopePublish,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publisher,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
