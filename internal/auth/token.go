// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Token error codes returned by Decode.
const (
	CodeTokenInvalid = "AUTH_TOKEN_INVALID"
	CodeTokenExpired = "AUTH_TOKEN_EXPIRED"
)

// TokenIssuer mints and reads bearer tokens.
type TokenIssuer interface {
	// Issue returns a signed token whose subject is userID.
	Issue(userID string) (string, error)

	// Decode verifies the token signature and expiry and returns its claims.
	Decode(token string) (*Claims, error)
}

// UserClaim identifies the token subject.
type UserClaim struct {
	ID string `json:"id"`
}

// Claims is the token payload: {"user":{"id":...},"iat":...}.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// TokenConfig configures a JWTIssuer.
type TokenConfig struct {
	Secret string `koanf:"secret"`
	// TTL of zero issues tokens without an exp claim.
	TTL    time.Duration `koanf:"ttl"`
	Issuer string        `koanf:"issuer"`
}

// JWTIssuer signs HS256 tokens with a process-wide secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. The secret must be non-empty.
func NewJWTIssuer(cfg TokenConfig) (*JWTIssuer, error) {
	if cfg.Secret == "" {
		return nil, oops.Code("AUTH_TOKEN_CONFIG_INVALID").Errorf("token secret is required")
	}
	if cfg.TTL < 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG_INVALID").
			With("ttl", cfg.TTL.String()).
			Errorf("token ttl must be non-negative")
	}
	return &JWTIssuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for userID. Tokens carry iat, so two tokens for the same
// user issued in different seconds differ.
func (i *JWTIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").Errorf("user id is required")
	}

	issuedAt := i.now()
	claims := Claims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(issuedAt),
			Issuer:   i.issuer,
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(i.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	return signed, nil
}

// Decode parses and verifies a token issued by this issuer.
func (i *JWTIssuer) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.Code(CodeTokenExpired).Wrap(err)
		}
		return nil, oops.Code(CodeTokenInvalid).Wrap(err)
	}
	if !parsed.Valid || claims.User.ID == "" {
		return nil, oops.Code(CodeTokenInvalid).Errorf("token has no subject")
	}
	return claims, nil
}
