// Package auth authenticates the shopkeeper against configured admin
// credentials and issues short-lived HS256 tokens for the catalog
// management endpoints.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/jvitormendess/jaci-api/internal/common"
)

const defaultTokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and validates admin access tokens. Exactly one admin
// account exists, configured through the environment: Password holds a
// plain secret for local setups, PasswordHash an argon2id hash for
// deployments. When both are set the hash wins.
type Service struct {
	secret       []byte
	user         string
	password     string
	passwordHash string
	tokenTTL     time.Duration
	now          func() time.Time
	signer       jwa.SignatureAlgorithm
	clockSkew    time.Duration
	issuer       string
	audience     string
}

// Config configures the auth service.
type Config struct {
	Secret       string
	AdminUser    string
	Password     string
	PasswordHash string
	TokenTTL     time.Duration
	ClockSkew    time.Duration
}

// TokenResult bundles token material returned after a successful login.
type TokenResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	user := strings.TrimSpace(cfg.AdminUser)
	if user == "" {
		return nil, errors.New("auth: admin user is required")
	}
	if strings.TrimSpace(cfg.Password) == "" && strings.TrimSpace(cfg.PasswordHash) == "" {
		return nil, errors.New("auth: admin password or password hash is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	return &Service{
		secret:       []byte(secret),
		user:         user,
		password:     cfg.Password,
		passwordHash: strings.TrimSpace(cfg.PasswordHash),
		tokenTTL:     ttl,
		now:          time.Now,
		signer:       jwa.HS256,
		clockSkew:    clockSkew,
		issuer:       "jaci-api",
		audience:     "jaci-admin",
	}, nil
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Login checks the supplied credentials and returns a signed token.
func (s *Service) Login(_ context.Context, user, password string) (TokenResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.user)) == 1
	passOK, err := s.checkPassword(password)
	if err != nil {
		return TokenResult{}, err
	}
	if !userOK || !passOK {
		return TokenResult{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.signToken()
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) checkPassword(password string) (bool, error) {
	if s.passwordHash != "" {
		match, err := argon2id.ComparePasswordAndHash(password, s.passwordHash)
		if err != nil {
			return false, fmt.Errorf("compare password hash: %w", err)
		}
		return match, nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1, nil
}

// ParseToken validates an access token and returns its subject.
func (s *Service) ParseToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if algorithm != s.signer {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret), jwt.WithValidate(false))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if err := s.validateClaims(parsed); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

func (s *Service) validateClaims(tok jwt.Token) error {
	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	}
	if s.clockSkew > 0 {
		opts = append(opts, jwt.WithAcceptableSkew(s.clockSkew))
	}
	return jwt.Validate(tok, opts...)
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signToken() (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	builder := jwt.NewBuilder().
		Subject(s.user).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		Expiration(expiresAt)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}
