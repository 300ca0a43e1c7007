// Package auth gates moderation behind a shared admin secret. Unlike the
// booth's first iteration the secret is verified server-side: a successful
// login yields a JWT that the moderation routes check on every call.
package auth

import (
	"crypto/subtle"
	"time"

	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "wonderland-booth"

// Service wraps the go-pkgz token service for the single admin identity.
type Service struct {
	svc          *auth.Service
	password     string
	passwordHash string
}

// NewService builds the admin auth service. When passwordHash (bcrypt) is
// set it wins over the plain password.
func NewService(jwtSecret, password, passwordHash, appURL string) *Service {
	s := &Service{password: password, passwordHash: passwordHash}

	options := auth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return jwtSecret, nil
		}),
		TokenDuration:  time.Hour * 12,
		CookieDuration: time.Hour * 24,
		Issuer:         issuer,
		URL:            appURL,
		AvatarStore:    avatar.NewLocalFS("/tmp/avatars"),
	}

	service := auth.NewService(options)
	service.AddDirectProvider("admin", provider.CredCheckerFunc(func(identity, password string) (bool, error) {
		return s.Verify(password), nil
	}))

	s.svc = service
	return s
}

// Verify checks the shared secret in constant time.
func (s *Service) Verify(password string) bool {
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

// IssueToken mints a JWT for the admin identity.
func (s *Service) IssueToken() (string, error) {
	claims := token.Claims{
		User: &token.User{
			ID:   "admin",
			Name: "Booth Admin",
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  []string{issuer},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 12)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return s.svc.TokenService().Token(claims)
}

// ParseToken validates a JWT and returns its claims.
func (s *Service) ParseToken(tokenStr string) (token.Claims, error) {
	return s.svc.TokenService().Parse(tokenStr)
}
