// Package authgate reads sessions issued by the hosted auth provider. The
// service never creates sessions itself; it verifies the provider's access
// token and extracts the caller's identity from its claims.
package authgate

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/golfcloud/backend/internal/config"
	"github.com/golfcloud/backend/internal/models"
)

var (
	// ErrNoSession indicates the request carries no provider session cookie.
	ErrNoSession = errors.New("no provider session")
	// ErrInvalidToken indicates the access token failed verification.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrKeyNotConfigured indicates the provider public key is missing from
	// configuration; identity cannot be established without it.
	ErrKeyNotConfigured = errors.New("auth provider public key not configured")
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Reader extracts and verifies provider sessions from incoming requests.
type Reader struct {
	cookieName string
	publicKey  *rsa.PublicKey
}

// NewReader builds a Reader from the auth configuration. A missing public
// key is not fatal at startup; it surfaces as a descriptive per-request
// error when identity is actually needed.
func NewReader(cfg config.AuthConfig) (*Reader, error) {
	reader := &Reader{cookieName: cfg.AccessTokenCookie}

	if pem := strings.TrimSpace(cfg.PublicKeyPEM); pem != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, fmt.Errorf("parse auth provider public key: %w", err)
		}
		reader.publicKey = key
	}

	return reader, nil
}

// SessionFromRequest verifies the access-token cookie and returns the
// caller's identity.
func (r *Reader) SessionFromRequest(req *http.Request) (models.Session, error) {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return models.Session{}, ErrNoSession
	}

	if r.publicKey == nil {
		return models.Session{}, ErrKeyNotConfigured
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return r.publicKey, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return models.Session{}, ErrInvalidToken
	}

	return models.Session{
		UserID: claims.Subject,
		Email:  strings.ToLower(strings.TrimSpace(claims.Email)),
	}, nil
}
