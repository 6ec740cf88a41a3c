// Package auth verifies the two credential kinds the API accepts:
// HS256 JWTs for interactive sessions and mk_-prefixed API keys for
// automation.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meeplekeep/meeplekeep-api/internal/repository"
)

// APIKeyPrefix marks API key credentials apart from JWTs.
const APIKeyPrefix = "mk_"

// ErrUnauthorized is returned for any credential that does not verify.
// Callers treat every negative or error outcome as deny.
var ErrUnauthorized = errors.New("unauthorized")

// Claims is the verified identity of a caller.
type Claims struct {
	Subject string
	Admin   bool
}

// Verifier checks bearer credentials.
type Verifier struct {
	jwtSecret []byte
	pepper    []byte
	keys      repository.APIKeyRepository
}

// NewVerifier creates a Verifier. pepper is mixed into API key hashes
// so a leaked database alone cannot be tested against candidate keys.
func NewVerifier(jwtSecret, pepper []byte, keys repository.APIKeyRepository) *Verifier {
	return &Verifier{jwtSecret: jwtSecret, pepper: pepper, keys: keys}
}

// Verify checks a bearer credential and returns the caller's claims.
// API keys are recognized by prefix; everything else is parsed as a
// JWT.
func (v *Verifier) Verify(ctx context.Context, credential string) (*Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrUnauthorized
	}
	if strings.HasPrefix(credential, APIKeyPrefix) {
		return v.verifyAPIKey(ctx, credential)
	}
	return v.verifyJWT(credential)
}

func (v *Verifier) verifyJWT(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	admin, _ := claims["admin"].(bool)
	return &Claims{Subject: sub, Admin: admin}, nil
}

func (v *Verifier) verifyAPIKey(ctx context.Context, key string) (*Claims, error) {
	if v.keys == nil {
		return nil, ErrUnauthorized
	}
	record, err := v.keys.GetByHash(ctx, HashKey(key, v.pepper))
	if err != nil || record == nil {
		return nil, ErrUnauthorized
	}
	// Best effort; a failed touch must not fail the request.
	_ = v.keys.TouchLastUsed(ctx, record.ID)

	// API keys exist only for admin automation.
	return &Claims{Subject: "apikey:" + record.ID, Admin: true}, nil
}

// IssueToken mints an HS256 JWT for the given subject.
func (v *Verifier) IssueToken(subject string, admin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"admin": admin,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return token.SignedString(v.jwtSecret)
}

// HashKey computes the peppered SHA-256 digest stored for an API key.
func HashKey(key string, pepper []byte) string {
	h := sha256.New()
	h.Write(pepper)
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}
