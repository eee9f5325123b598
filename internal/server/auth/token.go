// Package auth implements the token service: signed expiring access tokens,
// per-user version checks for bulk revocation, and the derived anti-forgery
// token. It performs no I/O.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2witstudios/pagespace/internal/server/models"
)

// Claims carries the identity encoded in an access token. TokenVersion must
// match the user's stored version for the token to be accepted.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string `json:"userId"`
	TokenVersion int64  `json:"tokenVersion"`
}

// GenerateToken mints an HS256-signed access token for userID with the given
// validity window.
func GenerateToken(userID string, tokenVersion int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:       userID,
		TokenVersion: tokenVersion,
	})

	return token.SignedString(secretKey)
}

// VerifyToken parses and validates a token string. It fails open to
// (nil, false) on expired, malformed, or badly-signed input; callers must
// treat every failure uniformly as "unauthenticated". The distinct causes
// are deliberately collapsed: the correct caller behavior is identical for
// all of them.
func VerifyToken(tokenString string, secretKey []byte) (*Claims, bool) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	return claims, true
}

// CurrentVersionMatches reports whether the token was issued against the
// user's current token version. Incrementing the stored version invalidates
// every outstanding token at once.
func CurrentVersionMatches(claims *Claims, user *models.User) bool {
	return claims != nil && user != nil && claims.TokenVersion == user.TokenVersion
}

// DeriveSessionID computes a stable session identifier from the token's
// claims. It is a keyed digest, so two sessions of the same user (different
// issue times) get different ids and the id cannot be forged without the
// secret.
func DeriveSessionID(claims *Claims, secretKey []byte) string {
	var iat int64
	if claims.IssuedAt != nil {
		iat = claims.IssuedAt.Unix()
	}
	mac := hmac.New(sha256.New, secretKey)
	fmt.Fprintf(mac, "session:%s:%d:%d", claims.UserID, claims.TokenVersion, iat)
	return hex.EncodeToString(mac.Sum(nil))
}

// IssueCSRFToken derives the anti-forgery token for a session. The token is
// re-derivable on demand and needs no server-side storage; it is unguessable
// without the signing secret.
func IssueCSRFToken(sessionID string, secretKey []byte) string {
	mac := hmac.New(sha256.New, secretKey)
	fmt.Fprintf(mac, "csrf:%s", sessionID)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCSRFToken checks a presented CSRF token in constant time.
func VerifyCSRFToken(sessionID, token string, secretKey []byte) bool {
	want := IssueCSRFToken(sessionID, secretKey)
	return hmac.Equal([]byte(want), []byte(token))
}
