package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that is malformed, expired,
// badly signed, or whose session is no longer active.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of a session token.
//
// SessionID identifies one login. The user record stores only the hash of
// it, so logging out (or an admin removal) revokes the token even though
// its signature stays valid.
type Claims struct {
	UserID    int64     `json:"user_id"`
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with HS256.
//
// Issuer only vouches for the signature and expiry. Whether the session is
// still live is decided by the caller against the session hashes stored
// on the user: logout and user removal delete the hash, and the token is
// dead from then on.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an issuer. A zero ttl means tokens never expire on
// their own and only die with their session.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a token for userID and returns it with the hash to store
// on the user record.
func (i *Issuer) Issue(userID int64) (token, sessionHash string, err error) {
	now := i.now()
	sid := uuid.New()

	claims := Claims{
		UserID:    userID,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   "beans",
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, HashSession(sid), nil
}

// Parse validates the signature and expiry of token and returns its claims.
//
// Every failure wraps ErrInvalidToken, so callers map it to 401 with
// errors.Is and never leak why the token was rejected. A token that
// passes Parse may still belong to a session that has ended.
func (i *Issuer) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) {
			// Reject anything but HMAC so "none" or RSA tokens never verify.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashSession is what gets stored in models.User.Tokens.
func HashSession(sid uuid.UUID) string {
	sum := sha256.Sum256([]byte(sid.String()))
	return hex.EncodeToString(sum[:])
}
