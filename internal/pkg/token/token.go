package token

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid covers bad signatures, foreign keys and malformed input.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for well-signed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the access-token payload. It is never persisted; validity is
// derived from the signature and expiry alone.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwtlib.RegisteredClaims
}

// Codec signs and verifies compact access tokens with an ECDSA key pair.
// The private key signs, the public key verifies.
type Codec struct {
	priv *ecdsa.PrivateKey
	pub  *ecdsa.PublicKey
}

// NewCodec builds a codec from an already-parsed key pair.
func NewCodec(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) *Codec {
	return &Codec{priv: priv, pub: pub}
}

// NewCodecFromFiles loads PEM-encoded EC keys from disk.
func NewCodecFromFiles(privPath, pubPath string) (*Codec, error) {
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	priv, err := jwtlib.ParseECPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pub, err := jwtlib.ParseECPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return NewCodec(priv, pub), nil
}

// Sign creates a signed token carrying the given identity with expiry now+ttl.
func (c *Codec) Sign(userID, email, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodES256, claims).SignedString(c.priv)
}

// Verify checks signature and expiry against the public key. Tokens signed
// with any other key or algorithm are rejected as invalid.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.pub, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Decode extracts claims without verifying the signature. Introspection only;
// never use the result for trust decisions.
func (c *Codec) Decode(tokenStr string) *Claims {
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}
	return claims
}
