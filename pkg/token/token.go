// Package token implements the gatepass token codec: a compact HS256 JWT
// binding a trip id and vehicle number to a fixed validity window.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Decode errors. Decode returns exactly one of these for any input that
// does not yield valid claims.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claims is the gatepass token payload. The trip id travels in the
// registered "sub" claim; the vehicle number is bound in "vn" so a token
// cannot be moved to another vehicle without breaking the signature.
type Claims struct {
	VehicleNumber string `json:"vn"`
	gojwt.RegisteredClaims
}

// TripID returns the subject claim.
func (c *Claims) TripID() string { return c.Subject }

// Codec signs and verifies gatepass tokens. The zero value is not usable;
// construct with New. Secrets and the validity window are injected so tests
// can run with their own values.
type Codec struct {
	Secret []byte
	TTL    time.Duration

	// Now is the clock used for issuance and expiry checks.
	// Nil means time.Now.
	Now func() time.Time
}

// New returns a Codec signing with secret and issuing tokens valid for ttl.
func New(secret []byte, ttl time.Duration) *Codec {
	return &Codec{Secret: secret, TTL: ttl}
}

func (c *Codec) clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Encode builds and signs a token for the given trip and vehicle.
// Output is the standard three-segment base64url form, portable to any
// JWT implementation holding the same secret.
func (c *Codec) Encode(tripID, vehicleNumber string) (string, error) {
	now := c.clock()
	claims := Claims{
		VehicleNumber: vehicleNumber,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   tripID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(c.TTL)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

// Decode parses and verifies a raw token string. It is total: any input
// yields either claims or one of ErrMalformed, ErrSignatureInvalid,
// ErrExpired. Signature comparison is constant-time (HMAC verify inside
// the JWT library). A token whose expiry instant equals the current
// instant is already expired; validity requires now < exp.
func (c *Codec) Decode(raw string) (*Claims, error) {
	parsed, err := gojwt.ParseWithClaims(raw, &Claims{}, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.Secret, nil
	},
		gojwt.WithTimeFunc(c.clock),
		gojwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, gojwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			// Structural failures, alg confusion, missing exp: all present
			// as a malformed credential.
			return nil, ErrMalformed
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
