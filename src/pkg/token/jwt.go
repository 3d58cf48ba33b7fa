package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token: invalid bearer token")

// Parse verifies an HS256 token and returns its claims. issuer is checked when
// not empty.
func Parse(raw, secret, issuer string) (*Claim, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claim := &Claim{}
	tok, err := jwt.ParseWithClaims(raw, claim, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claim.Metadata.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claim, nil
}

// Sign issues a token for metadata. Used by tooling and tests.
func Sign(metadata Metadata, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claim := Claim{
		Metadata: metadata,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   metadata.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString([]byte(secret))
}
