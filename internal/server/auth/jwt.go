// Package auth mints and verifies the credentials handed to administrators:
// short-lived HS256 access tokens, opaque refresh tokens, and bcrypt password
// hashes.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller extracted from a valid access token.
type Principal struct {
	AdministratorID string
}

// Claims carries the standard registered claims; the administrator id is the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of tokens minted by this issuer.
func (i *Issuer) TTL() time.Duration { return i.ttl }

func (i *Issuer) IssueAccessToken(administratorID string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   administratorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseAccessToken verifies signature, algorithm and expiry. Expired tokens
// yield common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func (i *Issuer) ParseAccessToken(tokenString string) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, common.ErrTokenExpired
		}
		return Principal{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{AdministratorID: claims.Subject}, nil
}
