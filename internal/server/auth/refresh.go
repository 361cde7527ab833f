package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// NewRefreshToken returns an opaque random refresh token value. It carries no
// structure; its lifetime lives only in the stored row.
func NewRefreshToken() (string, error) {
	return common.MakeRandURLString(common.RefreshTokenBytes)
}

// HashRefreshToken is the at-rest form of a refresh token value.
func HashRefreshToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
