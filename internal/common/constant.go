// Package common contains shared constants and sentinel errors used across
// the portfolio backend.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"

// RefreshTokenBytes is the amount of entropy in a freshly minted refresh token.
const RefreshTokenBytes = 32
