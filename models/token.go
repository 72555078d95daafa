// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Token is the bearer token issued by POST /auth/login.
//
// Only AccessToken is persisted on the client. ExpiresIn is informational:
// expiry is never evaluated locally, the server reports it through a 401.
type Token struct {
	// AccessToken is the opaque bearer string sent in the Authorization header.
	AccessToken string `json:"access_token"`

	// TokenType is the token scheme, "bearer" for this API.
	TokenType string `json:"token_type"`

	// ExpiresIn is the server-declared lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// String implements [fmt.Stringer] without revealing the bearer value.
func (t Token) String() string {
	if t.AccessToken == "" {
		return "<empty token>"
	}
	return "<" + t.TokenType + " token>"
}
