package auth

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// UsernameFromToken extracts the username claim from an access token without
// verifying the signature. The client has no verification key and never
// treats the token as trusted input; this is display-only identity
// extraction, matching how the Wasteless apps read the JWT payload.
// Returns "" when the token is malformed or carries no username.
func UsernameFromToken(token string) string {
	claims := jwtlib.MapClaims{}
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	if username, ok := claims["username"].(string); ok {
		return username
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}

// TokenClaims returns the full unverified claim set of an access token, or
// nil when it cannot be parsed.
func TokenClaims(token string) map[string]any {
	claims := jwtlib.MapClaims{}
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}
