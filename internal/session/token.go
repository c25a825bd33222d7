package session

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims is the signed payload of the session cookie
type Claims struct {
	UserID               uint    `json:"user_id,omitempty"`  // Logged-in user, zero when anonymous
	Username             string  `json:"username,omitempty"` // Display name of the logged-in user
	Flashes              []Flash `json:"flashes,omitempty"`  // Notices waiting for the next page
	jwt.RegisteredClaims         // Standard JWT claims
}

// generateToken signs the session state with secret
func generateToken(s *Session, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID:   s.UserID,
		Username: s.Username,
		Flashes:  s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Sliding expiry, refreshed on every save
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(secret)                          // Sign the token with the secret
}

// parseToken validates a token string and returns its claims
func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
