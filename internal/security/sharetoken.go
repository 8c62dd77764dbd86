package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ShareClaims are the claims carried by a deck share-link token
type ShareClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	DeckID string `json:"deck"`
}

// ShareTokenSigner issues and verifies signed deck share-link tokens.
// Tokens are HMAC-signed with the app secret, so share links survive
// restarts as long as SECRET_KEY is stable.
type ShareTokenSigner struct {
	secret []byte
}

// NewShareTokenSigner creates a signer from the app secret key
func NewShareTokenSigner(secret string) *ShareTokenSigner {
	return &ShareTokenSigner{secret: []byte(secret)}
}

// Sign creates a share token granting read access to one deck of one user
func (s *ShareTokenSigner) Sign(userID int64, deckID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "studydesk",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		DeckID: deckID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a share token, returning its claims
func (s *ShareTokenSigner) Verify(tokenString string) (*ShareClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &ShareClaims{}

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid share token")
	}
	if claims.DeckID == "" || claims.UserID == 0 {
		return nil, errors.New("invalid share token")
	}

	return claims, nil
}
