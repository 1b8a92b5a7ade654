package service

import (
	"time"

	"greenhood/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims of a session token.
type Claims struct {
	Kind       entity.ActorKind `json:"kind"`
	ActorID    int64            `json:"aid"`
	Identifier string           `json:"idn"`
	Name       string           `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Actor returns the principal carried by the claims.
func (c *Claims) Actor() entity.Actor {
	return entity.Actor{
		Kind:        c.Kind,
		ID:          c.ActorID,
		Identifier:  c.Identifier,
		DisplayName: c.Name,
	}
}

// TokenService defines the interface for issuing and validating session tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a signed session token for the actor.
	GenerateToken(actor entity.Actor) (string, error)

	// ValidateToken checks the signature and expiry of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// TokenDuration returns the configured session lifetime.
	TokenDuration() time.Duration
}
