// Package api contains the HTTP client for the modcat backend.
package api

import (
	"context"

	"github.com/mlodewijk/modcat/internal/client/models"
)

// Client is the remote API surface the CLI talks to.
//
// Protected calls attach the access token set via SetAccessToken. Error
// mapping: 401 responses yield ErrUnauthorized, 409 yield ErrConflict, and
// transport failures yield ErrUnavailable.
type Client interface {
	SetAccessToken(token string)
	Register(ctx context.Context, firstname, lastname, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateEmail(ctx context.Context, email string) (*models.User, error)
	AddFavorite(ctx context.Context, fav models.Favorite) (*models.User, error)
	RemoveFavorite(ctx context.Context, moduleID string) (*models.User, error)
}
