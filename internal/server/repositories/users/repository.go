// Package users contains the durable store for User aggregates, keyed by id
// and by normalized (lower-cased) email.
package users

import (
	"context"

	"github.com/mlodewijk/modcat/internal/server/models"
)

// Repository is the UserStore contract. Lookups return common.ErrNotFound for
// absent rows; Update with an unknown id does the same rather than failing
// hard, so callers can treat "vanished user" as an ordinary outcome.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
