// This file implements UserService: profile lookup, email changes, and the
// favorites orchestration on top of the pure engine in the favorites package.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/mlodewijk/modcat/internal/common"
	"github.com/mlodewijk/modcat/internal/dbx"
	"github.com/mlodewijk/modcat/internal/server/favorites"
	"github.com/mlodewijk/modcat/internal/server/models"
	"github.com/mlodewijk/modcat/internal/server/repositories/repomanager"
)

// UserService provides operations on the authenticated user's own aggregate.
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

// NewUserService constructs a UserService bound to the given DB handle.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Profile returns the user's current aggregate straight from the store.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// UpdateEmail normalizes the new address and writes it if no other account
// holds it. The unique index on the store backs up the pre-check, so a racing
// claim of the same address still surfaces as common.ErrEmailAlreadyExists.
func (s *UserService) UpdateEmail(ctx context.Context, userID, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	normalized := NormalizeEmail(email)

	if existing, err := repo.GetByEmail(ctx, normalized); err == nil {
		if existing.ID != userID {
			return nil, common.ErrEmailAlreadyExists
		}
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	updated, err := repo.Update(ctx, userID, models.UserPatch{Email: &normalized})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return nil, common.ErrNotFound
		case errors.Is(err, common.ErrEmailAlreadyExists):
			return nil, common.ErrEmailAlreadyExists
		default:
			return nil, common.ErrInternal
		}
	}
	return updated, nil
}

// AddFavorite appends a snapshot of the module to the user's favorites and
// writes the whole list back. No uniqueness check: adding the same module
// twice yields two entries. The read-modify-write is not guarded; two
// concurrent mutations for the same user race and the last write wins.
func (s *UserService) AddFavorite(ctx context.Context, userID string, fav models.Favorite) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}

	updated := favorites.Add(user.Favorites, fav)
	return s.writeFavorites(ctx, userID, updated)
}

// RemoveFavorite drops every favorite with the given module id and writes the
// whole list back. Removing an absent id succeeds and changes nothing.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, moduleID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	updated := favorites.Remove(user.Favorites, moduleID)
	return s.writeFavorites(ctx, userID, updated)
}

func (s *UserService) writeFavorites(ctx context.Context, userID string, favs []models.Favorite) (*models.User, error) {
	updated, err := s.repomanager.Users(s.db).Update(ctx, userID, models.UserPatch{Favorites: &favs})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return updated, nil
}
