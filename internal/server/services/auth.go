// Package services contains server-side business logic. This file implements
// AuthService: registration, login, token issuance/verification, and
// principal resolution for authenticated requests.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlodewijk/modcat/internal/common"
	"github.com/mlodewijk/modcat/internal/dbx"
	"github.com/mlodewijk/modcat/internal/server/auth"
	"github.com/mlodewijk/modcat/internal/server/config"
	"github.com/mlodewijk/modcat/internal/server/models"
	"github.com/mlodewijk/modcat/internal/server/repositories/repomanager"
)

// AuthResult bundles a freshly issued access token with the user it belongs to.
type AuthResult struct {
	AccessToken string
	User        *models.User
}

// AuthService provides authentication-related operations:
//   - Register: create a user and issue a first token
//   - Login: verify credentials and mint a token
//   - VerifyToken: check signature and expiry of a presented token
//   - ResolvePrincipal: load the user behind a token subject
type AuthService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.AccessTokenValidityDuration,
	}
}

// NormalizeEmail lower-cases and trims an email address. Every path that
// stores or looks up an email goes through this, so the stored form is always
// the canonical one.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with an empty favorites list and returns a
// token plus the created user. The submitted email is normalized before the
// uniqueness check; a taken address yields common.ErrEmailAlreadyExists.
func (s *AuthService) Register(ctx context.Context, firstname, lastname, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)
	normalized := NormalizeEmail(email)

	if _, err := repo.GetByEmail(ctx, normalized); err == nil {
		return nil, common.ErrEmailAlreadyExists
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        normalized,
		PasswordHash: hash,
		Favorites:    []models.Favorite{},
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyExists) {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, common.ErrInternal
	}

	token, err := s.IssueToken(created)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{AccessToken: token, User: created}, nil
}

// Login verifies the credentials and mints a token. Unknown email and wrong
// password both return common.ErrInvalidCredentials, so a caller cannot tell
// which addresses have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{AccessToken: token, User: user}, nil
}

// IssueToken signs a token with sub=user.ID, the user's email, and the
// configured fixed TTL.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
}

// VerifyToken checks the signature and expiry of a presented token and
// returns its claims. Pure; no I/O. Issued tokens stay valid until their
// natural expiry — there is no revocation list, and logout never reaches
// the server.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}

// ResolvePrincipal re-fetches the user behind a token subject from the store.
// No caching: a deleted account is reflected on the very next request.
func (s *AuthService) ResolvePrincipal(ctx context.Context, subjectID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return user, nil
}
