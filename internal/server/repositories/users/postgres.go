package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlodewijk/modcat/internal/common"
	"github.com/mlodewijk/modcat/internal/dbx"
	"github.com/mlodewijk/modcat/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code raised by the unique index on
// users.email.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, firstname, lastname, email, password_hash, favorites, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	favs, err := marshalFavorites(user.Favorites)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, firstname, lastname, email, password_hash, favorites)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.ID, user.Firstname, user.Lastname, user.Email, user.PasswordHash, favs)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Update writes only the fields present in patch plus updated_at. The
// favorites column is replaced as a whole document: concurrent updates for
// the same user race and the last write wins.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Firstname != nil {
		add("firstname", *patch.Firstname)
	}
	if patch.Lastname != nil {
		add("lastname", *patch.Lastname)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.Favorites != nil {
		favs, err := marshalFavorites(*patch.Favorites)
		if err != nil {
			return nil, err
		}
		add("favorites", favs)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func marshalFavorites(favs []models.Favorite) ([]byte, error) {
	if favs == nil {
		favs = []models.Favorite{}
	}
	data, err := json.Marshal(favs)
	if err != nil {
		return nil, fmt.Errorf("marshal favorites: %w", err)
	}
	return data, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var favs []byte

	err := row.Scan(&user.ID, &user.Firstname, &user.Lastname, &user.Email,
		&user.PasswordHash, &favs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(favs) > 0 {
		if err := json.Unmarshal(favs, &user.Favorites); err != nil {
			return nil, fmt.Errorf("unmarshal favorites: %w", err)
		}
	}
	if user.Favorites == nil {
		user.Favorites = []models.Favorite{}
	}

	return user, nil
}
