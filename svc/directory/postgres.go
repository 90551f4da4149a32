package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/pg"
)

const (
	selectUserByEmailQuery = `
		SELECT external_id, email, name
		FROM users
		WHERE email = $1`

	insertUserQuery = `
		INSERT INTO users (external_id, email, name)
		VALUES ($1, $2, $3)
		RETURNING external_id, email, name`
)

// PostgresUserStore stores users in the users table.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

var _ UserStore = (*PostgresUserStore)(nil)

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) GetUserByEmail(ctx context.Context, email string) (*directory.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, selectUserByEmailQuery, email))
	if pg.IsNotFoundError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return u, nil
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, user directory.User) (*directory.User, error) {
	id, err := uuid.Parse(user.ExternalID)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	u, err := scanUser(s.pool.QueryRow(ctx, insertUserQuery, id, user.Email, user.Name))
	if pg.IsDuplicateKeyError(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*directory.User, error) {
	var (
		u  directory.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.Name); err != nil {
		return nil, err
	}
	u.ExternalID = id.String()
	return &u, nil
}
