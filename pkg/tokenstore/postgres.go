package tokenstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/oauthgate/pkg/pg"
)

const (
	selectTokenQuery = `
		SELECT id, external_id, provider, encrypted_token, created_at, updated_at
		FROM oauth_tokens
		WHERE external_id = $1 AND provider = $2`

	insertTokenQuery = `
		INSERT INTO oauth_tokens (id, external_id, provider, encrypted_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, external_id, provider, encrypted_token, created_at, updated_at`

	updateTokenQuery = `
		UPDATE oauth_tokens
		SET encrypted_token = $3, updated_at = now()
		WHERE external_id = $1 AND provider = $2
		RETURNING id, external_id, provider, encrypted_token, created_at, updated_at`
)

// PostgresRepository stores tokens in the oauth_tokens table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a repository on top of an open pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) GetToken(ctx context.Context, owner, provider string) (*StoredToken, error) {
	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return nil, ErrTokenNotFound
	}

	t, err := scanToken(r.pool.QueryRow(ctx, selectTokenQuery, ownerID, provider))
	if pg.IsNotFoundError(err) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return t, nil
}

func (r *PostgresRepository) CreateToken(ctx context.Context, owner, provider, encryptedSecret string) (*StoredToken, error) {
	ownerID, err := uuid.Parse(owner)
	if err != nil || provider == "" || encryptedSecret == "" {
		return nil, ErrInvalidInput
	}

	t, err := scanToken(r.pool.QueryRow(ctx, insertTokenQuery, uuid.New(), ownerID, provider, encryptedSecret))
	if pg.IsDuplicateKeyError(err) {
		return nil, ErrTokenExists
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return t, nil
}

// UpdateToken is a single UPDATE ... RETURNING, so an absent row yields
// pgx.ErrNoRows and nothing is written.
func (r *PostgresRepository) UpdateToken(ctx context.Context, provider, owner, encryptedSecret string) (*StoredToken, error) {
	if encryptedSecret == "" {
		return nil, ErrInvalidInput
	}
	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return nil, ErrTokenNotFound
	}

	t, err := scanToken(r.pool.QueryRow(ctx, updateTokenQuery, ownerID, provider, encryptedSecret))
	if pg.IsNotFoundError(err) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return t, nil
}

func scanToken(row pgx.Row) (*StoredToken, error) {
	var (
		t     StoredToken
		owner uuid.UUID
	)
	if err := row.Scan(&t.ID, &owner, &t.Provider, &t.EncryptedSecret, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.OwnerExternalID = owner.String()
	return &t, nil
}
