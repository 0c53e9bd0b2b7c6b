package operators

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the operator persistence contract.
type Store interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, op *Operator, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (*Operator, string, error)
	FindByID(ctx context.Context, id string) (*Operator, error)
}

// PostgresStore implements Store over a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM operators WHERE email=$1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Insert(ctx context.Context, op *Operator, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO operators (id,name,email,phone,password_hash,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		op.ID, op.Name, op.Email, op.Phone, passwordHash, op.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

// FindByEmail returns the operator and their password hash.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Operator, string, error) {
	var op Operator
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT id,name,email,phone,password_hash,created_at FROM operators WHERE email=$1`,
		email).Scan(&op.ID, &op.Name, &op.Email, &op.Phone, &hash, &op.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("find operator: %w", err)
	}
	return &op, hash, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Operator, error) {
	var op Operator
	err := s.pool.QueryRow(ctx,
		`SELECT id,name,email,phone,created_at FROM operators WHERE id=$1`,
		id).Scan(&op.ID, &op.Name, &op.Email, &op.Phone, &op.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return &op, nil
}
