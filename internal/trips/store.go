package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the trip persistence contract: insert-and-return-id plus
// lookups. The service never updates or deletes trips except for the
// last-known location.
type Store interface {
	Insert(ctx context.Context, t *Trip) (string, error)
	FindByID(ctx context.Context, id string) (*Trip, error)
	Recent(ctx context.Context, limit int) ([]Trip, error)
	UpdateLocation(ctx context.Context, id string, lat, lng float64) error
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

// Insert persists a new trip and returns its assigned id. The id is
// assigned here, once, and never changes.
func (s *PostgresStore) Insert(ctx context.Context, t *Trip) (string, error) {
	id := uuid.New().String()
	docs, err := json.Marshal(t.Documents)
	if err != nil {
		return "", fmt.Errorf("marshal documents: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO trips (id,driver_name,driver_phone,driver_photo,vehicle_number,
		                    route_from,route_to,documents,status,trust_score,last_lat,last_lng,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id, t.DriverName, t.DriverPhone, t.DriverPhoto, t.VehicleNumber,
		t.RouteFrom, t.RouteTo, docs, t.Status, t.TrustScore, t.LastLat, t.LastLng, t.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert trip: %w", err)
	}
	t.ID = id
	return id, nil
}

// FindByID fetches a trip by primary key. Returns ErrTripNotFound when no
// row exists.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Trip, error) {
	t, err := s.scanOne(s.pool.QueryRow(ctx,
		`SELECT id,driver_name,driver_phone,driver_photo,vehicle_number,
		        route_from,route_to,documents,status,trust_score,last_lat,last_lng,created_at
		 FROM trips WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find trip: %w", err)
	}
	return t, nil
}

// Recent returns the newest trips, most recent first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Trip, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id,driver_name,driver_phone,driver_photo,vehicle_number,
		        route_from,route_to,documents,status,trust_score,last_lat,last_lng,created_at
		 FROM trips ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var out []Trip
	for rows.Next() {
		t, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateLocation stores the trip's last reported position. Returns
// ErrTripNotFound when the trip does not exist.
func (s *PostgresStore) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE trips SET last_lat=$1, last_lng=$2 WHERE id=$3`, lat, lng, id)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// AdjustTrustScore shifts a trip's trust score by delta, clamped to [0,100].
// Consumed by the background scorer, not part of the Store interface.
func (s *PostgresStore) AdjustTrustScore(ctx context.Context, id string, delta int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE trips SET trust_score = LEAST(GREATEST(trust_score + $1, 0), 100) WHERE id=$2`,
		delta, id)
	if err != nil {
		return fmt.Errorf("adjust trust score: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanOne(row rowScanner) (*Trip, error) {
	var t Trip
	var docs []byte
	err := row.Scan(&t.ID, &t.DriverName, &t.DriverPhone, &t.DriverPhoto, &t.VehicleNumber,
		&t.RouteFrom, &t.RouteTo, &docs, &t.Status, &t.TrustScore, &t.LastLat, &t.LastLng, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &t.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	return &t, nil
}
