package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			slog.Info("connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		slog.Info("waiting for Redis", "attempt", i+1, "max", 20)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// RevokeTrip adds a trip to the revocation denylist. The entry expires with
// ttl, which callers set to the gatepass validity window: once every token
// for the trip has expired on its own, the denylist entry is dead weight.
func (c *Client) RevokeTrip(ctx context.Context, tripID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "revoked:"+tripID, "1", ttl).Err()
}

// IsTripRevoked reports whether a trip is on the revocation denylist.
func (c *Client) IsTripRevoked(ctx context.Context, tripID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, "revoked:"+tripID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetVehicleLocation stores a trip's last reported position in a Redis GEO set.
func (c *Client) SetVehicleLocation(ctx context.Context, tripID string, lat, lng float64) error {
	return c.rdb.GeoAdd(ctx, "vehicle:locations", &goredis.GeoLocation{
		Name:      tripID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// GetNearbyVehicles returns trip IDs reporting within radiusKm of (lat,lng),
// nearest first.
func (c *Client) GetNearbyVehicles(ctx context.Context, lat, lng, radiusKm float64, count int) ([]string, error) {
	res, err := c.rdb.GeoSearch(ctx, "vehicle:locations", &goredis.GeoSearchQuery{
		Longitude:  lng,
		Latitude:   lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Count:      count,
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
