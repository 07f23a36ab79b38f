package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client  *redis.Client
	tripTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tripTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		tripTTL: tripTTL,
	}
}

func (c *RedisCache) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	data, err := c.client.Get(ctx, tripKey(tripID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trip domain.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *RedisCache) SetTrip(ctx context.Context, trip *domain.Trip) error {
	payload, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripKey(trip.ID), payload, c.tripTTL).Err()
}

// AcquireTripHold takes the per-trip coordination token covering the window
// between the availability check and the operator reservation. Concurrent
// bookings against the same trip serialize on it.
func (c *RedisCache) AcquireTripHold(ctx context.Context, tripID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, tripHoldKey(tripID), "held", ttl).Result()
}

func (c *RedisCache) ReleaseTripHold(ctx context.Context, tripID int64) error {
	return c.client.Del(ctx, tripHoldKey(tripID)).Err()
}

func tripKey(tripID int64) string {
	return fmt.Sprintf("cache:trip:%d", tripID)
}

func tripHoldKey(tripID int64) string {
	return fmt.Sprintf("hold:trip:%d", tripID)
}
