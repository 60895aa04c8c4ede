package cache

import (
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/platform/obs"
	"car-maneuver-service/internal/platform/retry"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultVehicleKey = "car-maneuver:vehicle"

// RedisVehicleStore keeps a JSON snapshot of the vehicle state under a single key.
type RedisVehicleStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisVehicleStore(client *redis.Client, key string) *RedisVehicleStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultVehicleKey
	}
	return &RedisVehicleStore{Client: client, Key: key}
}

// NewRedisClient parses a redis:// URL and verifies the server answers,
// retrying while it starts up.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := retry.Do(ctx, retry.Default, ping); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}

	return client, nil
}

// Fetch the last saved state.
func (s *RedisVehicleStore) Load(ctx context.Context) (_ domain.VehicleState, _ bool, err error) {
	defer obs.Time(ctx, "vehicle.store.Load")(&err)

	if s.Client == nil {
		return domain.VehicleState{}, false, errors.New("vehicle store: redis client is nil")
	}

	raw, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.VehicleState{}, false, nil
	}
	if err != nil {
		return domain.VehicleState{}, false, fmt.Errorf("load vehicle state: get %q: %w", s.Key, err)
	}

	var state domain.VehicleState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.VehicleState{}, false, fmt.Errorf("load vehicle state: decode %q: %w", s.Key, err)
	}
	if err := state.Validate(); err != nil {
		return domain.VehicleState{}, false, fmt.Errorf("load vehicle state: %w", err)
	}

	return state, true, nil
}

// Store the state, replacing any previous snapshot.
func (s *RedisVehicleStore) Save(ctx context.Context, state domain.VehicleState) (err error) {
	defer obs.Time(ctx, "vehicle.store.Save")(&err)

	if s.Client == nil {
		return errors.New("vehicle store: redis client is nil")
	}

	if err := state.Validate(); err != nil {
		return fmt.Errorf("save vehicle state: %w", err)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("save vehicle state: encode: %w", err)
	}

	if err := s.Client.Set(ctx, s.Key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save vehicle state: set %q: %w", s.Key, err)
	}

	return nil
}
