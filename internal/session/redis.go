package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bulkpickup_app/internal/navigation"
)

const maxUpdateAttempts = 3

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps sessions as JSON strings with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "bulkpickup:session:"}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (navigation.State, error) {
	return s.read(ctx, s.client, id)
}

// Update runs fn inside a WATCH transaction so two requests from the same
// browser cannot interleave their read-modify-write.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(navigation.State) navigation.State) (navigation.State, error) {
	key := s.key(id)
	var next navigation.State

	txf := func(tx *redis.Tx) error {
		current, err := s.read(ctx, tx, id)
		if err != nil {
			return err
		}
		next = fn(current).Normalize()

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("session: encode state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return navigation.State{}, err
	}
	return navigation.State{}, ErrConflict
}

func (s *RedisStore) read(ctx context.Context, r getter, id string) (navigation.State, error) {
	data, err := r.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return navigation.Initial(), nil
	}
	if err != nil {
		return navigation.State{}, fmt.Errorf("session: read %s: %w", id, err)
	}

	var state navigation.State
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt payload is treated like an expired session.
		return navigation.Initial(), nil
	}
	return state.Normalize(), nil
}
