package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"fairchain/pkg/domain"
)

const blacklistKeyPrefix = "fairchain:blacklist:"

// RedisBlacklistStore is a Redis-backed deny-list for deployments where
// multiple instances must share blacklist state. Key existence is the fact;
// the serialized entry carries reason and epoch for inspection. Entries have
// no TTL: blacklisting holds until explicitly reversed.
type RedisBlacklistStore struct {
	client         *redis.Client
	lookupDuration prometheus.Histogram
}

// NewRedisBlacklistStore constructs a Redis-backed blacklist. The histogram
// may be nil when lookup latency is not being collected.
func NewRedisBlacklistStore(client *redis.Client, lookupDuration prometheus.Histogram) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client, lookupDuration: lookupDuration}
}

func (s *RedisBlacklistStore) Add(ctx context.Context, entry BlacklistEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal blacklist entry: %w", err)
	}
	return s.client.Set(ctx, blacklistKeyPrefix+entry.Entity.String(), payload, 0).Err()
}

func (s *RedisBlacklistStore) Remove(ctx context.Context, entity domain.Principal) error {
	return s.client.Del(ctx, blacklistKeyPrefix+entity.String()).Err()
}

func (s *RedisBlacklistStore) Find(ctx context.Context, entity domain.Principal) (*BlacklistEntry, error) {
	start := time.Now()
	defer func() {
		if s.lookupDuration != nil {
			s.lookupDuration.Observe(time.Since(start).Seconds())
		}
	}()

	raw, err := s.client.Get(ctx, blacklistKeyPrefix+entity.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blacklist entry: %w", err)
	}
	var entry BlacklistEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal blacklist entry: %w", err)
	}
	return &entry, nil
}
