package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"

	"scoringd/internal/models"
)

const maxPruneAttempts = 10

// RedisHistoryStore keeps every subject's history in a Redis list of JSON
// snapshots, plus a set of known subjects.
type RedisHistoryStore struct {
	client       *redis.Client
	prefix       string
	maxSubjects  int
	maxSnapshots int
}

func NewRedisHistoryStore(ctx context.Context, url, prefix string, maxSubjects, maxSnapshots int) (*RedisHistoryStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisHistoryStore{
		client:       client,
		prefix:       prefix,
		maxSubjects:  maxSubjects,
		maxSnapshots: maxSnapshots,
	}, nil
}

func (s *RedisHistoryStore) subjectsKey() string {
	return s.prefix + ":subjects"
}

func (s *RedisHistoryStore) historyKey(subject string) string {
	return s.prefix + ":history:" + subject
}

func (s *RedisHistoryStore) Append(ctx context.Context, subject string, snap models.Snapshot) error {
	known, err := s.client.SIsMember(ctx, s.subjectsKey(), subject).Result()
	if err != nil {
		return fmt.Errorf("redis sismember failed: %w", err)
	}
	if !known && s.maxSubjects > 0 {
		count, err := s.client.SCard(ctx, s.subjectsKey()).Result()
		if err != nil {
			return fmt.Errorf("redis scard failed: %w", err)
		}
		if count >= int64(s.maxSubjects) {
			return models.ErrCapacityExceeded
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := s.historyKey(subject)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, s.subjectsKey(), subject)
		pipe.RPush(ctx, key, data)
		if s.maxSnapshots > 0 {
			pipe.LTrim(ctx, key, int64(-s.maxSnapshots), -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append failed: %w", err)
	}
	return nil
}

func (s *RedisHistoryStore) List(ctx context.Context, subject string) ([]models.Snapshot, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(subject), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}
	if len(raw) == 0 {
		return nil, models.ErrNoData
	}
	return decodeSnapshots(raw)
}

func (s *RedisHistoryStore) Subjects(ctx context.Context) ([]string, error) {
	subjects, err := s.client.SMembers(ctx, s.subjectsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Prune rewrites each list without the snapshots recorded before olderThan.
func (s *RedisHistoryStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	subjects, err := s.Subjects(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, subject := range subjects {
		n, err := s.pruneSubject(ctx, subject, olderThan)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// pruneSubject rewrites one list under WATCH so that a concurrent append
// aborts the rewrite, which is then retried on the new contents.
func (s *RedisHistoryStore) pruneSubject(ctx context.Context, subject string, olderThan time.Time) (int, error) {
	key := s.historyKey(subject)
	for attempt := 0; attempt < maxPruneAttempts; attempt++ {
		removed := 0
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.LRange(ctx, key, 0, -1).Result()
			if err != nil {
				return fmt.Errorf("redis lrange failed: %w", err)
			}
			snaps, err := decodeSnapshots(raw)
			if err != nil {
				return err
			}

			kept := make([]interface{}, 0, len(raw))
			for i, snap := range snaps {
				if !snap.RecordedAt.Before(olderThan) {
					kept = append(kept, raw[i])
				}
			}
			if len(kept) == len(raw) {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				if len(kept) == 0 {
					pipe.SRem(ctx, s.subjectsKey(), subject)
					return nil
				}
				pipe.RPush(ctx, key, kept...)
				return nil
			})
			if err != nil {
				return err
			}
			removed = len(raw) - len(kept)
			return nil
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("redis prune failed: %w", err)
		}
		return removed, nil
	}
	return 0, fmt.Errorf("redis prune of %q kept conflicting with writers", subject)
}

func (s *RedisHistoryStore) Close() error {
	return s.client.Close()
}

func decodeSnapshots(raw []string) ([]models.Snapshot, error) {
	snaps := make([]models.Snapshot, len(raw))
	for i, item := range raw {
		if err := json.Unmarshal([]byte(item), &snaps[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
	}
	return snaps, nil
}
