package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/calder-ai/llmgate/internal/domain"
)

// Key layout for artifact records. The sequence counter keeps creation
// order recoverable without relying on clock resolution.
const (
	artifactKeyPrefix = "artifacts"
	stepIndexSuffix   = "index"
)

// RedisStore persists artifacts in Redis. Each artifact is written once
// under a unique key and indexed per step in a list that preserves creation
// order.
type RedisStore struct {
	client *redis.Client
}

// RedisOptions configures the Redis-backed artifact store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRedisStore creates a Redis-backed artifact store and verifies the
// connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis artifact store unavailable: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client. Useful for tests
// and for sharing a connection pool with other components.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create persists one artifact and appends its key to the step's index.
func (s *RedisStore) Create(ctx context.Context, step domain.Step, artifactType domain.ArtifactType, data []byte) error {
	if err := step.Validate(); err != nil {
		return err
	}

	artifact := domain.Artifact{
		ID:             uuid.New().String(),
		Type:           artifactType,
		TaskID:         step.TaskID,
		StepID:         step.StepID,
		OrganizationID: step.OrganizationID,
		Data:           data,
		CreatedAt:      time.Now().UTC(),
	}
	if err := artifact.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	key := s.artifactKey(step, artifact.ID)

	// Write the record, then index it. Both must land for the artifact to
	// be listable; a failure between them leaves an unindexed record, which
	// is acceptable for an append-only audit trail.
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := s.client.RPush(ctx, s.indexKey(step), key).Err(); err != nil {
		return fmt.Errorf("failed to index artifact: %w", err)
	}
	return nil
}

// ForStep returns the artifacts recorded for a step, in creation order.
func (s *RedisStore) ForStep(ctx context.Context, step domain.Step) ([]domain.Artifact, error) {
	keys, err := s.client.LRange(ctx, s.indexKey(step), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifacts: %w", err)
	}

	out := make([]domain.Artifact, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var a domain.Artifact
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("corrupt artifact record: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) artifactKey(step domain.Step, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", artifactKeyPrefix, step.OrganizationID, step.TaskID, step.StepID, id)
}

func (s *RedisStore) indexKey(step domain.Step) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", artifactKeyPrefix, step.OrganizationID, step.TaskID, step.StepID, stepIndexSuffix)
}
