// Package artifacts provides create-only storage for the typed byte-blob
// records an LLM invocation leaves behind for audit and debugging.
package artifacts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calder-ai/llmgate/internal/domain"
)

// Store persists invocation artifacts. Artifacts are created, never mutated;
// a failed write aborts the invocation that attempted it.
type Store interface {
	// Create persists one artifact of the given type for the step.
	Create(ctx context.Context, step domain.Step, artifactType domain.ArtifactType, data []byte) error
}

// InMemoryStore provides in-memory artifact storage for development and
// testing. Production deployments should use the Redis-backed store or
// distributed blob storage.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts []domain.Artifact
}

// NewInMemoryStore creates an in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Create appends a new artifact record.
func (s *InMemoryStore) Create(_ context.Context, step domain.Step, artifactType domain.ArtifactType, data []byte) error {
	if err := step.Validate(); err != nil {
		return err
	}

	artifact := domain.Artifact{
		ID:             uuid.New().String(),
		Type:           artifactType,
		TaskID:         step.TaskID,
		StepID:         step.StepID,
		OrganizationID: step.OrganizationID,
		Data:           append([]byte(nil), data...),
		CreatedAt:      time.Now(),
	}
	if err := artifact.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, artifact)
	return nil
}

// ForStep returns the artifacts recorded for a step, in creation order.
func (s *InMemoryStore) ForStep(step domain.Step) []domain.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Artifact
	for _, a := range s.artifacts {
		if a.TaskID == step.TaskID && a.StepID == step.StepID && a.OrganizationID == step.OrganizationID {
			out = append(out, a)
		}
	}
	return out
}

// Len reports the total number of stored artifacts.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}
