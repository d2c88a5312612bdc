// Package storage persists per-step cost accounting for LLM invocations.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// StepStore records incremental LLM cost against a step. Costs accumulate:
// each successful invocation adds its estimate to the step's running total.
type StepStore interface {
	// AddIncrementalCost adds costMilliCents to the step identified by the
	// given task, step, and organization IDs.
	AddIncrementalCost(ctx context.Context, taskID, stepID, organizationID string, costMilliCents int64) error
}

// MemoryStepStore keeps cost totals in memory for development and testing.
type MemoryStepStore struct {
	mu    sync.Mutex
	costs map[string]int64
}

// NewMemoryStepStore creates an in-memory step cost store.
func NewMemoryStepStore() *MemoryStepStore {
	return &MemoryStepStore{costs: make(map[string]int64)}
}

// AddIncrementalCost accumulates cost for the step.
func (s *MemoryStepStore) AddIncrementalCost(_ context.Context, taskID, stepID, organizationID string, costMilliCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costs[stepKey(taskID, stepID, organizationID)] += costMilliCents
	return nil
}

// Cost returns the accumulated cost for a step in milli-cents.
func (s *MemoryStepStore) Cost(taskID, stepID, organizationID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.costs[stepKey(taskID, stepID, organizationID)]
}

// Updates reports how many distinct steps have recorded costs.
func (s *MemoryStepStore) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.costs)
}

func stepKey(taskID, stepID, organizationID string) string {
	return fmt.Sprintf("%s/%s/%s", organizationID, taskID, stepID)
}
