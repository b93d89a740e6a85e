package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/jobscheduler"
)

// JobDispatchRepository folds dispatch events into one ledger entry per id.
type JobDispatchRepository struct {
	mu         sync.RWMutex
	dispatches map[string]jobscheduler.Dispatch
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{dispatches: make(map[string]jobscheduler.Dispatch)}
}

func (r *JobDispatchRepository) Record(_ context.Context, event jobscheduler.DispatchEvent) error {
	event, err := event.Normalize(time.Now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches[event.DispatchID] = r.dispatches[event.DispatchID].Apply(event)
	return nil
}

func (r *JobDispatchRepository) Get(dispatchID string) (jobscheduler.Dispatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dispatches[dispatchID]
	return d, ok
}
