package notifications

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
	"github.com/vladimiradmaev/mammafy-helper/internal/utils"
)

// Registry holds pending notification requests until they are due.
// It implements domain.Notifier: Schedule upserts by id and Cancel removes by id.
type Registry struct {
	pending map[string]domain.NotificationRequest
	now     utils.Clock
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry(clock utils.Clock, logger *slog.Logger) *Registry {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		pending: make(map[string]domain.NotificationRequest),
		now:     clock,
		logger:  logger,
	}
}

// Schedule stores req, replacing any request with the same id.
// Requests whose fire time has already passed are dropped silently.
func (r *Registry) Schedule(ctx context.Context, req domain.NotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.FireDate.Before(r.now()) {
		delete(r.pending, req.ID)
		r.logger.DebugContext(ctx, "Dropping past-due notification", "id", req.ID, "fire_date", req.FireDate)
		return nil
	}
	r.pending[req.ID] = req
	return nil
}

// Cancel removes the request with id. Unknown ids are ignored.
func (r *Registry) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	return nil
}

// Pending returns every waiting request ordered by fire time, then id.
func (r *Registry) Pending() []domain.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.NotificationRequest, 0, len(r.pending))
	for _, req := range r.pending {
		out = append(out, req)
	}
	sortRequests(out)
	return out
}

// Lookup returns the pending request with id.
func (r *Registry) Lookup(id string) (domain.NotificationRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.pending[id]
	return req, ok
}

// TakeDue removes and returns every request firing at or before now.
func (r *Registry) TakeDue(now time.Time) []domain.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []domain.NotificationRequest
	for id, req := range r.pending {
		if !req.FireDate.After(now) {
			due = append(due, req)
			delete(r.pending, id)
		}
	}
	sortRequests(due)
	return due
}

func sortRequests(reqs []domain.NotificationRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if !reqs[i].FireDate.Equal(reqs[j].FireDate) {
			return reqs[i].FireDate.Before(reqs[j].FireDate)
		}
		return reqs[i].ID < reqs[j].ID
	})
}
