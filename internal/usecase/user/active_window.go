package user

import (
	"sync"
	"time"
)

// ActiveWindow is a bounded time-windowed set of user ids: insert stamps
// the id with now, Count reports how many ids were seen within the window.
// Stale entries are pruned on writes, so the count is approximate between
// inserts — acceptable, it only feeds a KPI gauge.
type ActiveWindow struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	maxAge time.Duration

	now func() time.Time
}

func NewActiveWindow(maxAge time.Duration) *ActiveWindow {
	return &ActiveWindow{
		seen:   make(map[string]time.Time),
		maxAge: maxAge,
		now:    time.Now,
	}
}

func (w *ActiveWindow) Insert(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.seen[id] = now
	w.prune(now)
}

func (w *ActiveWindow) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-w.maxAge)

	count := 0
	for _, seenAt := range w.seen {
		if seenAt.After(cutoff) {
			count++
		}
	}

	return count
}

func (w *ActiveWindow) prune(now time.Time) {
	cutoff := now.Add(-w.maxAge)

	for id, seenAt := range w.seen {
		if !seenAt.After(cutoff) {
			delete(w.seen, id)
		}
	}
}
