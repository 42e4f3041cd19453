package views

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"movierealm/internal/models"
	"movierealm/internal/services"
)

const defaultProbeWorkers = 5

// WatchlistView mirrors the caller's watchlist. Membership ("is movie X on
// my list?") is derived from the loaded snapshot instead of one check call
// per visible movie; ProbeMany remains for movies outside the snapshot.
type WatchlistView struct {
	svc    *services.Watchlist
	logger *logrus.Logger

	entries      *Collection[models.WatchEntry]
	probeWorkers int

	mu         sync.Mutex
	membership map[int]models.WatchStatus
}

func NewWatchlistView(svc *services.Watchlist, logger *logrus.Logger, probeWorkers int) *WatchlistView {
	if probeWorkers <= 0 {
		probeWorkers = defaultProbeWorkers
	}
	return &WatchlistView{
		svc:    svc,
		logger: logger,
		entries: NewCollection(func(e models.WatchEntry) int {
			return e.MovieID
		}),
		probeWorkers: probeWorkers,
		membership:   make(map[int]models.WatchStatus),
	}
}

// Load fetches a full snapshot, optionally filtered by status, and replaces
// the local collection wholesale. An unfiltered load also rebuilds the
// membership map from scratch; a filtered one only merges what it saw.
func (v *WatchlistView) Load(ctx context.Context, status models.WatchStatus) error {
	page, err := v.svc.List(ctx, status, 1, 100)
	if err != nil {
		return err
	}
	v.entries.Replace(page.Items)

	v.mu.Lock()
	if status == "" {
		v.membership = make(map[int]models.WatchStatus, len(page.Items))
	}
	for _, e := range page.Items {
		v.membership[e.MovieID] = e.Status
	}
	v.mu.Unlock()
	return nil
}

func (v *WatchlistView) Entries() []models.WatchEntry {
	return v.entries.Items()
}

func (v *WatchlistView) Summary(ctx context.Context) (*models.WatchlistSummary, error) {
	return v.svc.Summary(ctx)
}

// Contains answers membership from local state.
func (v *WatchlistView) Contains(movieID int) (models.WatchStatus, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	status, ok := v.membership[movieID]
	return status, ok
}

// Add puts a movie on the list optimistically; a rejected request reverts
// both the entry and the membership map.
func (v *WatchlistView) Add(ctx context.Context, movie models.Movie, status models.WatchStatus) error {
	entry := models.WatchEntry{
		MovieID:   movie.ID,
		Title:     movie.Title,
		PosterURL: movie.PosterURL,
		Status:    status,
		AddedAt:   time.Now(),
	}
	t := v.entries.StageUpsert(entry)
	prev, had := v.swapMembership(movie.ID, status, true)

	if err := v.svc.Add(ctx, []int{movie.ID}, status); err != nil {
		v.entries.Revert(t)
		v.swapMembership(movie.ID, prev, had)
		return err
	}
	v.entries.Confirm(t)
	return nil
}

// SetStatus transitions an entry's status optimistically.
func (v *WatchlistView) SetStatus(ctx context.Context, movieID int, status models.WatchStatus) error {
	t, staged := v.entries.StageEdit(movieID, func(e *models.WatchEntry) {
		e.Status = status
	})
	prev, had := v.swapMembership(movieID, status, true)

	if err := v.svc.UpdateStatus(ctx, movieID, status); err != nil {
		if staged {
			v.entries.Revert(t)
		}
		v.swapMembership(movieID, prev, had)
		return err
	}
	if staged {
		v.entries.Confirm(t)
	}
	return nil
}

// Remove takes a movie off the list optimistically.
func (v *WatchlistView) Remove(ctx context.Context, movieID int) error {
	t, staged := v.entries.StageRemove(movieID)
	prev, had := v.swapMembership(movieID, "", false)

	if err := v.svc.Remove(ctx, movieID); err != nil {
		if staged {
			v.entries.Revert(t)
		}
		v.swapMembership(movieID, prev, had)
		return err
	}
	if staged {
		v.entries.Confirm(t)
	}
	return nil
}

// ProbeMany checks membership for movies not covered by the loaded
// snapshot. Probes fire as a bounded concurrent burst; each result lands in
// its own slot, and a failed probe degrades to "absent" instead of failing
// the whole set.
func (v *WatchlistView) ProbeMany(ctx context.Context, movieIDs []int) map[int]models.WatchStatus {
	type probeResult struct {
		status models.WatchStatus
		member bool
	}
	results := make([]probeResult, len(movieIDs))

	sem := make(chan struct{}, v.probeWorkers)
	var wg sync.WaitGroup
	for i, movieID := range movieIDs {
		wg.Add(1)
		go func(slot, movieID int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			check, err := v.svc.Check(ctx, movieID)
			if err != nil {
				v.logger.WithError(err).WithField("movie_id", movieID).
					Debug("Membership probe failed, treating as absent")
				return
			}
			results[slot] = probeResult{status: check.Status, member: check.InWatchlist}
		}(i, movieID)
	}
	wg.Wait()

	found := make(map[int]models.WatchStatus)
	v.mu.Lock()
	for i, movieID := range movieIDs {
		if results[i].member {
			found[movieID] = results[i].status
			v.membership[movieID] = results[i].status
		}
	}
	v.mu.Unlock()
	return found
}

func (v *WatchlistView) swapMembership(movieID int, status models.WatchStatus, member bool) (models.WatchStatus, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev, had := v.membership[movieID]
	if member {
		v.membership[movieID] = status
	} else {
		delete(v.membership, movieID)
	}
	return prev, had
}
