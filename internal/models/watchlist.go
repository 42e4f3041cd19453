package models

import "time"

type WatchStatus string

const (
	StatusToWatch  WatchStatus = "To Watch"
	StatusWatching WatchStatus = "Watching"
	StatusWatched  WatchStatus = "Watched"
)

// ValidWatchStatus reports whether s is one of the three server-known
// watchlist statuses.
func ValidWatchStatus(s WatchStatus) bool {
	switch s {
	case StatusToWatch, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// WatchEntry is one row of the user's watchlist, unique per movie.
type WatchEntry struct {
	MovieID   int         `json:"movie_id"`
	Title     string      `json:"title"`
	PosterURL string      `json:"poster_url"`
	Status    WatchStatus `json:"status"`
	AddedAt   time.Time   `json:"added_at"`
}

type WatchlistPage struct {
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
	Items []WatchEntry `json:"items"`
}

type WatchlistSummary struct {
	ToWatch  int `json:"to_watch"`
	Watching int `json:"watching"`
	Watched  int `json:"watched"`
}

func (s WatchlistSummary) Total() int {
	return s.ToWatch + s.Watching + s.Watched
}

type WatchlistAdd struct {
	MovieIDs []int       `json:"movie_ids"`
	Status   WatchStatus `json:"status"`
}

type WatchlistCheck struct {
	InWatchlist bool        `json:"in_watchlist"`
	Status      WatchStatus `json:"status,omitempty"`
}
