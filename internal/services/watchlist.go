package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"movierealm/internal/api"
	"movierealm/internal/models"
)

type Watchlist struct {
	api    *api.Client
	logger *logrus.Logger
}

func NewWatchlist(client *api.Client, logger *logrus.Logger) *Watchlist {
	return &Watchlist{api: client, logger: logger}
}

// List fetches the caller's watchlist, optionally filtered by status.
func (s *Watchlist) List(ctx context.Context, status models.WatchStatus, page, size int) (*models.WatchlistPage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	var list models.WatchlistPage
	if err := s.api.Get(ctx, "/watchlist/watchlist", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Watchlist) Summary(ctx context.Context) (*models.WatchlistSummary, error) {
	var summary models.WatchlistSummary
	if err := s.api.Get(ctx, "/watchlist/watchlist/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Watchlist) Add(ctx context.Context, movieIDs []int, status models.WatchStatus) error {
	if !models.ValidWatchStatus(status) {
		return fmt.Errorf("invalid watchlist status: %q", status)
	}
	body := models.WatchlistAdd{MovieIDs: movieIDs, Status: status}
	return s.api.Post(ctx, "/watchlist/watchlist", body, nil)
}

func (s *Watchlist) UpdateStatus(ctx context.Context, movieID int, status models.WatchStatus) error {
	if !models.ValidWatchStatus(status) {
		return fmt.Errorf("invalid watchlist status: %q", status)
	}
	q := url.Values{"status": {string(status)}}
	return s.api.Put(ctx, fmt.Sprintf("/watchlist/watchlist/%d", movieID), q, nil, nil)
}

func (s *Watchlist) Remove(ctx context.Context, movieID int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/watchlist/watchlist/%d", movieID), nil)
}

// Check probes membership of a single movie.
func (s *Watchlist) Check(ctx context.Context, movieID int) (*models.WatchlistCheck, error) {
	var check models.WatchlistCheck
	if err := s.api.Get(ctx, fmt.Sprintf("/watchlist/watchlist/%d/check", movieID), nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
