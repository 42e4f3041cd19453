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

type Reviews struct {
	api    *api.Client
	logger *logrus.Logger
}

func NewReviews(client *api.Client, logger *logrus.Logger) *Reviews {
	return &Reviews{api: client, logger: logger}
}

func (s *Reviews) ByMovie(ctx context.Context, movieID, page, size int) (*models.ReviewPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	var list models.ReviewPage
	if err := s.api.Get(ctx, fmt.Sprintf("/reviews/Get_Reviews_by_movie_id/%d", movieID), q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Mine lists the caller's own reviews with movie info joined in.
func (s *Reviews) Mine(ctx context.Context, page, size int) (*models.ReviewPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	var list models.ReviewPage
	if err := s.api.Get(ctx, "/reviews/my_reviews", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create posts a review and returns the server's copy; the server owns the
// id.
func (s *Reviews) Create(ctx context.Context, in models.ReviewCreate) (*models.Review, error) {
	var created models.Review
	if err := s.api.Post(ctx, "/reviews/Write_Reviews", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Reviews) Update(ctx context.Context, reviewID int, upd models.ReviewUpdate) error {
	return s.api.Put(ctx, fmt.Sprintf("/reviews/Update_Reviews/%d", reviewID), nil, upd, nil)
}

func (s *Reviews) Delete(ctx context.Context, reviewID int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/reviews/Delete_Reviews/%d", reviewID), nil)
}

func (s *Reviews) Like(ctx context.Context, reviewID int) error {
	return s.api.Post(ctx, fmt.Sprintf("/reviews/Like_Reviews/%d/like", reviewID), nil, nil)
}
