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

// Admin wraps the back-office endpoints. Note the delete-user call: the
// server suspends, it does not erase, and callers must treat it that way.
type Admin struct {
	api    *api.Client
	logger *logrus.Logger
}

func NewAdmin(client *api.Client, logger *logrus.Logger) *Admin {
	return &Admin{api: client, logger: logger}
}

func (s *Admin) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := s.api.Get(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Admin) Users(ctx context.Context, role models.Role, search string, page, size int) (*models.AdminUserPage, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", string(role))
	}
	if search != "" {
		q.Set("search", search)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	var list models.AdminUserPage
	if err := s.api.Get(ctx, "/admin/users", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Admin) CreateUser(ctx context.Context, in models.AdminUserCreate) error {
	q := url.Values{
		"username": {in.Username},
		"email":    {in.Email},
		"password": {in.Password},
		"role":     {string(in.Role)},
	}
	return s.api.Do(ctx, api.Request{Method: "POST", Path: "/admin/users", Query: q})
}

func (s *Admin) SetUserRole(ctx context.Context, userID int, role models.Role) error {
	q := url.Values{"role": {string(role)}}
	return s.api.Put(ctx, fmt.Sprintf("/admin/users/%d/role", userID), q, nil, nil)
}

func (s *Admin) SetUserStatus(ctx context.Context, userID int, status models.UserStatus) error {
	q := url.Values{"status": {string(status)}}
	return s.api.Put(ctx, fmt.Sprintf("/admin/users/%d/status", userID), q, nil, nil)
}

// SuspendUser is the "delete user" endpoint; server-side it is a status
// transition to suspended.
func (s *Admin) SuspendUser(ctx context.Context, userID int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/admin/users/%d", userID), nil)
}

func (s *Admin) Reviews(ctx context.Context, movieID, userID, page, size int) (*models.ReviewPage, error) {
	q := url.Values{}
	if movieID > 0 {
		q.Set("movie_id", strconv.Itoa(movieID))
	}
	if userID > 0 {
		q.Set("user_id", strconv.Itoa(userID))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}

	var list models.ReviewPage
	if err := s.api.Get(ctx, "/admin/reviews", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Admin) DeleteReview(ctx context.Context, reviewID int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/admin/reviews/%d", reviewID), nil)
}
