package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"movierealm/internal/api"
	"movierealm/internal/models"
)

const (
	listCachePrefix   = "catalog:list:"
	detailCachePrefix = "catalog:movie:"
	listCacheTTL      = 5 * time.Minute
	detailCacheTTL    = 30 * time.Minute
)

// ListQuery selects a slice of the catalog.
type ListQuery struct {
	Title    string
	Genre    string
	Language string
	Year     int
	Approved *bool // admin listing only
	Sort     string
	Order    string
	Page     int
	Size     int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Title != "" {
		v.Set("title", q.Title)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Year > 0 {
		v.Set("release_year", strconv.Itoa(q.Year))
	}
	if q.Approved != nil {
		v.Set("approved", strconv.FormatBool(*q.Approved))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// Catalog wraps the movie endpoints. Public reads go through a redis
// read-through cache when a client is configured; admin reads and all
// writes bypass it, and writes invalidate it.
type Catalog struct {
	api    *api.Client
	redis  *redis.Client
	logger *logrus.Logger
}

func NewCatalog(client *api.Client, redisClient *redis.Client, logger *logrus.Logger) *Catalog {
	return &Catalog{api: client, redis: redisClient, logger: logger}
}

// List returns the public (approved-only) catalog slice for the query.
func (s *Catalog) List(ctx context.Context, q ListQuery) (*models.MovieList, error) {
	cacheKey := listCachePrefix + q.values().Encode()
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var list models.MovieList
		if err := json.Unmarshal(cached, &list); err == nil {
			s.logger.WithField("key", cacheKey).Debug("Catalog list served from cache")
			return &list, nil
		}
	}

	var list models.MovieList
	if err := s.api.Get(ctx, "/movies/list", q.values(), &list); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKey, list, listCacheTTL)
	return &list, nil
}

func (s *Catalog) Detail(ctx context.Context, movieID int) (*models.Movie, error) {
	cacheKey := detailCachePrefix + strconv.Itoa(movieID)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var movie models.Movie
		if err := json.Unmarshal(cached, &movie); err == nil {
			return &movie, nil
		}
	}

	var movie models.Movie
	if err := s.api.Get(ctx, fmt.Sprintf("/movies/movies/%d", movieID), nil, &movie); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKey, movie, detailCacheTTL)
	return &movie, nil
}

// AdminList includes unapproved movies; never cached so moderation always
// sees server truth.
func (s *Catalog) AdminList(ctx context.Context, q ListQuery) (*models.MovieList, error) {
	var list models.MovieList
	if err := s.api.Get(ctx, "/movies/admin/movies", q.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Catalog) Add(ctx context.Context, in models.MovieIn) (int, error) {
	var res struct {
		MovieID int `json:"movie_id"`
	}
	if err := s.api.Post(ctx, "/movies/admin/add_movie", in, &res); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return res.MovieID, nil
}

func (s *Catalog) Update(ctx context.Context, movieID int, upd models.MovieUpdate) error {
	err := s.api.Put(ctx, fmt.Sprintf("/movies/admin/update_movie/%d", movieID), nil, upd, nil)
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Catalog) Delete(ctx context.Context, movieID int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/movies/admin/delete_movie/%d", movieID), nil); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Catalog) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.redis == nil {
		return nil, false
	}
	cached, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Failed to read from cache")
		}
		return nil, false
	}
	return cached, true
}

func (s *Catalog) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to marshal value for caching")
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to write to cache")
	}
}

// invalidate drops every cached catalog read after an admin write, so the
// public views pick up approval flips on their next load.
func (s *Catalog) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	for _, pattern := range []string{listCachePrefix + "*", detailCachePrefix + "*"} {
		keys, err := s.redis.Keys(ctx, pattern).Result()
		if err != nil {
			continue
		}
		if len(keys) > 0 {
			s.redis.Del(ctx, keys...)
		}
	}
}
