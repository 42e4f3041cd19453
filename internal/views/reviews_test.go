package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"movierealm/internal/models"
	"movierealm/internal/services"
)

type reviewsBackend struct {
	mu      sync.Mutex
	reviews []models.Review
	nextID  int
	reject  bool
}

func (b *reviewsBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.reject {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"detail": "storage unavailable"})
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/reviews/Get_Reviews_by_movie_id/"):
			json.NewEncoder(w).Encode(models.ReviewPage{Total: len(b.reviews), Reviews: b.reviews})

		case r.URL.Path == "/reviews/Write_Reviews":
			var in models.ReviewCreate
			json.NewDecoder(r.Body).Decode(&in)
			b.nextID++
			created := models.Review{ID: b.nextID, MovieID: in.MovieID, Rating: in.Rating, Comment: in.Comment}
			b.reviews = append(b.reviews, created)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(created)

		case strings.HasPrefix(r.URL.Path, "/reviews/Update_Reviews/"),
			strings.HasPrefix(r.URL.Path, "/reviews/Delete_Reviews/"),
			strings.HasPrefix(r.URL.Path, "/reviews/Like_Reviews/"):
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newReviewsView(t *testing.T, backend *reviewsBackend) *ReviewsView {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client, logger := newTestClient(server)
	return NewReviewsView(services.NewReviews(client, logger), logger)
}

func TestReviewCreateUsesServerID(t *testing.T) {
	backend := &reviewsBackend{nextID: 100}
	view := newReviewsView(t, backend)

	created, err := view.Create(context.Background(), models.ReviewCreate{MovieID: 1, Rating: 8, Comment: "tight"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 101 {
		t.Errorf("created.ID = %d, want the server's 101", created.ID)
	}
	if !view.reviews.Has(101) {
		t.Error("server copy should land in the view")
	}
}

func TestReviewCreateFailureLeavesViewEmpty(t *testing.T) {
	backend := &reviewsBackend{reject: true}
	view := newReviewsView(t, backend)

	if _, err := view.Create(context.Background(), models.ReviewCreate{MovieID: 1, Rating: 8}); err == nil {
		t.Fatal("expected Create to fail")
	}
	if len(view.Reviews()) != 0 {
		t.Error("a rejected create must not show a phantom review")
	}
}

func TestReviewLikeOptimisticAndRevert(t *testing.T) {
	backend := &reviewsBackend{reviews: []models.Review{{ID: 1, MovieID: 3, Rating: 9, LikeCount: 4}}}
	view := newReviewsView(t, backend)
	ctx := context.Background()

	if err := view.LoadByMovie(ctx, 3); err != nil {
		t.Fatalf("LoadByMovie: %v", err)
	}

	if err := view.Like(ctx, 1); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if got, _ := view.reviews.Get(1); got.LikeCount != 5 {
		t.Errorf("LikeCount = %d, want 5", got.LikeCount)
	}

	backend.mu.Lock()
	backend.reject = true
	backend.mu.Unlock()

	if err := view.Like(ctx, 1); err == nil {
		t.Fatal("expected Like to fail")
	}
	if got, _ := view.reviews.Get(1); got.LikeCount != 5 {
		t.Errorf("failed like should revert the bump, LikeCount = %d, want 5", got.LikeCount)
	}
}

func TestReviewDeleteRevertsOnFailure(t *testing.T) {
	backend := &reviewsBackend{reviews: []models.Review{{ID: 2, MovieID: 3, Rating: 6}}}
	view := newReviewsView(t, backend)
	ctx := context.Background()

	if err := view.LoadByMovie(ctx, 3); err != nil {
		t.Fatalf("LoadByMovie: %v", err)
	}

	backend.mu.Lock()
	backend.reject = true
	backend.mu.Unlock()

	if err := view.Delete(ctx, 2); err == nil {
		t.Fatal("expected Delete to fail")
	}
	if !view.reviews.Has(2) {
		t.Error("rejected delete should put the review back")
	}
}
