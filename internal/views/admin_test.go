package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"movierealm/internal/models"
	"movierealm/internal/services"
)

// adminBackend serves the back-office endpoints. failUsers lists user ids
// whose suspend call is rejected.
type adminBackend struct {
	mu        sync.Mutex
	users     []models.AdminUser
	movies    []models.Movie
	reviews   []models.Review
	failUsers map[int]bool
}

func (b *adminBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.URL.Path == "/admin/stats":
			var stats models.AdminStats
			stats.Users.Total = len(b.users)
			stats.Movies.Total = len(b.movies)
			json.NewEncoder(w).Encode(stats)

		case r.URL.Path == "/admin/users" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(models.AdminUserPage{Total: len(b.users), Users: b.users})

		case r.URL.Path == "/movies/admin/movies":
			json.NewEncoder(w).Encode(models.MovieList{Total: len(b.movies), Movies: b.movies})

		case r.URL.Path == "/admin/reviews" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(models.ReviewPage{Total: len(b.reviews), Reviews: b.reviews})

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/users/"):
			id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/admin/users/"))
			if b.failUsers[id] {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"detail": "user has active sessions"})
				return
			}
			for i := range b.users {
				if b.users[i].ID == id {
					b.users[i].Status = models.UserSuspended
				}
			}

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/reviews/"):
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/movies/admin/update_movie/"):
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newAdminView(t *testing.T, backend *adminBackend) *AdminView {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client, logger := newTestClient(server)
	return NewAdminView(services.NewAdmin(client, logger), services.NewCatalog(client, nil, logger), logger)
}

func activeUser(id int, name string) models.AdminUser {
	return models.AdminUser{ID: id, Username: name, Role: models.RoleUser, Status: models.UserActive}
}

func TestBulkSuspendPartialFailure(t *testing.T) {
	backend := &adminBackend{
		users:     []models.AdminUser{activeUser(1, "ana"), activeUser(2, "ben"), activeUser(3, "cy")},
		failUsers: map[int]bool{2: true},
	}
	view := newAdminView(t, backend)
	ctx := context.Background()

	if err := view.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	for _, id := range []int{1, 2, 3} {
		view.UserSelection.Add(id)
	}

	result := view.BulkSuspendUsers(ctx)
	if len(result.Succeeded) != 2 {
		t.Errorf("Succeeded = %v, want two of three", result.Succeeded)
	}
	if _, failed := result.Failed[2]; !failed {
		t.Error("user 2 should be in Failed")
	}

	for _, u := range view.Users() {
		want := models.UserSuspended
		if u.ID == 2 {
			want = models.UserActive
		}
		if u.Status != want {
			t.Errorf("user %d status = %s, want %s", u.ID, u.Status, want)
		}
	}

	// The failed row stays selected and carries a visible marker; the rest
	// left the selection.
	if !view.UserSelection.Has(2) {
		t.Error("failed user should stay selected for retry")
	}
	if view.UserSelection.Len() != 1 {
		t.Errorf("selection size = %d, want 1", view.UserSelection.Len())
	}
	if !view.UserFlagged(2) {
		t.Error("failed user should be flagged")
	}
	if view.UserFlagged(1) || view.UserFlagged(3) {
		t.Error("succeeded users must not be flagged")
	}
}

func TestSuspendUserKeepsRow(t *testing.T) {
	backend := &adminBackend{users: []models.AdminUser{activeUser(4, "dee")}}
	view := newAdminView(t, backend)
	ctx := context.Background()

	if err := view.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if err := view.SuspendUser(ctx, 4); err != nil {
		t.Fatalf("SuspendUser: %v", err)
	}

	users := view.Users()
	if len(users) != 1 {
		t.Fatalf("suspend must not drop the row, users = %v", users)
	}
	if users[0].Status != models.UserSuspended {
		t.Errorf("status = %s, want suspended", users[0].Status)
	}
}

func TestSuspendUserRevertsOnFailure(t *testing.T) {
	backend := &adminBackend{
		users:     []models.AdminUser{activeUser(5, "edo")},
		failUsers: map[int]bool{5: true},
	}
	view := newAdminView(t, backend)
	ctx := context.Background()

	if err := view.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if err := view.SuspendUser(ctx, 5); err == nil {
		t.Fatal("expected SuspendUser to fail")
	}

	if got := view.Users()[0].Status; got != models.UserActive {
		t.Errorf("status = %s, want active after revert", got)
	}
	if view.UserFlagged(5) {
		t.Error("single-item failure reverts without a flag")
	}
}

func TestLoadAllPrunesSelections(t *testing.T) {
	backend := &adminBackend{users: []models.AdminUser{activeUser(1, "ana")}}
	view := newAdminView(t, backend)
	ctx := context.Background()

	view.UserSelection.Add(1)
	view.UserSelection.Add(99)

	if err := view.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if view.UserSelection.Has(99) {
		t.Error("selection must not keep keys the table no longer holds")
	}
	if !view.UserSelection.Has(1) {
		t.Error("present keys stay selected across a reload")
	}
}

func TestBulkDisapproveMovies(t *testing.T) {
	backend := &adminBackend{movies: []models.Movie{
		{ID: 10, Title: "A", Approved: true},
		{ID: 11, Title: "B", Approved: true},
	}}
	view := newAdminView(t, backend)
	ctx := context.Background()

	if err := view.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	view.MovieSelection.Add(10)
	view.MovieSelection.Add(11)

	result := view.BulkDisapproveMovies(ctx)
	if !result.AllOK() {
		t.Fatalf("unexpected failures: %v", result.Failed)
	}
	for _, m := range view.Movies() {
		if m.Approved {
			t.Errorf("movie %d still approved", m.ID)
		}
	}
	if view.MovieSelection.Len() != 0 {
		t.Error("selection should drain after a clean bulk")
	}
}
