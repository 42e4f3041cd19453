package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"movierealm/internal/models"
	"movierealm/internal/services"
)

// AdminView is the back office: the user, movie and review tables plus the
// stats header, each with its own bulk-action selection. Suspending a user
// keeps the row and flips its status; only movies and reviews actually
// leave their tables on delete.
type AdminView struct {
	admin   *services.Admin
	catalog *services.Catalog
	logger  *logrus.Logger

	users   *Collection[models.AdminUser]
	movies  *Collection[models.Movie]
	reviews *Collection[models.Review]

	UserSelection   *Selection
	MovieSelection  *Selection
	ReviewSelection *Selection

	mu    sync.Mutex
	stats *models.AdminStats
}

func NewAdminView(admin *services.Admin, catalog *services.Catalog, logger *logrus.Logger) *AdminView {
	return &AdminView{
		admin:   admin,
		catalog: catalog,
		logger:  logger,
		users: NewCollection(func(u models.AdminUser) int {
			return u.ID
		}),
		movies: NewCollection(func(m models.Movie) int {
			return m.ID
		}),
		reviews: NewCollection(func(r models.Review) int {
			return r.ID
		}),
		UserSelection:   NewSelection(),
		MovieSelection:  NewSelection(),
		ReviewSelection: NewSelection(),
	}
}

// LoadAll pulls stats and all three tables. Any failure surfaces as a
// page-level error; partial loads are not kept.
func (v *AdminView) LoadAll(ctx context.Context) error {
	stats, err := v.admin.Stats(ctx)
	if err != nil {
		return err
	}
	moviePage, err := v.catalog.AdminList(ctx, services.ListQuery{Size: 100})
	if err != nil {
		return err
	}
	userPage, err := v.admin.Users(ctx, "", "", 1, 100)
	if err != nil {
		return err
	}
	reviewPage, err := v.admin.Reviews(ctx, 0, 0, 1, 100)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.stats = stats
	v.mu.Unlock()
	v.movies.Replace(moviePage.Movies)
	v.users.Replace(userPage.Users)
	v.reviews.Replace(reviewPage.Reviews)

	v.UserSelection.Prune(v.users.Has)
	v.MovieSelection.Prune(v.movies.Has)
	v.ReviewSelection.Prune(v.reviews.Has)
	return nil
}

func (v *AdminView) RefreshStats(ctx context.Context) error {
	stats, err := v.admin.Stats(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.stats = stats
	v.mu.Unlock()
	return nil
}

func (v *AdminView) Stats() *models.AdminStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

func (v *AdminView) Users() []models.AdminUser { return v.users.Items() }
func (v *AdminView) Movies() []models.Movie    { return v.movies.Items() }
func (v *AdminView) Reviews() []models.Review  { return v.reviews.Items() }
func (v *AdminView) UserFlagged(id int) bool   { return v.users.Flagged(id) }
func (v *AdminView) MovieFlagged(id int) bool  { return v.movies.Flagged(id) }

func (v *AdminView) CreateUser(ctx context.Context, in models.AdminUserCreate) error {
	if err := v.admin.CreateUser(ctx, in); err != nil {
		return err
	}
	// The server assigns the id, so refetch instead of inventing a row.
	userPage, err := v.admin.Users(ctx, "", "", 1, 100)
	if err != nil {
		return err
	}
	v.users.Replace(userPage.Users)
	v.UserSelection.Prune(v.users.Has)
	return nil
}

func (v *AdminView) SetUserRole(ctx context.Context, userID int, role models.Role) error {
	t, staged := v.users.StageEdit(userID, func(u *models.AdminUser) {
		u.Role = role
	})

	if err := v.admin.SetUserRole(ctx, userID, role); err != nil {
		if staged {
			v.users.Revert(t)
		}
		return err
	}
	if staged {
		v.users.Confirm(t)
	}
	return nil
}

func (v *AdminView) SetUserStatus(ctx context.Context, userID int, status models.UserStatus) error {
	t, staged := v.users.StageEdit(userID, func(u *models.AdminUser) {
		u.Status = status
	})

	if err := v.admin.SetUserStatus(ctx, userID, status); err != nil {
		if staged {
			v.users.Revert(t)
		}
		return err
	}
	if staged {
		v.users.Confirm(t)
	}
	return nil
}

// SuspendUser is what the "delete" button does: the row stays and shows
// suspended, it is never removed from the table.
func (v *AdminView) SuspendUser(ctx context.Context, userID int) error {
	t, staged := v.users.StageEdit(userID, func(u *models.AdminUser) {
		u.Status = models.UserSuspended
	})

	if err := v.admin.SuspendUser(ctx, userID); err != nil {
		if staged {
			v.users.Revert(t)
		}
		return err
	}
	if staged {
		v.users.Confirm(t)
	}
	return nil
}

// SetMovieApproved flips the approval flag optimistically. Unapproved
// movies stay visible here; the server filters them from public views.
func (v *AdminView) SetMovieApproved(ctx context.Context, movieID int, approved bool) error {
	t, staged := v.movies.StageEdit(movieID, func(m *models.Movie) {
		m.Approved = approved
	})

	if err := v.catalog.Update(ctx, movieID, models.MovieUpdate{Approved: &approved}); err != nil {
		if staged {
			v.movies.Revert(t)
		}
		return err
	}
	if staged {
		v.movies.Confirm(t)
	}
	return nil
}

func (v *AdminView) DeleteMovie(ctx context.Context, movieID int) error {
	t, staged := v.movies.StageRemove(movieID)

	if err := v.catalog.Delete(ctx, movieID); err != nil {
		if staged {
			v.movies.Revert(t)
		}
		return err
	}
	if staged {
		v.movies.Confirm(t)
	}
	v.MovieSelection.Remove(movieID)
	return nil
}

func (v *AdminView) DeleteReview(ctx context.Context, reviewID int) error {
	t, staged := v.reviews.StageRemove(reviewID)

	if err := v.admin.DeleteReview(ctx, reviewID); err != nil {
		if staged {
			v.reviews.Revert(t)
		}
		return err
	}
	if staged {
		v.reviews.Confirm(t)
	}
	v.ReviewSelection.Remove(reviewID)
	return nil
}

// BulkSuspendUsers suspends every selected user, one call per user, atomic
// per item. A failed item reverts, stays selected, and carries a visible
// flag; the rest transition and leave the selection.
func (v *AdminView) BulkSuspendUsers(ctx context.Context) BulkResult {
	return ApplyBulk(ctx, v.UserSelection, func(ctx context.Context, userID int) error {
		t, staged := v.users.StageEdit(userID, func(u *models.AdminUser) {
			u.Status = models.UserSuspended
		})

		if err := v.admin.SuspendUser(ctx, userID); err != nil {
			if staged {
				v.users.Flag(t)
			}
			return err
		}
		if staged {
			v.users.Confirm(t)
		}
		return nil
	})
}

// BulkDisapproveMovies clears the approval flag on every selected movie.
func (v *AdminView) BulkDisapproveMovies(ctx context.Context) BulkResult {
	disapproved := false
	return ApplyBulk(ctx, v.MovieSelection, func(ctx context.Context, movieID int) error {
		t, staged := v.movies.StageEdit(movieID, func(m *models.Movie) {
			m.Approved = false
		})

		if err := v.catalog.Update(ctx, movieID, models.MovieUpdate{Approved: &disapproved}); err != nil {
			if staged {
				v.movies.Flag(t)
			}
			return err
		}
		if staged {
			v.movies.Confirm(t)
		}
		return nil
	})
}

// BulkDeleteReviews removes every selected review from moderation.
func (v *AdminView) BulkDeleteReviews(ctx context.Context) BulkResult {
	return ApplyBulk(ctx, v.ReviewSelection, func(ctx context.Context, reviewID int) error {
		t, staged := v.reviews.StageRemove(reviewID)

		if err := v.admin.DeleteReview(ctx, reviewID); err != nil {
			if staged {
				v.reviews.Flag(t)
			}
			return err
		}
		if staged {
			v.reviews.Confirm(t)
		}
		return nil
	})
}
