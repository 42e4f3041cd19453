package views

import (
	"context"

	"github.com/sirupsen/logrus"

	"movierealm/internal/models"
	"movierealm/internal/services"
)

// ReviewsView mirrors one review listing at a time: either a movie's
// reviews or the caller's own.
type ReviewsView struct {
	svc    *services.Reviews
	logger *logrus.Logger

	reviews *Collection[models.Review]
}

func NewReviewsView(svc *services.Reviews, logger *logrus.Logger) *ReviewsView {
	return &ReviewsView{
		svc:    svc,
		logger: logger,
		reviews: NewCollection(func(r models.Review) int {
			return r.ID
		}),
	}
}

func (v *ReviewsView) LoadByMovie(ctx context.Context, movieID int) error {
	page, err := v.svc.ByMovie(ctx, movieID, 1, 50)
	if err != nil {
		return err
	}
	v.reviews.Replace(page.Reviews)
	return nil
}

func (v *ReviewsView) LoadMine(ctx context.Context) error {
	page, err := v.svc.Mine(ctx, 1, 50)
	if err != nil {
		return err
	}
	v.reviews.Replace(page.Reviews)
	return nil
}

func (v *ReviewsView) Reviews() []models.Review {
	return v.reviews.Items()
}

// Create is not optimistic: the server owns review ids, so the entry only
// appears once the server's copy comes back.
func (v *ReviewsView) Create(ctx context.Context, in models.ReviewCreate) (*models.Review, error) {
	created, err := v.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	t := v.reviews.StageUpsert(*created)
	v.reviews.Confirm(t)
	return created, nil
}

// Edit applies an author's rating/comment change optimistically.
func (v *ReviewsView) Edit(ctx context.Context, reviewID int, upd models.ReviewUpdate) error {
	t, staged := v.reviews.StageEdit(reviewID, func(r *models.Review) {
		r.Rating = upd.Rating
		r.Comment = upd.Comment
	})

	if err := v.svc.Update(ctx, reviewID, upd); err != nil {
		if staged {
			v.reviews.Revert(t)
		}
		return err
	}
	if staged {
		v.reviews.Confirm(t)
	}
	return nil
}

func (v *ReviewsView) Delete(ctx context.Context, reviewID int) error {
	t, staged := v.reviews.StageRemove(reviewID)

	if err := v.svc.Delete(ctx, reviewID); err != nil {
		if staged {
			v.reviews.Revert(t)
		}
		return err
	}
	if staged {
		v.reviews.Confirm(t)
	}
	return nil
}

// Like bumps the like count optimistically and reverts if the server
// rejects it.
func (v *ReviewsView) Like(ctx context.Context, reviewID int) error {
	t, staged := v.reviews.StageEdit(reviewID, func(r *models.Review) {
		r.LikeCount++
	})

	if err := v.svc.Like(ctx, reviewID); err != nil {
		if staged {
			v.reviews.Revert(t)
		}
		return err
	}
	if staged {
		v.reviews.Confirm(t)
	}
	return nil
}
