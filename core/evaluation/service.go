package evaluation

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrAlreadyReviewed = errors.New("a review already exists for this class and user")
)

type (
	Repository interface {
		// CreateEvaluation inserts against the (class_id, user_id) unique
		// index and returns ErrAlreadyReviewed on a duplicate key.
		CreateEvaluation(ctx context.Context, ev Evaluation) (Evaluation, error)
		QueryEvaluationsByClass(ctx context.Context, classID string) ([]Evaluation, error)
		// SetClassRating writes the recomputed aggregate onto the class.
		SetClassRating(ctx context.Context, classID string, average float64, total int) error
		QueryAllReviews(ctx context.Context) ([]ReviewView, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Evaluate records the user's review, then recomputes the class's average
// rating and review count over a fresh read of the full evaluation set. Each
// recomputation is correct for the snapshot it read; under concurrent reviews
// the last commit wins, which converges on the true set.
func (svc *Service) Evaluate(ctx context.Context, classID, userID string, ne NewEvaluation) (Evaluation, error) {
	ev := Evaluation{
		ClassID:     classID,
		UserID:      userID,
		Name:        ne.Name,
		Photo:       ne.Photo,
		Rating:      ne.Rating,
		Description: ne.Description,
		SubmittedAt: time.Now().UTC(),
	}
	ev, err := svc.repo.CreateEvaluation(ctx, ev)
	if err != nil {
		return Evaluation{}, err
	}

	evaluations, err := svc.repo.QueryEvaluationsByClass(ctx, classID)
	if err != nil {
		return Evaluation{}, err
	}
	var sum float64
	for _, e := range evaluations {
		sum += e.Rating
	}
	average := sum / float64(len(evaluations))
	if err := svc.repo.SetClassRating(ctx, classID, average, len(evaluations)); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// ListAllReviews returns the platform-wide review feed, newest first.
func (svc *Service) ListAllReviews(ctx context.Context) ([]ReviewView, error) {
	return svc.repo.QueryAllReviews(ctx)
}
