package dummydb

import (
	"context"
	"sort"

	"github.com/learnifyhq/learnify/core/evaluation"
)

type evaluationRepository struct {
	db *DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *DB) *evaluationRepository {
	return &evaluationRepository{db: db}
}

func (repo *evaluationRepository) CreateEvaluation(ctx context.Context, ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, e := range repo.db.evaluations {
		if e.ClassID == ev.ClassID && e.UserID == ev.UserID {
			return evaluation.Evaluation{}, evaluation.ErrAlreadyReviewed
		}
	}
	ev.ID = repo.db.nextID()
	stored := ev
	repo.db.evaluations[ev.ID] = &stored
	return ev, nil
}

func (repo *evaluationRepository) QueryEvaluationsByClass(ctx context.Context, classID string) ([]evaluation.Evaluation, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	evaluations := make([]evaluation.Evaluation, 0)
	for _, e := range repo.db.evaluations {
		if e.ClassID == classID {
			evaluations = append(evaluations, *e)
		}
	}
	sort.Slice(evaluations, func(i, j int) bool { return idLess(evaluations[i].ID, evaluations[j].ID) })
	return evaluations, nil
}

func (repo *evaluationRepository) SetClassRating(ctx context.Context, classID string, average float64, total int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if class, ok := repo.db.classes[classID]; ok {
		class.AverageRating = &average
		class.TotalReviews = total
	}
	return nil
}

// QueryAllReviews excludes reviews whose class no longer exists, matching the
// store's inner join.
func (repo *evaluationRepository) QueryAllReviews(ctx context.Context) ([]evaluation.ReviewView, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	views := make([]evaluation.ReviewView, 0)
	for _, ev := range repo.db.evaluations {
		class, ok := repo.db.classes[ev.ClassID]
		if !ok {
			continue
		}
		views = append(views, evaluation.ReviewView{
			Evaluation:     *ev,
			ClassName:      class.Title,
			InstructorName: class.InstructorName,
			ClassImage:     class.Image,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].SubmittedAt.After(views[j].SubmittedAt) })
	return views, nil
}
