package dummydb

import (
	"context"
	"sort"

	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, e := range repo.db.enrollments {
		if e.ClassID == enr.ClassID && e.UserID == enr.UserID {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
	}
	enr.ID = repo.db.nextID()
	stored := enr
	repo.db.enrollments[enr.ID] = &stored
	return enr, nil
}

func (repo *enrollmentRepository) IncrementClassEnrollment(ctx context.Context, classID string, delta int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if class, ok := repo.db.classes[classID]; ok {
		class.TotalEnrollment += delta
	}
	return nil
}

func (repo *enrollmentRepository) GetEnrollmentsByUser(ctx context.Context, userID string) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrollments := make([]enrollment.Enrollment, 0)
	for _, e := range repo.db.enrollments {
		if e.UserID == userID {
			enrollments = append(enrollments, *e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool { return idLess(enrollments[i].ID, enrollments[j].ID) })
	return enrollments, nil
}

func (repo *enrollmentRepository) GetClassOfferingsByIDs(ctx context.Context, ids []string) ([]catalog.ClassOffering, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]catalog.ClassOffering, 0, len(ids))
	for _, id := range ids {
		if class, ok := repo.db.classes[id]; ok {
			classes = append(classes, *class)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return idLess(classes[i].ID, classes[j].ID) })
	return classes, nil
}

func (repo *enrollmentRepository) UpdateEnrollmentProgress(ctx context.Context, classID, userID string, progress float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, e := range repo.db.enrollments {
		if e.ClassID == classID && e.UserID == userID {
			e.Progress = progress
			return nil
		}
	}
	return enrollment.ErrNotFound
}

func (repo *enrollmentRepository) ClassOfferingExists(ctx context.Context, classID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.classes[classID]
	return ok, nil
}

func (repo *enrollmentRepository) CreatePayment(ctx context.Context, payment enrollment.Payment) (enrollment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	payment.ID = repo.db.nextID()
	stored := payment
	repo.db.payments[payment.ID] = &stored
	return payment, nil
}
