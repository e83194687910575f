package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/catalog"
)

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrClassNotFound   = errors.New("class not found")
	ErrAlreadyEnrolled = errors.New("user already enrolled in this class")
)

type (
	Repository interface {
		// CreateEnrollment inserts against the (class_id, user_id) unique
		// index and returns ErrAlreadyEnrolled on a duplicate key.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		// IncrementClassEnrollment atomically adjusts the class counter.
		IncrementClassEnrollment(ctx context.Context, classID string, delta int) error
		GetEnrollmentsByUser(ctx context.Context, userID string) ([]Enrollment, error)
		GetClassOfferingsByIDs(ctx context.Context, ids []string) ([]catalog.ClassOffering, error)
		UpdateEnrollmentProgress(ctx context.Context, classID, userID string, progress float64) error
		ClassOfferingExists(ctx context.Context, classID string) (bool, error)
		CreatePayment(ctx context.Context, payment Payment) (Payment, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Enroll registers the user in the class. The enrollment insert commits
// first; the counter increment follows, so the stored count can only lag a
// crash, never lead it, and a duplicate never bumps the counter.
func (svc *Service) Enroll(ctx context.Context, classID, userID string) (Enrollment, error) {
	enr := Enrollment{
		ClassID:    classID,
		UserID:     userID,
		EnrolledAt: time.Now().UTC(),
		Progress:   0,
		Completed:  false,
	}
	enr, err := svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, err
	}
	if err := svc.repo.IncrementClassEnrollment(ctx, classID, 1); err != nil {
		// enrollment stands; the counter is reconciled out-of-band
		svc.logger.Error(
			fmt.Sprintf("incrementing enrollment count for class %s: %v", classID, err),
			pkgerrors.Wrap(err, "incrementing enrollment count"),
		)
	}
	return enr, nil
}

// ListEnrolledCourses merges each of the user's enrollments with its class
// offering. Enrollments whose class no longer exists are dropped silently.
func (svc *Service) ListEnrolledCourses(ctx context.Context, userID string) ([]EnrolledCourse, error) {
	enrollments, err := svc.repo.GetEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return []EnrolledCourse{}, nil
	}

	ids := make([]string, 0, len(enrollments))
	byClass := make(map[string]Enrollment, len(enrollments))
	for _, enr := range enrollments {
		ids = append(ids, enr.ClassID)
		byClass[enr.ClassID] = enr
	}

	classes, err := svc.repo.GetClassOfferingsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	courses := make([]EnrolledCourse, 0, len(classes))
	for _, class := range classes {
		enr, ok := byClass[class.ID]
		if !ok {
			continue
		}
		courses = append(courses, EnrolledCourse{
			ClassOffering: class,
			Progress:      enr.Progress,
			EnrolledAt:    enr.EnrolledAt,
		})
	}
	return courses, nil
}

// UpdateProgress sets the user's progress in the class. The value is stored
// as given; clamping to [0,100] is the caller's concern.
func (svc *Service) UpdateProgress(ctx context.Context, classID, userID string, progress float64) error {
	return svc.repo.UpdateEnrollmentProgress(ctx, classID, userID, progress)
}

// RecordPayment validates that the class exists and appends a completed
// payment fact. Returns a synthetic transaction id.
func (svc *Service) RecordPayment(ctx context.Context, np NewPayment, userID string) (string, error) {
	exists, err := svc.repo.ClassOfferingExists(ctx, np.ClassID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrClassNotFound
	}

	payment := Payment{
		ClassID:   np.ClassID,
		UserID:    userID,
		Amount:    np.Amount,
		Status:    PaymentStatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := svc.repo.CreatePayment(ctx, payment); err != nil {
		return "", err
	}
	return "TXN-" + uuid.New().String(), nil
}
