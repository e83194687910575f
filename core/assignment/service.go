package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/learnifyhq/learnify/core"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionExists   = errors.New("a submission already exists for this assignment and user")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		QueryAssignmentsByClass(ctx context.Context, classID string) ([]Assignment, error)
		// UpdateAssignment returns ErrNotFound when no document matched or
		// nothing changed.
		UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment, updatedAt time.Time) error
		DeleteAssignment(ctx context.Context, id string) error
		// IncrementClassAssignments / IncrementClassSubmissions atomically
		// adjust the owning class's counters.
		IncrementClassAssignments(ctx context.Context, classID string, delta int) error
		IncrementClassSubmissions(ctx context.Context, classID string, delta int) error

		CountSubmissions(ctx context.Context, assignmentID string) (int64, error)
		GetSubmission(ctx context.Context, assignmentID, userID string) (Submission, error)
		// CreateSubmission inserts against the (assignment_id, user_id) unique
		// index and returns ErrSubmissionExists on a duplicate key.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// UpdateSubmissionContent resets text/url/timestamp/status in place;
		// grade and feedback are untouched.
		UpdateSubmissionContent(ctx context.Context, id, text, url string, submittedAt time.Time) error
		DeleteSubmissionsByAssignment(ctx context.Context, assignmentID string) error
		GradeSubmission(ctx context.Context, id string, grade float64, feedback string, gradedAt time.Time) error
		QuerySubmissionsForAssignment(ctx context.Context, assignmentID string) ([]TeacherSubmissionView, error)
		QuerySubmissionsForStudent(ctx context.Context, userID string) ([]StudentSubmissionView, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (svc *Service) Create(ctx context.Context, classID string, na NewAssignment) (Assignment, error) {
	asg := Assignment{
		ClassID:     classID,
		Title:       na.Title,
		Description: na.Description,
		Deadline:    na.Deadline,
		MaxPoints:   na.MaxPoints,
		CreatedAt:   time.Now().UTC(),
	}
	asg, err := svc.repo.CreateAssignment(ctx, asg)
	if err != nil {
		return Assignment{}, err
	}
	if err := svc.repo.IncrementClassAssignments(ctx, classID, 1); err != nil {
		svc.logger.Error(
			fmt.Sprintf("incrementing assignment count for class %s: %v", classID, err),
			pkgerrors.Wrap(err, "incrementing assignment count"),
		)
	}
	return asg, nil
}

// Get returns the assignment with its live submission count.
func (svc *Service) Get(ctx context.Context, id string) (AssignmentWithCount, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return AssignmentWithCount{}, err
	}
	count, err := svc.repo.CountSubmissions(ctx, id)
	if err != nil {
		return AssignmentWithCount{}, err
	}
	return AssignmentWithCount{Assignment: asg, SubmissionCount: count}, nil
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAssignment) error {
	return svc.repo.UpdateAssignment(ctx, id, ua, time.Now().UTC())
}

// Delete removes the assignment, all its submissions, and decrements the
// owning class's assignment counter. The three writes commit independently.
func (svc *Service) Delete(ctx context.Context, id string) error {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteSubmissionsByAssignment(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.IncrementClassAssignments(ctx, asg.ClassID, -1); err != nil {
		svc.logger.Error(
			fmt.Sprintf("decrementing assignment count for class %s: %v", asg.ClassID, err),
			pkgerrors.Wrap(err, "decrementing assignment count"),
		)
	}
	return nil
}

// ListByClass attaches a live submission count to each assignment.
func (svc *Service) ListByClass(ctx context.Context, classID string) ([]AssignmentWithCount, error) {
	assignments, err := svc.repo.QueryAssignmentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	out := make([]AssignmentWithCount, 0, len(assignments))
	for _, asg := range assignments {
		count, err := svc.repo.CountSubmissions(ctx, asg.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, AssignmentWithCount{Assignment: asg, SubmissionCount: count})
	}
	return out, nil
}

// Submit creates the user's submission, or updates it in place on a
// resubmission. Only a first submission bumps the class submission counter.
func (svc *Service) Submit(ctx context.Context, assignmentID, userID string, ns NewSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}

	existing, err := svc.repo.GetSubmission(ctx, assignmentID, userID)
	if err == nil {
		return svc.resubmit(ctx, existing, ns)
	}
	if err != ErrSubmissionNotFound {
		return Submission{}, err
	}

	sub := Submission{
		AssignmentID:   assignmentID,
		UserID:         userID,
		SubmissionText: ns.SubmissionText,
		SubmissionURL:  ns.SubmissionURL,
		Status:         StatusSubmitted,
		SubmittedAt:    time.Now().UTC(),
	}
	sub, err = svc.repo.CreateSubmission(ctx, sub)
	if err == ErrSubmissionExists {
		// lost the race to a concurrent first submission; the unique index is
		// the authority, fall through to a resubmission
		if existing, err = svc.repo.GetSubmission(ctx, assignmentID, userID); err != nil {
			return Submission{}, err
		}
		return svc.resubmit(ctx, existing, ns)
	}
	if err != nil {
		return Submission{}, err
	}

	if err := svc.repo.IncrementClassSubmissions(ctx, asg.ClassID, 1); err != nil {
		svc.logger.Error(
			fmt.Sprintf("incrementing submission count for class %s: %v", asg.ClassID, err),
			pkgerrors.Wrap(err, "incrementing submission count"),
		)
	}
	return sub, nil
}

func (svc *Service) resubmit(ctx context.Context, existing Submission, ns NewSubmission) (Submission, error) {
	now := time.Now().UTC()
	if err := svc.repo.UpdateSubmissionContent(ctx, existing.ID, ns.SubmissionText, ns.SubmissionURL, now); err != nil {
		return Submission{}, err
	}
	existing.SubmissionText = ns.SubmissionText
	existing.SubmissionURL = ns.SubmissionURL
	existing.SubmittedAt = now
	existing.Status = StatusSubmitted
	return existing, nil
}

func (svc *Service) Grade(ctx context.Context, id string, gi GradeInput) error {
	return svc.repo.GradeSubmission(ctx, id, gi.Grade, gi.Feedback, time.Now().UTC())
}

// ListSubmissionsForAssignment is the teacher-facing joined view, newest
// first.
func (svc *Service) ListSubmissionsForAssignment(ctx context.Context, assignmentID string) ([]TeacherSubmissionView, error) {
	return svc.repo.QuerySubmissionsForAssignment(ctx, assignmentID)
}

// ListSubmissionsForStudent is the student-facing joined view, newest first.
func (svc *Service) ListSubmissionsForStudent(ctx context.Context, userID string) ([]StudentSubmissionView, error) {
	return svc.repo.QuerySubmissionsForStudent(ctx, userID)
}
