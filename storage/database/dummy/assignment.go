package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/learnifyhq/learnify/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg.ID = repo.db.nextID()
	stored := asg
	repo.db.assignments[asg.ID] = &stored
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByClass(ctx context.Context, classID string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.ClassID == classID {
			assignments = append(assignments, *asg)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return idLess(assignments[i].ID, assignments[j].ID) })
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, id string, ua assignment.UpdateAssignment, updatedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg, ok := repo.db.assignments[id]
	if !ok {
		return assignment.ErrNotFound
	}
	if asg.Title == ua.Title && asg.Description == ua.Description &&
		asg.Deadline.Equal(ua.Deadline) && asg.MaxPoints == ua.MaxPoints { // no changes made
		return assignment.ErrNotFound
	}
	asg.Title = ua.Title
	asg.Description = ua.Description
	asg.Deadline = ua.Deadline
	asg.MaxPoints = ua.MaxPoints
	asg.UpdatedAt = updatedAt
	return nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.assignments, id)
	return nil
}

func (repo *assignmentRepository) IncrementClassAssignments(ctx context.Context, classID string, delta int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if class, ok := repo.db.classes[classID]; ok {
		class.TotalAssignments += delta
	}
	return nil
}

func (repo *assignmentRepository) IncrementClassSubmissions(ctx context.Context, classID string, delta int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if class, ok := repo.db.classes[classID]; ok {
		class.TotalSubmissions += delta
	}
	return nil
}

func (repo *assignmentRepository) CountSubmissions(ctx context.Context, assignmentID string) (int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int64
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			count++
		}
	}
	return count, nil
}

func (repo *assignmentRepository) GetSubmission(ctx context.Context, assignmentID, userID string) (assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.UserID == userID {
			return *sub, nil
		}
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.submissions {
		if s.AssignmentID == sub.AssignmentID && s.UserID == sub.UserID {
			return assignment.Submission{}, assignment.ErrSubmissionExists
		}
	}
	sub.ID = repo.db.nextID()
	stored := sub
	repo.db.submissions[sub.ID] = &stored
	return sub, nil
}

func (repo *assignmentRepository) UpdateSubmissionContent(ctx context.Context, id, text, url string, submittedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.submissions[id]
	if !ok {
		return assignment.ErrSubmissionNotFound
	}
	sub.SubmissionText = text
	sub.SubmissionURL = url
	sub.SubmittedAt = submittedAt
	sub.Status = assignment.StatusSubmitted
	return nil
}

func (repo *assignmentRepository) DeleteSubmissionsByAssignment(ctx context.Context, assignmentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID {
			delete(repo.db.submissions, id)
		}
	}
	return nil
}

func (repo *assignmentRepository) GradeSubmission(ctx context.Context, id string, grade float64, feedback string, gradedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.submissions[id]
	if !ok {
		return assignment.ErrSubmissionNotFound
	}
	sub.Grade = &grade
	sub.Feedback = feedback
	sub.GradedAt = &gradedAt
	sub.Status = assignment.StatusGraded
	return nil
}

// QuerySubmissionsForAssignment joins each submission with its student by
// external uid. A missing student leaves the joined fields empty.
func (repo *assignmentRepository) QuerySubmissionsForAssignment(ctx context.Context, assignmentID string) ([]assignment.TeacherSubmissionView, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	views := make([]assignment.TeacherSubmissionView, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID != assignmentID {
			continue
		}
		view := assignment.TeacherSubmissionView{Submission: *sub}
		for _, u := range repo.db.users {
			if u.UID == sub.UserID {
				view.StudentName = u.Name
				view.StudentEmail = u.Email
				view.StudentPhoto = u.Photo
				break
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].SubmittedAt.After(views[j].SubmittedAt) })
	return views, nil
}

// QuerySubmissionsForStudent joins two hops out to the assignment and its
// class. Missing intermediates leave the joined fields absent rather than
// excluding the row.
func (repo *assignmentRepository) QuerySubmissionsForStudent(ctx context.Context, userID string) ([]assignment.StudentSubmissionView, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	views := make([]assignment.StudentSubmissionView, 0)
	for _, sub := range repo.db.submissions {
		if sub.UserID != userID {
			continue
		}
		view := assignment.StudentSubmissionView{Submission: *sub}
		if asg, ok := repo.db.assignments[sub.AssignmentID]; ok {
			view.AssignmentTitle = asg.Title
			deadline := asg.Deadline
			view.AssignmentDeadline = &deadline
			maxPoints := asg.MaxPoints
			view.MaxPoints = &maxPoints
			if class, ok := repo.db.classes[asg.ClassID]; ok {
				view.ClassName = class.Title
				view.ClassID = class.ID
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].SubmittedAt.After(views[j].SubmittedAt) })
	return views, nil
}
