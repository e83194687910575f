package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

// Submission states.
const (
	StatusSubmitted = "submitted"
	StatusGraded    = "graded"
)

const DefaultMaxPoints = 100

// Assignment is a gradable task under a class offering.
type Assignment struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Deadline    time.Time `json:"deadline" bson:"deadline"`
	MaxPoints   int       `json:"max_points" bson:"max_points"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Submission is a student's answer artifact. At most one exists per
// (assignment, user); a resubmission updates it in place.
type Submission struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	AssignmentID   string     `json:"assignment_id" bson:"assignment_id"`
	UserID         string     `json:"user_id" bson:"user_id"`
	SubmissionText string     `json:"submission_text" bson:"submission_text"`
	SubmissionURL  string     `json:"submission_url" bson:"submission_url"`
	Status         string     `json:"status" bson:"status"`
	SubmittedAt    time.Time  `json:"submitted_at" bson:"submitted_at"` // UTC
	Grade          *float64   `json:"grade,omitempty" bson:"grade,omitempty"`
	Feedback       string     `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedAt       *time.Time `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
}

// AssignmentWithCount attaches the live submission count to an assignment.
type AssignmentWithCount struct {
	Assignment
	SubmissionCount int64 `json:"submission_count"`
}

// TeacherSubmissionView is a submission joined with the submitting student.
// The join matches Submission.UserID to the user's external uid; a missing
// match leaves the student fields absent.
type TeacherSubmissionView struct {
	Submission   `bson:",inline"`
	StudentName  string `json:"student_name,omitempty" bson:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty" bson:"student_email,omitempty"`
	StudentPhoto string `json:"student_photo,omitempty" bson:"student_photo,omitempty"`
}

// StudentSubmissionView is a submission joined two hops out to its assignment
// and class. Missing intermediates leave the joined fields absent rather than
// excluding the row.
type StudentSubmissionView struct {
	Submission         `bson:",inline"`
	AssignmentTitle    string     `json:"assignment_title,omitempty" bson:"assignment_title,omitempty"`
	AssignmentDeadline *time.Time `json:"assignment_deadline,omitempty" bson:"assignment_deadline,omitempty"`
	MaxPoints          *int       `json:"max_points,omitempty" bson:"max_points,omitempty"`
	ClassName          string     `json:"class_name,omitempty" bson:"class_name,omitempty"`
	ClassID            string     `json:"class_id,omitempty" bson:"class_id,omitempty"`
}

// NewAssignment contains information needed to create an Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	MaxPoints   int       `json:"max_points" validate:"gte=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	if na.MaxPoints == 0 {
		na.MaxPoints = DefaultMaxPoints
	}
	return validate.Struct(na)
}

// UpdateAssignment replaces the four editable fields.
type UpdateAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	MaxPoints   int       `json:"max_points" validate:"gte=0"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	if ua.MaxPoints == 0 {
		ua.MaxPoints = DefaultMaxPoints
	}
	return validate.Struct(ua)
}

// NewSubmission is the submit payload. Absent fields default to "".
type NewSubmission struct {
	SubmissionText string `json:"submission_text"`
	SubmissionURL  string `json:"submission_url"`
}

// GradeInput carries the grading payload. The grade is stored as-is; no
// comparison against the assignment's max points is made.
type GradeInput struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

func (gi *GradeInput) Validate(validate *validator.Validate) error {
	gi.Feedback = core.CleanString(gi.Feedback)
	return validate.Struct(gi)
}
