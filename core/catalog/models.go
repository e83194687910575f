package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

// Lifecycle states. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Decision actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

func statusForAction(action string) string {
	if action == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// TeacherRequest is an application to become an instructor on the platform.
type TeacherRequest struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	Name            string    `json:"name" bson:"name"`
	InstructorEmail string    `json:"instructor_email" bson:"instructor_email"`
	Title           string    `json:"title" bson:"title"`
	Category        string    `json:"category" bson:"category"`
	Experience      string    `json:"experience" bson:"experience"`
	Description     string    `json:"description" bson:"description"`
	Status          string    `json:"status" bson:"status"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"` // UTC
}

// ClassOffering is a course instance created by a teacher. The counters and
// the rating aggregate are derived state owned by the workflow engine; they
// are never written from client-supplied values.
type ClassOffering struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	InstructorName  string     `json:"instructor_name" bson:"instructor_name"`
	InstructorEmail string     `json:"instructor_email" bson:"instructor_email"`
	Title           string     `json:"title" bson:"title"`
	Price           float64    `json:"price" bson:"price"`
	Description     string     `json:"description" bson:"description"`
	Image           string     `json:"image,omitempty" bson:"image,omitempty"`
	Status          string     `json:"status" bson:"status"`
	TotalEnrollment int        `json:"total_enrollment" bson:"total_enrollment"`
	TotalAssignments int       `json:"total_assignments" bson:"total_assignments"`
	TotalSubmissions int       `json:"total_submissions" bson:"total_submissions"`
	AverageRating   *float64   `json:"average_rating,omitempty" bson:"average_rating,omitempty"`
	TotalReviews    int        `json:"total_reviews" bson:"total_reviews"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"` // UTC
}

// NewTeacherRequest contains the application fields.
type NewTeacherRequest struct {
	Name            string `json:"name" validate:"required"`
	InstructorEmail string `json:"instructor_email" validate:"required,email"`
	Title           string `json:"title"`
	Category        string `json:"category" validate:"required"`
	Experience      string `json:"experience" validate:"required"`
	Description     string `json:"description"`
}

func (nr *NewTeacherRequest) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.InstructorEmail = core.CleanString(nr.InstructorEmail, true /* lower */)
	nr.Category = core.CleanString(nr.Category)
	nr.Experience = core.CleanString(nr.Experience)
	return validate.Struct(nr)
}

// NewClassOffering contains information needed to submit a class for approval.
type NewClassOffering struct {
	InstructorName  string  `json:"instructor_name" validate:"required"`
	InstructorEmail string  `json:"instructor_email" validate:"required,email"`
	Title           string  `json:"title" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Description     string  `json:"description"`
	Image           string  `json:"image"`
}

func (nc *NewClassOffering) Validate(validate *validator.Validate) error {
	nc.InstructorName = core.CleanString(nc.InstructorName)
	nc.InstructorEmail = core.CleanString(nc.InstructorEmail, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

// UpdateClassOffering defines the only client-mutable fields of an offering.
// Nil pointers leave the stored value untouched.
type UpdateClassOffering struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

func (uc *UpdateClassOffering) Validate(validate *validator.Validate) error {
	if uc.Title != nil {
		t := core.CleanString(*uc.Title)
		uc.Title = &t
	}
	return validate.Struct(uc)
}

func (uc *UpdateClassOffering) IsEmpty() bool {
	return uc.Title == nil && uc.Price == nil && uc.Description == nil && uc.Image == nil
}

// QueryFilter applies AND on its non-empty fields; absent fields impose no
// constraint.
type QueryFilter struct {
	InstructorEmail string `query:"instructorEmail"`
	Status          string `query:"status"`
	Category        string `query:"category"`
	Experience      string `query:"experience"`
}

func (qf *QueryFilter) Clean() {
	qf.InstructorEmail = core.CleanString(qf.InstructorEmail, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Category = core.CleanString(qf.Category)
	qf.Experience = core.CleanString(qf.Experience)
}

type TeacherRequestPage struct {
	Requests    []TeacherRequest `json:"requests"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
}

type ClassOfferingPage struct {
	Classes     []ClassOffering `json:"classes"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}
