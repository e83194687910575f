package evaluation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

// Evaluation is a student's rating/review of a class offering. At most one
// exists per (class, user), enforced by the store's unique index.
type Evaluation struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Name        string    `json:"name" bson:"name"`
	Photo       string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Rating      float64   `json:"rating" bson:"rating"`
	Description string    `json:"description" bson:"description"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"` // UTC
}

// ReviewView is an evaluation joined with its class context. Reviews whose
// class no longer exists are excluded entirely (an inner join, unlike the
// null-preserving submission views).
type ReviewView struct {
	Evaluation     `bson:",inline"`
	ClassName      string `json:"class_name" bson:"class_name"`
	InstructorName string `json:"instructor_name" bson:"instructor_name"`
	ClassImage     string `json:"class_image,omitempty" bson:"class_image,omitempty"`
}

// NewEvaluation is the review payload.
type NewEvaluation struct {
	Name        string  `json:"name" validate:"required"`
	Photo       string  `json:"photo"`
	Rating      float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Description string  `json:"description"`
}

func (ne *NewEvaluation) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Description = core.CleanString(ne.Description)
	return validate.Struct(ne)
}
