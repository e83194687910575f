package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/catalog"
)

// Enrollment registers a student in a class offering. At most one exists per
// (class, user) pair, enforced by the store's unique index.
type Enrollment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	ClassID    string    `json:"class_id" bson:"class_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	EnrolledAt time.Time `json:"enrolled_at" bson:"enrolled_at"` // UTC
	Progress   float64   `json:"progress" bson:"progress"`
	Completed  bool      `json:"completed" bson:"completed"`
}

// EnrolledCourse is a class offering enriched with the student's enrollment
// data, merged by class id.
type EnrolledCourse struct {
	catalog.ClassOffering
	Progress   float64   `json:"progress"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Payment is an append-only completed-payment fact. The capture itself is a
// stub: card fields are format-checked and then discarded.
type Payment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ClassID   string    `json:"class_id" bson:"class_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Amount    float64   `json:"amount" bson:"amount"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
}

const PaymentStatusCompleted = "completed"

// NewEnrollment is the enroll payload.
type NewEnrollment struct {
	ClassID string `json:"class_id" validate:"required"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.ClassID = core.CleanString(ne.ClassID)
	return validate.Struct(ne)
}

// ProgressUpdate carries the caller-supplied progress value. No bound is
// enforced here; the [0,100] range is the caller's responsibility.
type ProgressUpdate struct {
	Progress float64 `json:"progress"`
}

// NewPayment is the payment-capture payload. Card fields are validated for
// shape only; no settlement happens.
type NewPayment struct {
	ClassID    string  `json:"class_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	CardNumber string  `json:"card_number" validate:"required,numeric,min=12,max=19"`
	ExpiryDate string  `json:"expiry_date" validate:"required"`
	CVV        string  `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.ClassID = core.CleanString(np.ClassID)
	np.CardNumber = core.CleanString(np.CardNumber)
	np.ExpiryDate = core.CleanString(np.ExpiryDate)
	np.CVV = core.CleanString(np.CVV)
	return validate.Struct(np)
}
