package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

// Resource types form a closed set.
const (
	TypeLink     = "link"
	TypeDocument = "document"
	TypeVideo    = "video"
	TypeImage    = "image"
)

var AllTypes = []string{TypeLink, TypeDocument, TypeVideo, TypeImage}

func IsValidType(typ string) bool {
	for _, t := range AllTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// Resource is supplementary course material shared by a teacher. No counters,
// no cascade.
type Resource struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClassID     string    `json:"class_id" bson:"class_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Type        string    `json:"type" bson:"type"`
	URL         string    `json:"url" bson:"url"`
	TeacherID   string    `json:"teacher_id" bson:"teacher_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"` // UTC
}

// NewResource contains information needed to share a Resource.
type NewResource struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,resourcetype"`
	URL         string `json:"url" validate:"required,url"`
	TeacherID   string `json:"teacher_id"`
}

func (nr *NewResource) Validate(validate *validator.Validate) error {
	nr.Title = core.CleanString(nr.Title)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.URL = core.CleanString(nr.URL)
	if nr.Type == "" {
		nr.Type = TypeLink
	}
	return validate.Struct(nr)
}
