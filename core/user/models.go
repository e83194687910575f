package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
)

// Roles form a closed set; anything else is rejected at the boundary.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account registered against the external identity provider.
// UID is the provider's identifier; it is the value child entities reference,
// not the store-generated ID.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UID       string    `json:"uid" bson:"uid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Photo     string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
}

// EffectiveRole defaults a missing role to student.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleStudent
	}
	return u.Role
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// NewUser contains information needed to register a new User.
type NewUser struct {
	UID   string `json:"uid" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.UID = core.CleanString(nu.UID)
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// RoleUpdate defines the dynamic role change payload.
type RoleUpdate struct {
	Role string `json:"role" validate:"required,role"`
}

func (ru *RoleUpdate) Validate(validate *validator.Validate) error {
	ru.Role = core.CleanString(ru.Role, true /* lower */)
	return validate.Struct(ru)
}

// TeacherPromotion promotes an existing user to teacher by email.
type TeacherPromotion struct {
	Email string `json:"email" validate:"required,email"`
}

func (tp *TeacherPromotion) Validate(validate *validator.Validate) error {
	tp.Email = core.CleanString(tp.Email, true /* lower */)
	return validate.Struct(tp)
}
