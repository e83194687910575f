package user

import (
	"context"
	"errors"
	"time"

	"github.com/learnifyhq/learnify/core"
)

var (
	// errors
	ErrNotFound   = errors.New("user not found")
	ErrUserExists = errors.New("a user with this uid or email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUID(ctx context.Context, uid string) (User, error)
		FilterUsersByEmail(ctx context.Context, email string) ([]User, error)
		// SearchUsers does a case-insensitive substring match on User.Name or User.Email.
		SearchUsers(ctx context.Context, term string) ([]User, error)
		// SetUserRoleByID returns ErrNotFound when no document matched or the
		// role was already set; the two cases are indistinguishable under a
		// modified-count check.
		SetUserRoleByID(ctx context.Context, id, role string) error
		SetUserRoleByEmail(ctx context.Context, email, role string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		UID:       nu.UID,
		Name:      nu.Name,
		Email:     nu.Email,
		Photo:     nu.Photo,
		Role:      RoleStudent,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) FilterByEmail(ctx context.Context, email string) ([]User, error) {
	return svc.repo.FilterUsersByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Search(ctx context.Context, term string) ([]User, error) {
	return svc.repo.SearchUsers(ctx, core.CleanString(term))
}

// GetRoleByUID returns the user's role, defaulting to student when the stored
// role is empty.
func (svc *Service) GetRoleByUID(ctx context.Context, uid string) (string, error) {
	usr, err := svc.repo.GetUserByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	return usr.EffectiveRole(), nil
}

func (svc *Service) MakeAdmin(ctx context.Context, id string) error {
	return svc.repo.SetUserRoleByID(ctx, id, RoleAdmin)
}

func (svc *Service) SetRole(ctx context.Context, id, role string) error {
	if !IsValidRole(role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: roleText})
	}
	return svc.repo.SetUserRoleByID(ctx, id, role)
}

// PromoteTeacherByEmail elevates the user owning this email to teacher. It is
// the target of the approval side effect in the course lifecycle.
func (svc *Service) PromoteTeacherByEmail(ctx context.Context, email string) error {
	return svc.repo.SetUserRoleByEmail(ctx, core.CleanString(email, true /* lower */), RoleTeacher)
}
