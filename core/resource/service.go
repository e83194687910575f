package resource

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("resource not found")
)

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource) (Resource, error)
		// QueryResourcesByClass returns the class's resources, newest first.
		QueryResourcesByClass(ctx context.Context, classID string) ([]Resource, error)
		DeleteResource(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Add(ctx context.Context, classID string, nr NewResource) (Resource, error) {
	res := Resource{
		ClassID:     classID,
		Title:       nr.Title,
		Description: nr.Description,
		Type:        nr.Type,
		URL:         nr.URL,
		TeacherID:   nr.TeacherID,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateResource(ctx, res)
}

func (svc *Service) ListByClass(ctx context.Context, classID string) ([]Resource, error) {
	return svc.repo.QueryResourcesByClass(ctx, classID)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteResource(ctx, id)
}
