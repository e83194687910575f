package dummydb

import (
	"context"
	"sort"

	"github.com/learnifyhq/learnify/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	res.ID = repo.db.nextID()
	stored := res
	repo.db.resources[res.ID] = &stored
	return res, nil
}

func (repo *resourceRepository) QueryResourcesByClass(ctx context.Context, classID string) ([]resource.Resource, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	resources := make([]resource.Resource, 0)
	for _, res := range repo.db.resources {
		if res.ClassID == classID {
			resources = append(resources, *res)
		}
	}
	sort.Slice(resources, func(i, j int) bool {
		if resources[i].CreatedAt.Equal(resources[j].CreatedAt) {
			return idLess(resources[j].ID, resources[i].ID)
		}
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})
	return resources, nil
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.resources[id]; !ok {
		return resource.ErrNotFound
	}
	delete(repo.db.resources, id)
	return nil
}
