package dummydb

import (
	"context"
	"sort"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateTeacherRequest(ctx context.Context, req catalog.TeacherRequest) (catalog.TeacherRequest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req.ID = repo.db.nextID()
	stored := req
	repo.db.requests[req.ID] = &stored
	return req, nil
}

func requestMatches(req *catalog.TeacherRequest, filter catalog.QueryFilter) bool {
	if filter.InstructorEmail != "" && req.InstructorEmail != filter.InstructorEmail {
		return false
	}
	if filter.Status != "" && req.Status != filter.Status {
		return false
	}
	if filter.Category != "" && req.Category != filter.Category {
		return false
	}
	if filter.Experience != "" && req.Experience != filter.Experience {
		return false
	}
	return true
}

// classMatches mirrors the document store: offerings carry no category or
// experience fields, so filtering on either matches nothing.
func classMatches(class *catalog.ClassOffering, filter catalog.QueryFilter) bool {
	if filter.Category != "" || filter.Experience != "" {
		return false
	}
	if filter.InstructorEmail != "" && class.InstructorEmail != filter.InstructorEmail {
		return false
	}
	if filter.Status != "" && class.Status != filter.Status {
		return false
	}
	return true
}

func paginate(total int, page core.Pagination) (int, int) {
	lo := page.Offset()
	if lo > total {
		lo = total
	}
	hi := lo + page.Limit
	if hi > total {
		hi = total
	}
	return lo, hi
}

func (repo *catalogRepository) FilterTeacherRequests(ctx context.Context, filter catalog.QueryFilter, page core.Pagination) ([]catalog.TeacherRequest, int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]catalog.TeacherRequest, 0)
	for _, req := range repo.db.requests {
		if requestMatches(req, filter) {
			matched = append(matched, *req)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return idLess(matched[i].ID, matched[j].ID) })

	lo, hi := paginate(len(matched), page)
	return matched[lo:hi], int64(len(matched)), nil
}

func (repo *catalogRepository) UpdateTeacherRequestStatus(ctx context.Context, id, from, to string) (catalog.TeacherRequest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req, ok := repo.db.requests[id]
	if !ok || req.Status != from { // absent or already terminal
		return catalog.TeacherRequest{}, catalog.ErrNotFound
	}
	req.Status = to
	return *req, nil
}

func (repo *catalogRepository) CreateClassOffering(ctx context.Context, class catalog.ClassOffering) (catalog.ClassOffering, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	class.ID = repo.db.nextID()
	stored := class
	repo.db.classes[class.ID] = &stored
	return class, nil
}

func (repo *catalogRepository) FilterClassOfferings(ctx context.Context, filter catalog.QueryFilter, page core.Pagination) ([]catalog.ClassOffering, int64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]catalog.ClassOffering, 0)
	for _, class := range repo.db.classes {
		if classMatches(class, filter) {
			matched = append(matched, *class)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return idLess(matched[i].ID, matched[j].ID) })

	lo, hi := paginate(len(matched), page)
	return matched[lo:hi], int64(len(matched)), nil
}

func (repo *catalogRepository) QueryAllClassOfferings(ctx context.Context) ([]catalog.ClassOffering, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]catalog.ClassOffering, 0, len(repo.db.classes))
	for _, class := range repo.db.classes {
		classes = append(classes, *class)
	}
	sort.Slice(classes, func(i, j int) bool { return idLess(classes[i].ID, classes[j].ID) })
	return classes, nil
}

func (repo *catalogRepository) GetClassOfferingByID(ctx context.Context, id string) (catalog.ClassOffering, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if class, ok := repo.db.classes[id]; ok {
		return *class, nil
	}
	return catalog.ClassOffering{}, catalog.ErrNotFound
}

func (repo *catalogRepository) UpdateClassOfferingStatus(ctx context.Context, id, from, to string) (catalog.ClassOffering, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	class, ok := repo.db.classes[id]
	if !ok || class.Status != from { // absent or already terminal
		return catalog.ClassOffering{}, catalog.ErrNotFound
	}
	class.Status = to
	return *class, nil
}

func (repo *catalogRepository) UpdateClassOffering(ctx context.Context, id string, up catalog.UpdateClassOffering) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	class, ok := repo.db.classes[id]
	if !ok {
		return catalog.ErrNotFound
	}

	changed := false
	if up.Title != nil && class.Title != *up.Title {
		class.Title = *up.Title
		changed = true
	}
	if up.Price != nil && class.Price != *up.Price {
		class.Price = *up.Price
		changed = true
	}
	if up.Description != nil && class.Description != *up.Description {
		class.Description = *up.Description
		changed = true
	}
	if up.Image != nil && class.Image != *up.Image {
		class.Image = *up.Image
		changed = true
	}
	if !changed { // no changes made
		return catalog.ErrNotFound
	}
	return nil
}

func (repo *catalogRepository) DeleteClassOffering(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repo.db.classes, id)
	return nil
}
