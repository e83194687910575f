package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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

func (repo catalogRepository) requests() *mongo.Collection {
	return repo.db.collection(reqTeachersColl)
}

func (repo catalogRepository) classes() *mongo.Collection {
	return repo.db.collection(classesColl)
}

func (repo catalogRepository) filterQuery(filter catalog.QueryFilter) bson.M {
	query := bson.M{}
	if filter.InstructorEmail != "" {
		query["instructor_email"] = filter.InstructorEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Experience != "" {
		query["experience"] = filter.Experience
	}
	return query
}

func (repo catalogRepository) pageOpts(page core.Pagination) *options.FindOptions {
	return options.Find().SetSkip(int64(page.Offset())).SetLimit(int64(page.Limit))
}

func (repo catalogRepository) CreateTeacherRequest(ctx context.Context, req catalog.TeacherRequest) (catalog.TeacherRequest, error) {
	req.ID = primitive.NewObjectID().Hex()
	if _, err := repo.requests().InsertOne(ctx, req); err != nil {
		return catalog.TeacherRequest{}, errors.Wrap(err, "inserting teacher request")
	}
	return req, nil
}

func (repo catalogRepository) FilterTeacherRequests(ctx context.Context, filter catalog.QueryFilter, page core.Pagination) ([]catalog.TeacherRequest, int64, error) {
	query := repo.filterQuery(filter)

	cur, err := repo.requests().Find(ctx, query, repo.pageOpts(page))
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying teacher requests")
	}
	reqs := make([]catalog.TeacherRequest, 0)
	if err = cur.All(ctx, &reqs); err != nil {
		return nil, 0, errors.Wrap(err, "querying teacher requests")
	}

	count, err := repo.requests().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting teacher requests")
	}
	return reqs, count, nil
}

func (repo catalogRepository) UpdateTeacherRequestStatus(ctx context.Context, id, from, to string) (catalog.TeacherRequest, error) {
	var req catalog.TeacherRequest
	err := repo.requests().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments { // absent or already terminal
			return catalog.TeacherRequest{}, catalog.ErrNotFound
		}
		return catalog.TeacherRequest{}, errors.Wrap(err, "updating teacher request status")
	}
	return req, nil
}

func (repo catalogRepository) CreateClassOffering(ctx context.Context, class catalog.ClassOffering) (catalog.ClassOffering, error) {
	class.ID = primitive.NewObjectID().Hex()
	if _, err := repo.classes().InsertOne(ctx, class); err != nil {
		return catalog.ClassOffering{}, errors.Wrap(err, "inserting class offering")
	}
	return class, nil
}

func (repo catalogRepository) FilterClassOfferings(ctx context.Context, filter catalog.QueryFilter, page core.Pagination) ([]catalog.ClassOffering, int64, error) {
	query := repo.filterQuery(filter)

	cur, err := repo.classes().Find(ctx, query, repo.pageOpts(page))
	if err != nil {
		return nil, 0, errors.Wrap(err, "querying class offerings")
	}
	classes := make([]catalog.ClassOffering, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, 0, errors.Wrap(err, "querying class offerings")
	}

	count, err := repo.classes().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting class offerings")
	}
	return classes, count, nil
}

func (repo catalogRepository) QueryAllClassOfferings(ctx context.Context) ([]catalog.ClassOffering, error) {
	cur, err := repo.classes().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying all class offerings")
	}
	classes := make([]catalog.ClassOffering, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "querying all class offerings")
	}
	return classes, nil
}

func (repo catalogRepository) GetClassOfferingByID(ctx context.Context, id string) (catalog.ClassOffering, error) {
	var class catalog.ClassOffering
	if err := repo.classes().FindOne(ctx, bson.M{"_id": id}).Decode(&class); err != nil {
		if err == mongo.ErrNoDocuments {
			return catalog.ClassOffering{}, catalog.ErrNotFound
		}
		return catalog.ClassOffering{}, errors.Wrap(err, "getting class offering")
	}
	return class, nil
}

func (repo catalogRepository) UpdateClassOfferingStatus(ctx context.Context, id, from, to string) (catalog.ClassOffering, error) {
	var class catalog.ClassOffering
	err := repo.classes().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&class)
	if err != nil {
		if err == mongo.ErrNoDocuments { // absent or already terminal
			return catalog.ClassOffering{}, catalog.ErrNotFound
		}
		return catalog.ClassOffering{}, errors.Wrap(err, "updating class offering status")
	}
	return class, nil
}

func (repo catalogRepository) UpdateClassOffering(ctx context.Context, id string, up catalog.UpdateClassOffering) error {
	set := bson.M{}
	if up.Title != nil {
		set["title"] = *up.Title
	}
	if up.Price != nil {
		set["price"] = *up.Price
	}
	if up.Description != nil {
		set["description"] = *up.Description
	}
	if up.Image != nil {
		set["image"] = *up.Image
	}

	res, err := repo.classes().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "updating class offering")
	}
	if res.ModifiedCount == 0 { // absent or no changes made
		return catalog.ErrNotFound
	}
	return nil
}

func (repo catalogRepository) DeleteClassOffering(ctx context.Context, id string) error {
	res, err := repo.classes().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting class offering")
	}
	if res.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
