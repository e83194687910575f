package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnifyhq/learnify/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil) // interface compliance check

func NewResourceRepository(db *DB) *resourceRepository {
	return &resourceRepository{db: db}
}

func (repo resourceRepository) coll() *mongo.Collection {
	return repo.db.collection(resourcesColl)
}

func (repo resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	res.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll().InsertOne(ctx, res); err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return res, nil
}

func (repo resourceRepository) QueryResourcesByClass(ctx context.Context, classID string) ([]resource.Resource, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := repo.coll().Find(ctx, bson.M{"class_id": classID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	resources := make([]resource.Resource, 0)
	if err = cur.All(ctx, &resources); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	return resources, nil
}

func (repo resourceRepository) DeleteResource(ctx context.Context, id string) error {
	res, err := repo.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	if res.DeletedCount == 0 {
		return resource.ErrNotFound
	}
	return nil
}
