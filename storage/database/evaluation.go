package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnifyhq/learnify/core/evaluation"
)

type evaluationRepository struct {
	db *DB
}

var _ evaluation.Repository = (*evaluationRepository)(nil) // interface compliance check

func NewEvaluationRepository(db *DB) *evaluationRepository {
	return &evaluationRepository{db: db}
}

func (repo evaluationRepository) coll() *mongo.Collection {
	return repo.db.collection(evaluationsColl)
}

func (repo evaluationRepository) CreateEvaluation(ctx context.Context, ev evaluation.Evaluation) (evaluation.Evaluation, error) {
	ev.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll().InsertOne(ctx, ev); err != nil {
		if isDupKeyErr(err) {
			return evaluation.Evaluation{}, evaluation.ErrAlreadyReviewed
		}
		return evaluation.Evaluation{}, errors.Wrap(err, "inserting evaluation")
	}
	return ev, nil
}

func (repo evaluationRepository) QueryEvaluationsByClass(ctx context.Context, classID string) ([]evaluation.Evaluation, error) {
	cur, err := repo.coll().Find(ctx, bson.M{"class_id": classID})
	if err != nil {
		return nil, errors.Wrap(err, "querying evaluations")
	}
	evaluations := make([]evaluation.Evaluation, 0)
	if err = cur.All(ctx, &evaluations); err != nil {
		return nil, errors.Wrap(err, "querying evaluations")
	}
	return evaluations, nil
}

func (repo evaluationRepository) SetClassRating(ctx context.Context, classID string, average float64, total int) error {
	_, err := repo.db.collection(classesColl).UpdateOne(
		ctx,
		bson.M{"_id": classID},
		bson.M{"$set": bson.M{
			"average_rating": average,
			"total_reviews":  total,
		}},
	)
	return errors.Wrap(err, "setting class rating")
}

// QueryAllReviews joins each evaluation with its class. The $unwind is not
// null-preserving: reviews of deleted classes are excluded.
func (repo evaluationRepository) QueryAllReviews(ctx context.Context) ([]evaluation.ReviewView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         classesColl,
			"localField":   "class_id",
			"foreignField": "_id",
			"as":           "class_details",
		}}},
		{{Key: "$unwind", Value: "$class_details"}},
		{{Key: "$addFields", Value: bson.M{
			"class_name":      "$class_details.title",
			"instructor_name": "$class_details.instructor_name",
			"class_image":     "$class_details.image",
		}}},
		{{Key: "$project", Value: bson.M{"class_details": 0}}},
		{{Key: "$sort", Value: bson.M{"submitted_at": -1}}},
	}

	cur, err := repo.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	reviews := make([]evaluation.ReviewView, 0)
	if err = cur.All(ctx, &reviews); err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	return reviews, nil
}
