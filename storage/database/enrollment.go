package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo enrollmentRepository) coll() *mongo.Collection {
	return repo.db.collection(enrollmentsColl)
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	enr.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll().InsertOne(ctx, enr); err != nil {
		if isDupKeyErr(err) {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo enrollmentRepository) IncrementClassEnrollment(ctx context.Context, classID string, delta int) error {
	_, err := repo.db.collection(classesColl).UpdateOne(
		ctx,
		bson.M{"_id": classID},
		bson.M{"$inc": bson.M{"total_enrollment": delta}},
	)
	return errors.Wrap(err, "incrementing class enrollment count")
}

func (repo enrollmentRepository) GetEnrollmentsByUser(ctx context.Context, userID string) ([]enrollment.Enrollment, error) {
	cur, err := repo.coll().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrollments := make([]enrollment.Enrollment, 0)
	if err = cur.All(ctx, &enrollments); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrollments, nil
}

func (repo enrollmentRepository) GetClassOfferingsByIDs(ctx context.Context, ids []string) ([]catalog.ClassOffering, error) {
	cur, err := repo.db.collection(classesColl).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrolled classes")
	}
	classes := make([]catalog.ClassOffering, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "querying enrolled classes")
	}
	return classes, nil
}

func (repo enrollmentRepository) UpdateEnrollmentProgress(ctx context.Context, classID, userID string, progress float64) error {
	res, err := repo.coll().UpdateOne(
		ctx,
		bson.M{"class_id": classID, "user_id": userID},
		bson.M{"$set": bson.M{"progress": progress}},
	)
	if err != nil {
		return errors.Wrap(err, "updating enrollment progress")
	}
	if res.MatchedCount == 0 {
		return enrollment.ErrNotFound
	}
	return nil
}

func (repo enrollmentRepository) ClassOfferingExists(ctx context.Context, classID string) (bool, error) {
	count, err := repo.db.collection(classesColl).CountDocuments(ctx, bson.M{"_id": classID})
	if err != nil {
		return false, errors.Wrap(err, "checking class existence")
	}
	return count > 0, nil
}

func (repo enrollmentRepository) CreatePayment(ctx context.Context, payment enrollment.Payment) (enrollment.Payment, error) {
	payment.ID = primitive.NewObjectID().Hex()
	if _, err := repo.db.collection(paymentsColl).InsertOne(ctx, payment); err != nil {
		return enrollment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return payment, nil
}
