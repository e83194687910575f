package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnifyhq/learnify/core"
)

// collections; one per entity type
const (
	usersColl       = "users"
	reqTeachersColl = "reqteachers"
	classesColl     = "classes"
	enrollmentsColl = "enrollments"
	assignmentsColl = "assignments"
	submissionsColl = "submissions"
	evaluationsColl = "evaluations"
	paymentsColl    = "payments"
	resourcesColl   = "resources"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(conf *core.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(ctx, client); err != nil {
		return nil, err
	}
	return &DB{
		client: client,
		db:     client.Database(conf.Database.Name),
	}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx, nil); err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// EnsureIndexes creates the unique indexes the workflow invariants depend on.
// Composite uniqueness is enforced here, in the store, never by
// check-then-insert alone.
func EnsureIndexes(ctx context.Context, db *DB) error {
	for coll, models := range map[string][]mongo.IndexModel{
		usersColl: {
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		enrollmentsColl: {
			{
				Keys:    bson.D{{Key: "class_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		submissionsColl: {
			{
				Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		evaluationsColl: {
			{
				Keys:    bson.D{{Key: "class_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	} {
		if _, err := db.collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

// isDupKeyErr reports whether err is a unique index violation.
func isDupKeyErr(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
