package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnifyhq/learnify/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) assignments() *mongo.Collection {
	return repo.db.collection(assignmentsColl)
}

func (repo assignmentRepository) submissions() *mongo.Collection {
	return repo.db.collection(submissionsColl)
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	asg.ID = primitive.NewObjectID().Hex()
	if _, err := repo.assignments().InsertOne(ctx, asg); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var asg assignment.Assignment
	if err := repo.assignments().FindOne(ctx, bson.M{"_id": id}).Decode(&asg); err != nil {
		if err == mongo.ErrNoDocuments {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) QueryAssignmentsByClass(ctx context.Context, classID string) ([]assignment.Assignment, error) {
	cur, err := repo.assignments().Find(ctx, bson.M{"class_id": classID})
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0)
	if err = cur.All(ctx, &assignments); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return assignments, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, id string, ua assignment.UpdateAssignment, updatedAt time.Time) error {
	res, err := repo.assignments().UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":       ua.Title,
			"description": ua.Description,
			"deadline":    ua.Deadline,
			"max_points":  ua.MaxPoints,
			"updated_at":  updatedAt,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	if res.ModifiedCount == 0 { // absent or no changes made
		return assignment.ErrNotFound
	}
	return nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := repo.assignments().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if res.DeletedCount == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo assignmentRepository) IncrementClassAssignments(ctx context.Context, classID string, delta int) error {
	_, err := repo.db.collection(classesColl).UpdateOne(
		ctx,
		bson.M{"_id": classID},
		bson.M{"$inc": bson.M{"total_assignments": delta}},
	)
	return errors.Wrap(err, "incrementing class assignment count")
}

func (repo assignmentRepository) IncrementClassSubmissions(ctx context.Context, classID string, delta int) error {
	_, err := repo.db.collection(classesColl).UpdateOne(
		ctx,
		bson.M{"_id": classID},
		bson.M{"$inc": bson.M{"total_submissions": delta}},
	)
	return errors.Wrap(err, "incrementing class submission count")
}

func (repo assignmentRepository) CountSubmissions(ctx context.Context, assignmentID string) (int64, error) {
	count, err := repo.submissions().CountDocuments(ctx, bson.M{"assignment_id": assignmentID})
	if err != nil {
		return 0, errors.Wrap(err, "counting submissions")
	}
	return count, nil
}

func (repo assignmentRepository) GetSubmission(ctx context.Context, assignmentID, userID string) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.submissions().FindOne(ctx, bson.M{"assignment_id": assignmentID, "user_id": userID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting submission")
	}
	return sub, nil
}

func (repo assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	sub.ID = primitive.NewObjectID().Hex()
	if _, err := repo.submissions().InsertOne(ctx, sub); err != nil {
		if isDupKeyErr(err) {
			return assignment.Submission{}, assignment.ErrSubmissionExists
		}
		return assignment.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo assignmentRepository) UpdateSubmissionContent(ctx context.Context, id, text, url string, submittedAt time.Time) error {
	res, err := repo.submissions().UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"submission_text": text,
			"submission_url":  url,
			"submitted_at":    submittedAt,
			"status":          assignment.StatusSubmitted,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "updating submission")
	}
	if res.MatchedCount == 0 {
		return assignment.ErrSubmissionNotFound
	}
	return nil
}

func (repo assignmentRepository) DeleteSubmissionsByAssignment(ctx context.Context, assignmentID string) error {
	_, err := repo.submissions().DeleteMany(ctx, bson.M{"assignment_id": assignmentID})
	return errors.Wrap(err, "deleting submissions")
}

func (repo assignmentRepository) GradeSubmission(ctx context.Context, id string, grade float64, feedback string, gradedAt time.Time) error {
	res, err := repo.submissions().UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"grade":     grade,
			"feedback":  feedback,
			"status":    assignment.StatusGraded,
			"graded_at": gradedAt,
		}},
	)
	if err != nil {
		return errors.Wrap(err, "grading submission")
	}
	if res.MatchedCount == 0 {
		return assignment.ErrSubmissionNotFound
	}
	return nil
}

// QuerySubmissionsForAssignment joins each submission with its student by
// matching the submission's user id against the user's external uid. A
// missing user leaves the student fields absent.
func (repo assignmentRepository) QuerySubmissionsForAssignment(ctx context.Context, assignmentID string) ([]assignment.TeacherSubmissionView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assignment_id": assignmentID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersColl,
			"localField":   "user_id",
			"foreignField": "uid",
			"as":           "student_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$student_info",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$addFields", Value: bson.M{
			"student_name":  "$student_info.name",
			"student_email": "$student_info.email",
			"student_photo": "$student_info.photo",
		}}},
		{{Key: "$project", Value: bson.M{"student_info": 0}}},
		{{Key: "$sort", Value: bson.M{"submitted_at": -1}}},
	}

	cur, err := repo.submissions().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment submissions")
	}
	views := make([]assignment.TeacherSubmissionView, 0)
	if err = cur.All(ctx, &views); err != nil {
		return nil, errors.Wrap(err, "querying assignment submissions")
	}
	return views, nil
}

// QuerySubmissionsForStudent joins two hops out: submission → assignment →
// class. Missing intermediates leave the joined fields absent rather than
// excluding the row.
func (repo assignmentRepository) QuerySubmissionsForStudent(ctx context.Context, userID string) ([]assignment.StudentSubmissionView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         assignmentsColl,
			"localField":   "assignment_id",
			"foreignField": "_id",
			"as":           "assignment_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$assignment_info",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         classesColl,
			"localField":   "assignment_info.class_id",
			"foreignField": "_id",
			"as":           "class_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$class_info",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$addFields", Value: bson.M{
			"assignment_title":    "$assignment_info.title",
			"assignment_deadline": "$assignment_info.deadline",
			"max_points":          "$assignment_info.max_points",
			"class_name":          "$class_info.title",
			"class_id":            "$class_info._id",
		}}},
		{{Key: "$project", Value: bson.M{"assignment_info": 0, "class_info": 0}}},
		{{Key: "$sort", Value: bson.M{"submitted_at": -1}}},
	}

	cur, err := repo.submissions().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "querying student submissions")
	}
	views := make([]assignment.StudentSubmissionView, 0)
	if err = cur.All(ctx, &views); err != nil {
		return nil, errors.Wrap(err, "querying student submissions")
	}
	return views, nil
}
