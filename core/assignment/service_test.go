package assignment_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/assignment"
	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/user"
	logsvc "github.com/learnifyhq/learnify/services/logger"
	dummydb "github.com/learnifyhq/learnify/storage/database/dummy"
)

type testEnv struct {
	svc     *assignment.Service
	repo    assignment.Repository
	catRepo catalog.Repository
	usrRepo user.Repository
}

func setup(t *testing.T) testEnv {
	db, err := dummydb.Open()
	require.NoError(t, err)
	return testEnv{
		svc:     assignment.NewService(dummydb.NewAssignmentRepository(db), logsvc.NewStdLogger(log.New(io.Discard, "", 0))),
		repo:    dummydb.NewAssignmentRepository(db),
		catRepo: dummydb.NewCatalogRepository(db),
		usrRepo: dummydb.NewUserRepository(db),
	}
}

func (env testEnv) createClass(t *testing.T) catalog.ClassOffering {
	class, err := env.catRepo.CreateClassOffering(context.Background(), catalog.ClassOffering{
		InstructorName: "Jane", InstructorEmail: "jane@test.cd", Title: "Algebra 101",
		Status: catalog.StatusApproved,
	})
	require.NoError(t, err)
	return class
}

func (env testEnv) classCounters(t *testing.T, id string) (assignments, submissions int) {
	class, err := env.catRepo.GetClassOfferingByID(context.Background(), id)
	require.NoError(t, err)
	return class.TotalAssignments, class.TotalSubmissions
}

func newAssignment(title string) assignment.NewAssignment {
	return assignment.NewAssignment{
		Title:     title,
		Deadline:  time.Now().Add(7 * 24 * time.Hour).UTC(),
		MaxPoints: 100,
	}
}

func TestService_Create(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	assert.NotEmpty(t, asg.ID)
	assert.Equal(t, class.ID, asg.ClassID)

	asgCount, _ := env.classCounters(t, class.ID)
	assert.Equal(t, 1, asgCount)
}

func TestService_Get(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)

	got, err := env.svc.Get(ctx, asg.ID)
	require.NoError(t, err)
	assert.Equal(t, asg.ID, got.ID)
	assert.Zero(t, got.SubmissionCount)

	_, err = env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)

	got, err = env.svc.Get(ctx, asg.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.SubmissionCount)

	_, err = env.svc.Get(ctx, "nope")
	assert.Equal(t, assignment.ErrNotFound, err)
}

func TestService_Submit(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := env.svc.Submit(ctx, "nope", "stu-1", assignment.NewSubmission{})
		assert.Equal(t, assignment.ErrNotFound, err)
	})

	sub, err := env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "v1"})
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusSubmitted, sub.Status)

	_, subCount := env.classCounters(t, class.ID)
	assert.Equal(t, 1, subCount)

	t.Run("resubmission updates in place", func(t *testing.T) {
		resub, err := env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "v2"})
		require.NoError(t, err)
		assert.Equal(t, sub.ID, resub.ID)
		assert.Equal(t, "v2", resub.SubmissionText)

		// counter bumped exactly once
		_, subCount := env.classCounters(t, class.ID)
		assert.Equal(t, 1, subCount)
	})

	t.Run("resubmission keeps the grade", func(t *testing.T) {
		require.NoError(t, env.svc.Grade(ctx, sub.ID, assignment.GradeInput{Grade: 85, Feedback: "good"}))

		resub, err := env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "v3"})
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusSubmitted, resub.Status)

		got, err := env.repo.GetSubmission(ctx, asg.ID, "stu-1")
		require.NoError(t, err)
		require.NotNil(t, got.Grade)
		assert.Equal(t, 85.0, *got.Grade)
		assert.Equal(t, "good", got.Feedback)
	})
}

func TestService_Grade(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	sub, err := env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Grade(ctx, sub.ID, assignment.GradeInput{Grade: 92.5, Feedback: "nice"}))

	got, err := env.repo.GetSubmission(ctx, asg.ID, "stu-1")
	require.NoError(t, err)
	assert.Equal(t, assignment.StatusGraded, got.Status)
	require.NotNil(t, got.Grade)
	assert.Equal(t, 92.5, *got.Grade)
	assert.Equal(t, "nice", got.Feedback)
	require.NotNil(t, got.GradedAt)

	assert.Equal(t, assignment.ErrSubmissionNotFound, env.svc.Grade(ctx, "nope", assignment.GradeInput{Grade: 50}))
}

func TestService_Delete(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg.ID, "stu-2", assignment.NewSubmission{SubmissionText: "done too"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, asg.ID))

	_, err = env.svc.Get(ctx, asg.ID)
	assert.Equal(t, assignment.ErrNotFound, err)

	count, err := env.repo.CountSubmissions(ctx, asg.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	asgCount, _ := env.classCounters(t, class.ID)
	assert.Zero(t, asgCount)

	// decremented exactly once
	assert.Equal(t, assignment.ErrNotFound, env.svc.Delete(ctx, asg.ID))
	asgCount, _ = env.classCounters(t, class.ID)
	assert.Zero(t, asgCount)
}

func TestService_ListByClass(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg1, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	asg2, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 2"))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg1.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)

	list, err := env.svc.ListByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, asg1.ID, list[0].ID)
	assert.Equal(t, int64(1), list[0].SubmissionCount)
	assert.Equal(t, asg2.ID, list[1].ID)
	assert.Zero(t, list[1].SubmissionCount)
}

func TestService_ListSubmissionsForAssignment(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	_, err := env.usrRepo.CreateUser(ctx, user.User{UID: "stu-1", Name: "Jane", Email: "jane@test.cd", Role: user.RoleStudent})
	require.NoError(t, err)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg.ID, "ghost", assignment.NewSubmission{SubmissionText: "also done"})
	require.NoError(t, err)

	views, err := env.svc.ListSubmissionsForAssignment(ctx, asg.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byUser := make(map[string]assignment.TeacherSubmissionView, len(views))
	for _, v := range views {
		byUser[v.UserID] = v
	}
	assert.Equal(t, "Jane", byUser["stu-1"].StudentName)
	assert.Equal(t, "jane@test.cd", byUser["stu-1"].StudentEmail)
	// unknown student kept, fields left empty
	assert.Empty(t, byUser["ghost"].StudentName)
}

func TestService_ListSubmissionsForStudent(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t)

	asg, err := env.svc.Create(ctx, class.ID, newAssignment("Homework 1"))
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, asg.ID, "stu-1", assignment.NewSubmission{SubmissionText: "done"})
	require.NoError(t, err)

	// orphan submission; its assignment is gone
	_, err = env.repo.CreateSubmission(ctx, assignment.Submission{
		AssignmentID: "gone", UserID: "stu-1", Status: assignment.StatusSubmitted,
		SubmittedAt: time.Now().Add(-time.Hour).UTC(),
	})
	require.NoError(t, err)

	views, err := env.svc.ListSubmissionsForStudent(ctx, "stu-1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	// newest first
	assert.Equal(t, asg.ID, views[0].AssignmentID)
	assert.Equal(t, "Homework 1", views[0].AssignmentTitle)
	assert.Equal(t, "Algebra 101", views[0].ClassName)
	assert.Equal(t, class.ID, views[0].ClassID)

	assert.Equal(t, "gone", views[1].AssignmentID)
	assert.Empty(t, views[1].AssignmentTitle)
	assert.Nil(t, views[1].AssignmentDeadline)
	assert.Empty(t, views[1].ClassName)
}
