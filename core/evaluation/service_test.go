package evaluation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/evaluation"
	dummydb "github.com/learnifyhq/learnify/storage/database/dummy"
)

type testEnv struct {
	svc     *evaluation.Service
	catRepo catalog.Repository
}

func setup(t *testing.T) testEnv {
	db, err := dummydb.Open()
	require.NoError(t, err)
	return testEnv{
		svc:     evaluation.NewService(dummydb.NewEvaluationRepository(db)),
		catRepo: dummydb.NewCatalogRepository(db),
	}
}

func (env testEnv) createClass(t *testing.T, title string) catalog.ClassOffering {
	class, err := env.catRepo.CreateClassOffering(context.Background(), catalog.ClassOffering{
		InstructorName: "Jane", InstructorEmail: "jane@test.cd", Title: title, Image: "img.png",
		Status: catalog.StatusApproved,
	})
	require.NoError(t, err)
	return class
}

func TestService_Evaluate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	class := env.createClass(t, "Algebra 101")

	ratings := []float64{5, 3, 4}
	for i, rating := range ratings {
		_, err := env.svc.Evaluate(ctx, class.ID, "stu-"+string(rune('1'+i)), evaluation.NewEvaluation{
			Name:   "Student",
			Rating: rating,
		})
		require.NoError(t, err)
	}

	got, err := env.catRepo.GetClassOfferingByID(ctx, class.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.Equal(t, 4.0, *got.AverageRating)
	assert.Equal(t, 3, got.TotalReviews)

	t.Run("second review rejected, aggregate untouched", func(t *testing.T) {
		_, err := env.svc.Evaluate(ctx, class.ID, "stu-1", evaluation.NewEvaluation{Name: "Student", Rating: 1})
		assert.Equal(t, evaluation.ErrAlreadyReviewed, err)

		got, err := env.catRepo.GetClassOfferingByID(ctx, class.ID)
		require.NoError(t, err)
		require.NotNil(t, got.AverageRating)
		assert.Equal(t, 4.0, *got.AverageRating)
		assert.Equal(t, 3, got.TotalReviews)
	})
}

func TestService_ListAllReviews(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	kept := env.createClass(t, "Kept")
	gone := env.createClass(t, "Gone")

	_, err := env.svc.Evaluate(ctx, kept.ID, "stu-1", evaluation.NewEvaluation{Name: "Jane", Rating: 5})
	require.NoError(t, err)
	_, err = env.svc.Evaluate(ctx, gone.ID, "stu-1", evaluation.NewEvaluation{Name: "Jane", Rating: 2})
	require.NoError(t, err)

	require.NoError(t, env.catRepo.DeleteClassOffering(ctx, gone.ID))

	// reviews of a deleted class fall out of the feed entirely
	reviews, err := env.svc.ListAllReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, kept.ID, reviews[0].ClassID)
	assert.Equal(t, "Kept", reviews[0].ClassName)
	assert.Equal(t, "Jane", reviews[0].InstructorName)
	assert.Equal(t, "img.png", reviews[0].ClassImage)
}
