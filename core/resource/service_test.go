package resource_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-playground/validator/v10"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/resource"
	dummydb "github.com/learnifyhq/learnify/storage/database/dummy"
)

func setup(t *testing.T) *resource.Service {
	db, err := dummydb.Open()
	require.NoError(t, err)
	return resource.NewService(dummydb.NewResourceRepository(db))
}

func TestNewResource_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)

	tests := []struct {
		name     string
		nr       resource.NewResource
		wantErr  bool
		wantType string
	}{
		{name: "missing title", nr: resource.NewResource{URL: "https://x.cd/a.pdf"}, wantErr: true},
		{name: "missing url", nr: resource.NewResource{Title: "Notes"}, wantErr: true},
		{name: "bad url", nr: resource.NewResource{Title: "Notes", URL: "not-a-url"}, wantErr: true},
		{name: "bad type", nr: resource.NewResource{Title: "Notes", URL: "https://x.cd/a.pdf", Type: "torrent"}, wantErr: true},
		{name: "type defaults to link", nr: resource.NewResource{Title: "Notes", URL: "https://x.cd/a.pdf"}, wantType: resource.TypeLink},
		{name: "explicit type", nr: resource.NewResource{Title: "Notes", URL: "https://x.cd/a.pdf", Type: "Video"}, wantType: resource.TypeVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nr.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, tt.nr.Type)
		})
	}
}

func TestService(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	res1, err := svc.Add(ctx, "class-1", resource.NewResource{Title: "Notes", URL: "https://x.cd/a.pdf", Type: resource.TypeDocument})
	require.NoError(t, err)
	res2, err := svc.Add(ctx, "class-1", resource.NewResource{Title: "Intro video", URL: "https://x.cd/v.mp4", Type: resource.TypeVideo})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "class-2", resource.NewResource{Title: "Other", URL: "https://x.cd/b.pdf"})
	require.NoError(t, err)

	list, err := svc.ListByClass(ctx, "class-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, res2.ID, list[0].ID)
	assert.Equal(t, res1.ID, list[1].ID)

	require.NoError(t, svc.Delete(ctx, res1.ID))
	assert.Equal(t, resource.ErrNotFound, svc.Delete(ctx, res1.ID))

	list, err = svc.ListByClass(ctx, "class-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
