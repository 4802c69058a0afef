package fs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/dao"
	"github.com/viant/hourly/service/dao/developer"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	srv, err := developer.NewFS("mem://localhost/hourly/fs_store_test/developers")
	require.NoError(t, err)

	list, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, srv.Save(ctx, &model.Developer{ID: 2, Name: "B", HoursAvailable: 5}))
	require.NoError(t, srv.Save(ctx, &model.Developer{ID: 1, Name: "A", HoursAvailable: 10}))

	loaded, err := srv.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, &model.Developer{ID: 2, Name: "B", HoursAvailable: 5}, loaded)

	list, err = srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 2, list[1].ID)

	filtered, err := srv.List(ctx, dao.NewParameter("Name", "B"))
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	require.NoError(t, srv.Delete(ctx, 2))
	_, err = srv.Load(ctx, 2)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, srv.Delete(ctx, 2), dao.ErrNotFound)
}
