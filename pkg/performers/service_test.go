package performers

import (
	"context"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievePerformer_DuplicateNamesPickLowestID(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := &models.Performer{Name: "Jane Doe"}
	second := &models.Performer{Name: "jane doe"}
	require.NoError(t, svc.CreatePerformer(ctx, first))
	require.NoError(t, svc.CreatePerformer(ctx, second))
	require.Less(t, first.ID, second.ID)

	found, err := svc.RetrievePerformer(ctx, RetrievePerformerOptions{Name: pointerutil.String("JANE   DOE")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	matches, err := svc.ListPerformers(ctx, ListPerformersOptions{Name: pointerutil.String("Jane Doe")})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestScenePerformers(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seeded := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: "ABC-123.mp4"})
	performer := &models.Performer{Name: "Jane Doe"}
	require.NoError(t, svc.CreatePerformer(ctx, performer))

	inserted, err := svc.InsertScenePerformer(ctx, seeded.Scene.ID, performer.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = svc.InsertScenePerformer(ctx, seeded.Scene.ID, performer.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	links, err := svc.ListScenePerformers(ctx, seeded.Scene.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Jane Doe", links[0].Performer.Name)

	onScene, err := svc.ListPerformers(ctx, ListPerformersOptions{SceneID: &seeded.Scene.ID})
	require.NoError(t, err)
	assert.Len(t, onScene, 1)

	_, err = svc.RetrieveScenePerformer(ctx, seeded.Scene.ID, performer.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePerformer(ctx, performer.ID))
	_, err = svc.RetrieveScenePerformer(ctx, seeded.Scene.ID, performer.ID)
	assert.True(t, errcodes.IsNotFound(err))
}

func TestUpdatePerformer_RequiresID(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)

	err := svc.UpdatePerformer(context.Background(), &models.Performer{Name: "x"}, UpdatePerformerOptions{Columns: []string{"name"}})
	assert.True(t, errcodes.IsPrecondition(err))
}

func TestListPerformers_ByNameNormalizesStoredNames(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := &models.Performer{Name: "Jane  Doe"}
	second := &models.Performer{Name: "jane doe"}
	require.NoError(t, svc.CreatePerformer(ctx, first))
	require.NoError(t, svc.CreatePerformer(ctx, second))
	require.NoError(t, svc.CreatePerformer(ctx, &models.Performer{Name: "Jane Doerr"}))

	list, err := svc.ListPerformers(ctx, ListPerformersOptions{Name: pointerutil.String("Jane Doe")})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	found, err := svc.RetrievePerformer(ctx, RetrievePerformerOptions{Name: pointerutil.String("JANE DOE")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}
