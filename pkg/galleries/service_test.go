package galleries

import (
	"context"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFolders_PathSuffix(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := testutils.SeedFolder(t, db, "/library/ABC-123/fanart#abc-123")
	testutils.SeedFolder(t, db, "/library/ABC-1234/fanart#ABC-1234")
	second := testutils.SeedFolder(t, db, "/mirror/fanart#ABC-123")
	testutils.SeedFolder(t, db, "/library/fanartXABC-123")

	folders, err := svc.ListFolders(ctx, ListFoldersOptions{PathSuffix: pointerutil.String("fanart#ABC-123")})
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, first.ID, folders[0].ID)
	assert.Equal(t, second.ID, folders[1].ID)

	folders, err = svc.ListFolders(ctx, ListFoldersOptions{PathSuffix: pointerutil.String("fanart#ABC_123")})
	require.NoError(t, err)
	assert.Empty(t, folders, "underscore is literal")
}

func TestSceneGalleries(t *testing.T) {
	db := testutils.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seeded := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: "ABC-123.mp4"})
	gallery := testutils.SeedGallery(t, db, "/library/fanart#ABC-123")
	testutils.SeedGallery(t, db, "/library/fanart#ABC-123")

	first, err := svc.RetrieveGallery(ctx, RetrieveGalleryOptions{FolderID: gallery.FolderID})
	require.NoError(t, err)
	assert.Equal(t, gallery.ID, first.ID)

	inserted, err := svc.InsertSceneGallery(ctx, seeded.Scene.ID, gallery.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = svc.InsertSceneGallery(ctx, seeded.Scene.ID, gallery.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	linked, err := svc.ListGalleries(ctx, ListGalleriesOptions{SceneID: &seeded.Scene.ID})
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, gallery.ID, linked[0].ID)

	require.NoError(t, svc.RemoveSceneGallery(ctx, seeded.Scene.ID, gallery.ID))
	_, err = svc.RetrieveSceneGallery(ctx, seeded.Scene.ID, gallery.ID)
	assert.True(t, errcodes.IsNotFound(err))

	_, err = svc.RetrieveGallery(ctx, RetrieveGalleryOptions{FolderID: &seeded.Folder.ID})
	assert.True(t, errcodes.IsNotFound(err))
}
