package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/nfo"
	"github.com/shishobooks/stashsync/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newProcessor(t *testing.T, db *bun.DB) *Processor {
	t.Helper()
	engine, _ := newEngine(t)
	return NewProcessor(db, engine, nfo.NewParser(), ProcessorOptions{}, logger.New())
}

func TestFindMediaFile(t *testing.T) {
	dir := titleFolder(t, fullNFO, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ABC-123.srt"), []byte("subs"), 0644))

	path, err := FindMediaFile(dir, "ABC-123", []string{".mp4", ".mkv"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ABC-123.mp4"), path)

	_, err = FindMediaFile(dir, "XYZ-999", []string{".mp4"})
	assert.True(t, errcodes.IsNotFound(err))
}

func TestLocateScene(t *testing.T) {
	db := testutils.NewTestDB(t)
	ctx := context.Background()
	seeded := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: "ABC-123.mp4", Title: "Seeded"})
	gw := gateway.New(db, logger.New())

	t.Run("found", func(t *testing.T) {
		scene, err := LocateScene(ctx, gw, "ABC-123.mp4")
		require.NoError(t, err)
		assert.Equal(t, seeded.Scene.ID, scene.ID)
		assert.Equal(t, "Seeded", *scene.Title)
	})

	t.Run("stored basename not normalized", func(t *testing.T) {
		for _, basename := range []string{"ABC-123  The Long Night.mp4", "ABF-193 \u3075\u3099.mp4"} {
			other := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: basename})
			scene, err := LocateScene(ctx, gw, basename)
			require.NoError(t, err, basename)
			assert.Equal(t, other.Scene.ID, scene.ID, basename)
		}
	})

	t.Run("file not cataloged", func(t *testing.T) {
		_, err := LocateScene(ctx, gw, "XYZ-999.mp4")
		assert.True(t, errcodes.IsNotFound(err))
	})

	t.Run("file without scene", func(t *testing.T) {
		orphan := &models.File{Basename: "orphan.mp4", ParentFolderID: seeded.Folder.ID}
		require.NoError(t, gw.Files.CreateFile(ctx, orphan))

		_, err := LocateScene(ctx, gw, "orphan.mp4")
		assert.True(t, errcodes.IsNotFound(err))
	})
}

func TestProcessFolder(t *testing.T) {
	db := testutils.NewTestDB(t)
	folder := titleFolder(t, fullNFO, true)
	seeded := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: "ABC-123.mp4"})
	testutils.SeedGallery(t, db, "/library/fanart#ABC-123")

	report, err := newProcessor(t, db).ProcessFolder(context.Background(), folder)
	require.NoError(t, err)
	assert.Equal(t, seeded.Scene.ID, report.SceneID)
	assert.Len(t, report.Steps, 10)
	assert.Empty(t, report.FailedSteps())

	scene := reloadScene(t, db, seeded.Scene.ID)
	assert.Equal(t, "The Long Night", *scene.Title)
	assert.NotNil(t, scene.CoverBlob)
}

func TestProcessFolder_CommitsPartialSuccess(t *testing.T) {
	db := testutils.NewTestDB(t)
	folder := titleFolder(t, fullNFO, false)
	seeded := testutils.SeedScene(t, db, testutils.SceneFixture{Basename: "ABC-123.mp4"})

	report, err := newProcessor(t, db).ProcessFolder(context.Background(), folder)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{StepGallery, StepCover}, report.FailedSteps())

	scene := reloadScene(t, db, seeded.Scene.ID)
	assert.Equal(t, "The Long Night", *scene.Title)
	assert.Nil(t, scene.CoverBlob)
}

func TestProcessFolder_Errors(t *testing.T) {
	db := testutils.NewTestDB(t)
	p := newProcessor(t, db)
	ctx := context.Background()

	t.Run("not a folder", func(t *testing.T) {
		folder := titleFolder(t, fullNFO, true)
		_, err := p.ProcessFolder(ctx, filepath.Join(folder, "movie.nfo"))
		assert.True(t, errcodes.IsPrecondition(err))
	})

	t.Run("missing folder", func(t *testing.T) {
		_, err := p.ProcessFolder(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	})

	t.Run("missing sidecar", func(t *testing.T) {
		folder := titleFolder(t, fullNFO, true)
		require.NoError(t, os.Remove(filepath.Join(folder, "movie.nfo")))
		_, err := p.ProcessFolder(ctx, folder)
		assert.Error(t, err)
	})

	t.Run("scene not cataloged", func(t *testing.T) {
		folder := titleFolder(t, fullNFO, true)
		report, err := p.ProcessFolder(ctx, folder)
		assert.True(t, errcodes.IsNotFound(err))
		assert.Nil(t, report)
	})
}
