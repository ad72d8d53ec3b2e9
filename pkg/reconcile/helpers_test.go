package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/blobstore"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/nfo"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const fullNFO = `<?xml version="1.0" encoding="UTF-8"?>
<movie>
  <title>The Long Night</title>
  <uniqueid type="num" default="true">ABC-123</uniqueid>
  <genre>Drama</genre>
  <genre>Thriller</genre>
  <premiered>2021-03-04</premiered>
  <studio>ACME </studio>
  <actor><name>Jane Doe</name></actor>
  <actor><name>John Roe</name></actor>
  <director>John Smith</director>
  <set><name>Night Series</name></set>
</movie>`

var pngHeader = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00,
}

// titleFolder lays out a title folder the way a scraper leaves it: sidecar,
// cover and media file.
func titleFolder(t *testing.T, sidecar string, withCover bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movie.nfo"), []byte(sidecar), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ABC-123.mp4"), []byte("media"), 0644))
	if withCover {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "poster.jpg"), append(pngHeader, []byte("cover")...), 0644))
	}
	return dir
}

func parseMovie(t *testing.T, folder string) *nfo.Movie {
	t.Helper()
	movie, err := nfo.NewParser().Parse(context.Background(), filepath.Join(folder, "movie.nfo"))
	require.NoError(t, err)
	return movie
}

func newEngine(t *testing.T) (*Engine, *blobstore.Store) {
	t.Helper()
	store := blobstore.New(t.TempDir())
	return New(store, Options{}), store
}

func testContext() context.Context {
	return logger.New().WithContext(context.Background())
}

func count(t *testing.T, db *bun.DB, model interface{}) int {
	t.Helper()
	n, err := db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func reloadScene(t *testing.T, db *bun.DB, id int) *models.Scene {
	t.Helper()
	scene := &models.Scene{}
	require.NoError(t, db.NewSelect().Model(scene).Where("s.id = ?", id).Scan(context.Background()))
	return scene
}
