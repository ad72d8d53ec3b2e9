// Package testutils builds migrated in-memory catalogs and seeds them with the
// rows a scanner would normally have written before reconciliation runs.
package testutils

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shishobooks/stashsync/pkg/migrations"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// NewTestDB opens a fresh in-memory catalog with foreign keys enforced. The
// pool is pinned to one connection since every connection to ":memory:" is a
// separate database.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SceneFixture describes a scanned media file and the scene built from it.
type SceneFixture struct {
	FolderPath string
	Basename   string
	Title      string
}

// CatalogedScene holds the rows written by SeedScene.
type CatalogedScene struct {
	Folder *models.Folder
	File   *models.File
	Scene  *models.Scene
}

// SeedScene writes a folder, a file inside it, a scene and the primary
// scenes_files link between them. A folder with the same path is reused.
func SeedScene(t *testing.T, db bun.IDB, fx SceneFixture) *CatalogedScene {
	t.Helper()
	ctx := context.Background()

	if fx.FolderPath == "" {
		fx.FolderPath = "/library"
	}
	folder := SeedFolder(t, db, fx.FolderPath)

	now := time.Now()
	file := &models.File{
		CreatedAt:      now,
		UpdatedAt:      now,
		Basename:       fx.Basename,
		ParentFolderID: folder.ID,
		Size:           1024,
		ModTime:        now,
	}
	_, err := db.NewInsert().Model(file).Returning("*").Exec(ctx)
	require.NoError(t, err)

	scene := &models.Scene{CreatedAt: now, UpdatedAt: now}
	if fx.Title != "" {
		title := fx.Title
		scene.Title = &title
	}
	_, err = db.NewInsert().Model(scene).Returning("*").Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&models.SceneFile{SceneID: scene.ID, FileID: file.ID, Primary: true}).Exec(ctx)
	require.NoError(t, err)

	return &CatalogedScene{Folder: folder, File: file, Scene: scene}
}

// SeedFolder returns the folder at path, creating it when missing.
func SeedFolder(t *testing.T, db bun.IDB, path string) *models.Folder {
	t.Helper()
	ctx := context.Background()
	path = filepath.Clean(path)

	folder := &models.Folder{}
	err := db.NewSelect().Model(folder).Where("fo.path = ?", path).Scan(ctx)
	if err == nil {
		return folder
	}
	require.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now()
	folder = &models.Folder{CreatedAt: now, UpdatedAt: now, Path: path}
	_, err = db.NewInsert().Model(folder).Returning("*").Exec(ctx)
	require.NoError(t, err)
	return folder
}

// SeedGallery writes a folder-backed gallery, the way Stash records an image
// directory next to a title.
func SeedGallery(t *testing.T, db bun.IDB, folderPath string) *models.Gallery {
	t.Helper()

	folder := SeedFolder(t, db, folderPath)
	now := time.Now()
	gallery := &models.Gallery{CreatedAt: now, UpdatedAt: now, FolderID: &folder.ID}
	_, err := db.NewInsert().Model(gallery).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return gallery
}
