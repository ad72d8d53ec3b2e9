package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// The catalog tables mirror the subset of the Stash schema the reconciler
// reads and writes. Only natural keys that Stash itself keeps unique (studio
// and tag names) get a unique index.
func init() {
	up := func(_ context.Context, db *bun.DB) error {
		statements := []string{
			`CREATE TABLE blobs (
				checksum VARCHAR(255) NOT NULL PRIMARY KEY,
				blob BLOB
			)`,
			`CREATE TABLE folders (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				path VARCHAR(255) NOT NULL,
				parent_folder_id INTEGER REFERENCES folders (id) ON DELETE SET NULL,
				mod_time TIMESTAMPTZ
			)`,
			`CREATE UNIQUE INDEX ux_folders_path ON folders (path)`,
			`CREATE TABLE files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				basename VARCHAR(255) NOT NULL,
				parent_folder_id INTEGER NOT NULL REFERENCES folders (id),
				size INTEGER NOT NULL DEFAULT 0,
				mod_time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				CHECK (basename != '')
			)`,
			`CREATE UNIQUE INDEX ux_files_parent_folder_id_basename ON files (parent_folder_id, basename)`,
			`CREATE INDEX ix_files_basename ON files (basename)`,
			`CREATE TABLE studios (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL,
				parent_id INTEGER REFERENCES studios (id) ON DELETE SET NULL
			)`,
			`CREATE UNIQUE INDEX ux_studios_name ON studios (name COLLATE NOCASE)`,
			`CREATE TABLE tags (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL
			)`,
			`CREATE UNIQUE INDEX ux_tags_name ON tags (name COLLATE NOCASE)`,
			`CREATE TABLE performers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL
			)`,
			`CREATE INDEX ix_performers_name ON performers (name COLLATE NOCASE)`,
			`CREATE TABLE "groups" (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL
			)`,
			`CREATE INDEX ix_groups_name ON "groups" (name COLLATE NOCASE)`,
			`CREATE TABLE scenes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title VARCHAR(255),
				details TEXT,
				date DATE,
				rating TINYINT,
				studio_id INTEGER REFERENCES studios (id) ON DELETE SET NULL,
				organized BOOLEAN NOT NULL DEFAULT FALSE,
				code TEXT,
				director TEXT,
				cover_blob VARCHAR(255) REFERENCES blobs (checksum)
			)`,
			`CREATE INDEX ix_scenes_studio_id ON scenes (studio_id)`,
			`CREATE TABLE galleries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				folder_id INTEGER REFERENCES folders (id) ON DELETE SET NULL,
				title VARCHAR(255)
			)`,
			`CREATE INDEX ix_galleries_folder_id ON galleries (folder_id)`,
			`CREATE TABLE scenes_files (
				scene_id INTEGER NOT NULL REFERENCES scenes (id) ON DELETE CASCADE,
				file_id INTEGER NOT NULL REFERENCES files (id) ON DELETE CASCADE,
				"primary" BOOLEAN NOT NULL DEFAULT FALSE,
				PRIMARY KEY (scene_id, file_id)
			)`,
			`CREATE INDEX ix_scenes_files_file_id ON scenes_files (file_id)`,
			`CREATE TABLE scenes_tags (
				scene_id INTEGER NOT NULL REFERENCES scenes (id) ON DELETE CASCADE,
				tag_id INTEGER NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
				PRIMARY KEY (scene_id, tag_id)
			)`,
			`CREATE INDEX ix_scenes_tags_tag_id ON scenes_tags (tag_id)`,
			`CREATE TABLE performers_scenes (
				performer_id INTEGER NOT NULL REFERENCES performers (id) ON DELETE CASCADE,
				scene_id INTEGER NOT NULL REFERENCES scenes (id) ON DELETE CASCADE,
				PRIMARY KEY (scene_id, performer_id)
			)`,
			`CREATE INDEX ix_performers_scenes_performer_id ON performers_scenes (performer_id)`,
			`CREATE TABLE groups_scenes (
				group_id INTEGER NOT NULL REFERENCES "groups" (id) ON DELETE CASCADE,
				scene_id INTEGER NOT NULL REFERENCES scenes (id) ON DELETE CASCADE,
				scene_index INTEGER,
				PRIMARY KEY (group_id, scene_id)
			)`,
			`CREATE INDEX ix_groups_scenes_scene_id ON groups_scenes (scene_id)`,
			`CREATE TABLE scenes_galleries (
				scene_id INTEGER NOT NULL REFERENCES scenes (id) ON DELETE CASCADE,
				gallery_id INTEGER NOT NULL REFERENCES galleries (id) ON DELETE CASCADE,
				PRIMARY KEY (scene_id, gallery_id)
			)`,
			`CREATE INDEX ix_scenes_galleries_gallery_id ON scenes_galleries (gallery_id)`,
		}
		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"scenes_galleries",
			"groups_scenes",
			"performers_scenes",
			"scenes_tags",
			"scenes_files",
			"galleries",
			"scenes",
			`"groups"`,
			"performers",
			"tags",
			"studios",
			"files",
			"folders",
			"blobs",
		}
		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
