package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/stashsync/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "catalog.sqlite")
	return cfg
}

func TestNew_ConfiguresPragmas(t *testing.T) {
	db, err := New(newTestConfig(t), logger.New())
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	var journalMode string
	require.NoError(t, db.NewRaw("PRAGMA journal_mode").Scan(ctx, &journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.NewRaw("PRAGMA foreign_keys").Scan(ctx, &foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestNew_ConstraintErrorsAreClassified(t *testing.T) {
	db, err := New(newTestConfig(t), logger.New())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE parents (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents (id))`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO parents (name) VALUES ('a')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO parents (name) VALUES ('a')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsForeignKeyViolation(err))

	_, err = db.Exec(`INSERT INTO children (parent_id) VALUES (42)`)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: tags.name (2067)")))
	assert.False(t, IsUniqueViolation(errors.New("no such table: tags")))
}
