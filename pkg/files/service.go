package files

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/textnorm"
	"github.com/uptrace/bun"
)

type RetrieveFileOptions struct {
	ID       *int
	Basename *string
}

type ListFilesOptions struct {
	Basename       *string
	ParentFolderID *int
}

type ListSceneFilesOptions struct {
	SceneID *int
	FileID  *int
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateFile(ctx context.Context, file *models.File) error {
	now := time.Now()
	if file.CreatedAt.IsZero() {
		file.CreatedAt = now
	}
	file.UpdatedAt = file.CreatedAt
	if file.ModTime.IsZero() {
		file.ModTime = now
	}

	_, err := svc.db.
		NewInsert().
		Model(file).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("File")
	}
	return errors.WithStack(err)
}

// RetrieveFile looks a file up by id or basename. A basename matches the
// stored one exactly or, failing that, after normalizing both; the same
// basename can exist in several folders and the oldest row wins.
func (svc *Service) RetrieveFile(ctx context.Context, opts RetrieveFileOptions) (*models.File, error) {
	file := &models.File{}

	q := svc.db.
		NewSelect().
		Model(file).
		Order("f.id ASC").
		Limit(1)

	if opts.ID != nil {
		q = q.Where("f.id = ?", *opts.ID)
	}
	if opts.Basename != nil {
		q = q.Where("f.basename = ?", *opts.Basename)
	}

	err := q.Scan(ctx)
	if err == nil {
		return file, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}
	if opts.Basename == nil {
		return nil, errcodes.NotFound("File")
	}

	candidates, err := svc.listFilesByBasename(ctx, *opts.Basename, func(q *bun.SelectQuery) *bun.SelectQuery {
		if opts.ID != nil {
			q = q.Where("f.id = ?", *opts.ID)
		}
		return q
	})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, errcodes.NotFound("File")
	}
	return candidates[0], nil
}

func (svc *Service) ListFiles(ctx context.Context, opts ListFilesOptions) ([]*models.File, error) {
	scope := func(q *bun.SelectQuery) *bun.SelectQuery {
		if opts.ParentFolderID != nil {
			q = q.Where("f.parent_folder_id = ?", *opts.ParentFolderID)
		}
		return q
	}
	if opts.Basename != nil {
		return svc.listFilesByBasename(ctx, *opts.Basename, scope)
	}

	var files []*models.File
	err := scope(svc.db.NewSelect().Model(&files).Order("f.id ASC")).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return files, nil
}

// listFilesByBasename returns the files whose basename normalizes to the
// same value as basename. Case is significant.
func (svc *Service) listFilesByBasename(ctx context.Context, basename string, scope func(*bun.SelectQuery) *bun.SelectQuery) ([]*models.File, error) {
	var files []*models.File

	q := svc.db.
		NewSelect().
		Model(&files).
		Where(`f.basename LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(basename))).
		Order("f.id ASC")

	err := scope(q).Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var out []*models.File
	for _, f := range files {
		if textnorm.Same(f.Basename, basename) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (svc *Service) DeleteFile(ctx context.Context, fileID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.File)(nil)).
		Where("id = ?", fileID).
		Exec(ctx)
	return errors.WithStack(err)
}

// InsertSceneFile associates a file with a scene. It reports false when the
// association already existed.
func (svc *Service) InsertSceneFile(ctx context.Context, sf *models.SceneFile) (bool, error) {
	return database.InsertIfAbsent(ctx, svc.db, sf, "scene_id, file_id")
}

// RetrieveSceneFile returns the association for a file, preferring the one
// where it is the scene's primary file.
func (svc *Service) RetrieveSceneFile(ctx context.Context, fileID int) (*models.SceneFile, error) {
	sf := &models.SceneFile{}
	err := svc.db.NewSelect().
		Model(sf).
		Where("sf.file_id = ?", fileID).
		OrderExpr(`sf."primary" DESC, sf.scene_id ASC`).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scene file")
		}
		return nil, errors.WithStack(err)
	}
	return sf, nil
}

func (svc *Service) ListSceneFiles(ctx context.Context, opts ListSceneFilesOptions) ([]*models.SceneFile, error) {
	var sfs []*models.SceneFile

	q := svc.db.
		NewSelect().
		Model(&sfs).
		Relation("File").
		Order("sf.scene_id ASC", "sf.file_id ASC")

	if opts.SceneID != nil {
		q = q.Where("sf.scene_id = ?", *opts.SceneID)
	}
	if opts.FileID != nil {
		q = q.Where("sf.file_id = ?", *opts.FileID)
	}

	err := q.Scan(ctx)
	return sfs, errors.WithStack(err)
}

func (svc *Service) RemoveSceneFile(ctx context.Context, sceneID, fileID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.SceneFile)(nil)).
		Where("scene_id = ? AND file_id = ?", sceneID, fileID).
		Exec(ctx)
	return errors.WithStack(err)
}
