package scenes

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveSceneOptions struct {
	ID     *int
	FileID *int
}

type ListScenesOptions struct {
	StudioID *int
	Code     *string
}

type UpdateSceneOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateScene(ctx context.Context, scene *models.Scene) error {
	now := time.Now()
	if scene.CreatedAt.IsZero() {
		scene.CreatedAt = now
	}
	scene.UpdatedAt = scene.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(scene).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveScene loads a scene by id, or by one of the files it was
// cataloged from.
func (svc *Service) RetrieveScene(ctx context.Context, opts RetrieveSceneOptions) (*models.Scene, error) {
	scene := &models.Scene{}

	q := svc.db.
		NewSelect().
		Model(scene).
		Order("s.id ASC").
		Limit(1)

	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.FileID != nil {
		q = q.
			Join("INNER JOIN scenes_files AS sf ON sf.scene_id = s.id").
			Where("sf.file_id = ?", *opts.FileID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scene")
		}
		return nil, errors.WithStack(err)
	}

	return scene, nil
}

func (svc *Service) ListScenes(ctx context.Context, opts ListScenesOptions) ([]*models.Scene, error) {
	var scenes []*models.Scene

	q := svc.db.
		NewSelect().
		Model(&scenes).
		Order("s.id ASC")

	if opts.StudioID != nil {
		q = q.Where("s.studio_id = ?", *opts.StudioID)
	}
	if opts.Code != nil {
		q = q.Where("s.code = ?", *opts.Code)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return scenes, nil
}

// UpdateScene writes the given columns of scene. Only existing scenes can be
// updated; the reconciler never creates one.
func (svc *Service) UpdateScene(ctx context.Context, scene *models.Scene, opts UpdateSceneOptions) error {
	if scene.ID == 0 {
		return errcodes.Precondition("scene has no id")
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	scene.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(scene).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Scene")
	}
	return nil
}

func (svc *Service) DeleteScene(ctx context.Context, sceneID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Scene)(nil)).
		Where("id = ?", sceneID).
		Exec(ctx)
	return errors.WithStack(err)
}
