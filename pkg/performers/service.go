package performers

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/textnorm"
	"github.com/uptrace/bun"
)

type RetrievePerformerOptions struct {
	ID   *int
	Name *string
}

type ListPerformersOptions struct {
	SceneID *int
	Name    *string
}

type UpdatePerformerOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreatePerformer(ctx context.Context, performer *models.Performer) error {
	now := time.Now()
	if performer.CreatedAt.IsZero() {
		performer.CreatedAt = now
	}
	performer.UpdatedAt = performer.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(performer).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("Performer")
	}
	return errors.WithStack(err)
}

// RetrievePerformer looks a performer up by id or name. Performer names are
// not unique in the catalog, so a name lookup returns the lowest id.
func (svc *Service) RetrievePerformer(ctx context.Context, opts RetrievePerformerOptions) (*models.Performer, error) {
	var performers []*models.Performer

	q := svc.db.
		NewSelect().
		Model(&performers).
		Order("p.id ASC")

	if opts.ID != nil {
		q = q.Where("p.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where(`p.name LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(*opts.Name)))
	} else {
		q = q.Limit(1)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Name != nil {
		performers = textnorm.Filter(performers, *opts.Name, performerName)
	}
	if len(performers) == 0 {
		return nil, errcodes.NotFound("Performer")
	}

	return performers[0], nil
}

func (svc *Service) ListPerformers(ctx context.Context, opts ListPerformersOptions) ([]*models.Performer, error) {
	var performers []*models.Performer

	q := svc.db.
		NewSelect().
		Model(&performers).
		Order("p.id ASC")

	if opts.SceneID != nil {
		q = q.
			Join("INNER JOIN performers_scenes AS ps ON ps.performer_id = p.id").
			Where("ps.scene_id = ?", *opts.SceneID)
	}
	if opts.Name != nil {
		q = q.Where(`p.name LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(*opts.Name)))
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Name != nil {
		performers = textnorm.Filter(performers, *opts.Name, performerName)
	}
	return performers, nil
}

func (svc *Service) UpdatePerformer(ctx context.Context, performer *models.Performer, opts UpdatePerformerOptions) error {
	if performer.ID == 0 {
		return errcodes.Precondition("performer has no id")
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	performer.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(performer).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Performer")
	}
	return nil
}

func (svc *Service) DeletePerformer(ctx context.Context, performerID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Performer)(nil)).
		Where("id = ?", performerID).
		Exec(ctx)
	return errors.WithStack(err)
}

// InsertScenePerformer links a performer to a scene. It reports false when
// the link already existed.
func (svc *Service) InsertScenePerformer(ctx context.Context, sceneID, performerID int) (bool, error) {
	return database.InsertIfAbsent(ctx, svc.db, &models.ScenePerformer{PerformerID: performerID, SceneID: sceneID}, "scene_id, performer_id")
}

func (svc *Service) RetrieveScenePerformer(ctx context.Context, sceneID, performerID int) (*models.ScenePerformer, error) {
	sp := &models.ScenePerformer{}
	err := svc.db.NewSelect().
		Model(sp).
		Where("ps.scene_id = ? AND ps.performer_id = ?", sceneID, performerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scene performer")
		}
		return nil, errors.WithStack(err)
	}
	return sp, nil
}

func (svc *Service) ListScenePerformers(ctx context.Context, sceneID int) ([]*models.ScenePerformer, error) {
	var sps []*models.ScenePerformer
	err := svc.db.NewSelect().
		Model(&sps).
		Relation("Performer").
		Where("ps.scene_id = ?", sceneID).
		Order("ps.performer_id ASC").
		Scan(ctx)
	return sps, errors.WithStack(err)
}

func (svc *Service) RemoveScenePerformer(ctx context.Context, sceneID, performerID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.ScenePerformer)(nil)).
		Where("scene_id = ? AND performer_id = ?", sceneID, performerID).
		Exec(ctx)
	return errors.WithStack(err)
}

func performerName(performer *models.Performer) string {
	return performer.Name
}
