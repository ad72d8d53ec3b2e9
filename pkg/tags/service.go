package tags

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

type RetrieveTagOptions struct {
	ID   *int
	Name *string
}

type ListTagsOptions struct {
	SceneID *int
	Limit   *int
	Offset  *int
}

type UpdateTagOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateTag(ctx context.Context, tag *models.Tag) error {
	now := time.Now()
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = now
	}
	tag.UpdatedAt = tag.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(tag).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("Tag")
	}
	return errors.WithStack(err)
}

// RetrieveTag looks a tag up by id or by name. Both the stored and the given
// name are normalized and compared ignoring case; with several matches the
// oldest row wins.
func (svc *Service) RetrieveTag(ctx context.Context, opts RetrieveTagOptions) (*models.Tag, error) {
	var tags []*models.Tag

	q := svc.db.
		NewSelect().
		Model(&tags).
		Order("t.id ASC")

	if opts.ID != nil {
		q = q.Where("t.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where(`t.name LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(*opts.Name)))
	} else {
		q = q.Limit(1)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Name != nil {
		tags = textnorm.Filter(tags, *opts.Name, tagName)
	}
	if len(tags) == 0 {
		return nil, errcodes.NotFound("Tag")
	}

	return tags[0], nil
}

func (svc *Service) ListTags(ctx context.Context, opts ListTagsOptions) ([]*models.Tag, error) {
	var tags []*models.Tag

	q := svc.db.
		NewSelect().
		Model(&tags).
		Order("t.id ASC")

	if opts.SceneID != nil {
		q = q.
			Join("INNER JOIN scenes_tags AS stg ON stg.tag_id = t.id").
			Where("stg.scene_id = ?", *opts.SceneID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tags, nil
}

func (svc *Service) UpdateTag(ctx context.Context, tag *models.Tag, opts UpdateTagOptions) error {
	if tag.ID == 0 {
		return errcodes.Precondition("tag has no id")
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	tag.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(tag).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.IntegrityConflict("Tag")
		}
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Tag")
	}
	return nil
}

// DeleteTag deletes a tag. Its scene links go with it through the foreign
// key cascade.
func (svc *Service) DeleteTag(ctx context.Context, tagID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Tag)(nil)).
		Where("id = ?", tagID).
		Exec(ctx)
	return errors.WithStack(err)
}

// InsertSceneTag links a tag to a scene. It reports false when the link
// already existed.
func (svc *Service) InsertSceneTag(ctx context.Context, sceneID, tagID int) (bool, error) {
	return database.InsertIfAbsent(ctx, svc.db, &models.SceneTag{SceneID: sceneID, TagID: tagID}, "scene_id, tag_id")
}

func (svc *Service) RetrieveSceneTag(ctx context.Context, sceneID, tagID int) (*models.SceneTag, error) {
	st := &models.SceneTag{}
	err := svc.db.NewSelect().
		Model(st).
		Where("stg.scene_id = ? AND stg.tag_id = ?", sceneID, tagID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scene tag")
		}
		return nil, errors.WithStack(err)
	}
	return st, nil
}

func (svc *Service) ListSceneTags(ctx context.Context, sceneID int) ([]*models.SceneTag, error) {
	var sts []*models.SceneTag
	err := svc.db.NewSelect().
		Model(&sts).
		Relation("Tag").
		Where("stg.scene_id = ?", sceneID).
		Order("stg.tag_id ASC").
		Scan(ctx)
	return sts, errors.WithStack(err)
}

func (svc *Service) RemoveSceneTag(ctx context.Context, sceneID, tagID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.SceneTag)(nil)).
		Where("scene_id = ? AND tag_id = ?", sceneID, tagID).
		Exec(ctx)
	return errors.WithStack(err)
}

func tagName(tag *models.Tag) string {
	return tag.Name
}
