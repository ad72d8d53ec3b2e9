package groups

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

type RetrieveGroupOptions struct {
	ID   *int
	Name *string
}

type ListGroupsOptions struct {
	SceneID *int
}

type UpdateGroupOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateGroup(ctx context.Context, group *models.Group) error {
	now := time.Now()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(group).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("Group")
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveGroup(ctx context.Context, opts RetrieveGroupOptions) (*models.Group, error) {
	var groups []*models.Group

	q := svc.db.
		NewSelect().
		Model(&groups).
		Order("g.id ASC")

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where(`g.name LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(*opts.Name)))
	} else {
		q = q.Limit(1)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Name != nil {
		groups = textnorm.Filter(groups, *opts.Name, groupName)
	}
	if len(groups) == 0 {
		return nil, errcodes.NotFound("Group")
	}

	return groups[0], nil
}

func (svc *Service) ListGroups(ctx context.Context, opts ListGroupsOptions) ([]*models.Group, error) {
	var groups []*models.Group

	q := svc.db.
		NewSelect().
		Model(&groups).
		Order("g.id ASC")

	if opts.SceneID != nil {
		q = q.
			Join("INNER JOIN groups_scenes AS gs ON gs.group_id = g.id").
			Where("gs.scene_id = ?", *opts.SceneID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return groups, nil
}

func (svc *Service) UpdateGroup(ctx context.Context, group *models.Group, opts UpdateGroupOptions) error {
	if group.ID == 0 {
		return errcodes.Precondition("group has no id")
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	group.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(group).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Group")
	}
	return nil
}

func (svc *Service) DeleteGroup(ctx context.Context, groupID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Group)(nil)).
		Where("id = ?", groupID).
		Exec(ctx)
	return errors.WithStack(err)
}

// InsertGroupScene adds a scene to a group, leaving its position unset. It
// reports false when the scene was already in the group.
func (svc *Service) InsertGroupScene(ctx context.Context, groupID, sceneID int) (bool, error) {
	return database.InsertIfAbsent(ctx, svc.db, &models.GroupScene{GroupID: groupID, SceneID: sceneID}, "group_id, scene_id")
}

func (svc *Service) RetrieveGroupScene(ctx context.Context, groupID, sceneID int) (*models.GroupScene, error) {
	gs := &models.GroupScene{}
	err := svc.db.NewSelect().
		Model(gs).
		Where("gs.group_id = ? AND gs.scene_id = ?", groupID, sceneID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Group scene")
		}
		return nil, errors.WithStack(err)
	}
	return gs, nil
}

func (svc *Service) ListGroupScenes(ctx context.Context, sceneID int) ([]*models.GroupScene, error) {
	var gss []*models.GroupScene
	err := svc.db.NewSelect().
		Model(&gss).
		Where("gs.scene_id = ?", sceneID).
		Order("gs.group_id ASC").
		Scan(ctx)
	return gss, errors.WithStack(err)
}

func (svc *Service) RemoveGroupScene(ctx context.Context, groupID, sceneID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.GroupScene)(nil)).
		Where("group_id = ? AND scene_id = ?", groupID, sceneID).
		Exec(ctx)
	return errors.WithStack(err)
}

func groupName(group *models.Group) string {
	return group.Name
}
