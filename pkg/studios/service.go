package studios

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/textnorm"
	"github.com/uptrace/bun"
)

type RetrieveStudioOptions struct {
	ID   *int
	Name *string
}

type ListStudiosOptions struct {
	ParentID *int
	Limit    *int
	Offset   *int
}

type UpdateStudioOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateStudio(ctx context.Context, studio *models.Studio) error {
	now := time.Now()
	if studio.CreatedAt.IsZero() {
		studio.CreatedAt = now
	}
	studio.UpdatedAt = studio.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(studio).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("Studio")
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveStudio(ctx context.Context, opts RetrieveStudioOptions) (*models.Studio, error) {
	var studios []*models.Studio

	q := svc.db.
		NewSelect().
		Model(&studios).
		Order("st.id ASC")

	if opts.ID != nil {
		q = q.Where("st.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where(`st.name LIKE ? ESCAPE '\'`, database.ContainsPattern(textnorm.Fragment(*opts.Name)))
	} else {
		q = q.Limit(1)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Name != nil {
		studios = textnorm.Filter(studios, *opts.Name, studioName)
	}
	if len(studios) == 0 {
		return nil, errcodes.NotFound("Studio")
	}

	return studios[0], nil
}

func (svc *Service) ListStudios(ctx context.Context, opts ListStudiosOptions) ([]*models.Studio, error) {
	var studios []*models.Studio

	q := svc.db.
		NewSelect().
		Model(&studios).
		Order("st.id ASC")

	if opts.ParentID != nil {
		q = q.Where("st.parent_id = ?", *opts.ParentID)
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

	return studios, nil
}

func (svc *Service) UpdateStudio(ctx context.Context, studio *models.Studio, opts UpdateStudioOptions) error {
	if studio.ID == 0 {
		return errcodes.Precondition("studio has no id")
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	studio.UpdatedAt = time.Now()
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.
		NewUpdate().
		Model(studio).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.IntegrityConflict("Studio")
		}
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Studio")
	}
	return nil
}

// DeleteStudio deletes a studio. Scenes that pointed at it keep existing with
// a null studio_id.
func (svc *Service) DeleteStudio(ctx context.Context, studioID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.Studio)(nil)).
		Where("id = ?", studioID).
		Exec(ctx)
	return errors.WithStack(err)
}

func studioName(studio *models.Studio) string {
	return studio.Name
}
