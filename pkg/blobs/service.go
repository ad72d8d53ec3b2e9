package blobs

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// InsertBlob records checksum in the blobs table. Rows written here carry no
// payload; the bytes live in the blob store on disk. It reports false when
// the checksum was already recorded.
func (svc *Service) InsertBlob(ctx context.Context, checksum string) (bool, error) {
	if checksum == "" {
		return false, errcodes.Precondition("blob checksum is empty")
	}
	return database.InsertIfAbsent(ctx, svc.db, &models.Blob{Checksum: checksum}, "checksum")
}

func (svc *Service) RetrieveBlob(ctx context.Context, checksum string) (*models.Blob, error) {
	blob := &models.Blob{}
	err := svc.db.NewSelect().
		Model(blob).
		Where("b.checksum = ?", checksum).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Blob")
		}
		return nil, errors.WithStack(err)
	}
	return blob, nil
}

func (svc *Service) ListBlobs(ctx context.Context) ([]*models.Blob, error) {
	var blobs []*models.Blob
	err := svc.db.NewSelect().
		Model(&blobs).
		Order("b.checksum ASC").
		Scan(ctx)
	return blobs, errors.WithStack(err)
}

// DeleteBlob removes a blob row. It fails while a scene still points at it.
func (svc *Service) DeleteBlob(ctx context.Context, checksum string) error {
	_, err := svc.db.NewDelete().
		Model((*models.Blob)(nil)).
		Where("checksum = ?", checksum).
		Exec(ctx)
	if database.IsForeignKeyViolation(err) {
		return errcodes.Precondition("blob %s is still referenced", checksum)
	}
	return errors.WithStack(err)
}
