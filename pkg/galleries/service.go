package galleries

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/database"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/uptrace/bun"
)

type ListFoldersOptions struct {
	// PathSuffix matches folders whose path ends with it, ignoring case.
	PathSuffix *string
	Limit      *int
}

type RetrieveGalleryOptions struct {
	ID       *int
	FolderID *int
}

type ListGalleriesOptions struct {
	FolderID *int
	SceneID  *int
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateFolder(ctx context.Context, folder *models.Folder) error {
	now := time.Now()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	folder.UpdatedAt = folder.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(folder).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.IntegrityConflict("Folder")
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveFolder(ctx context.Context, folderID int) (*models.Folder, error) {
	folder := &models.Folder{}
	err := svc.db.NewSelect().
		Model(folder).
		Where("fo.id = ?", folderID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Folder")
		}
		return nil, errors.WithStack(err)
	}
	return folder, nil
}

// ListFolders returns folders ordered by id, so the first element is the
// oldest match.
func (svc *Service) ListFolders(ctx context.Context, opts ListFoldersOptions) ([]*models.Folder, error) {
	var folders []*models.Folder

	q := svc.db.
		NewSelect().
		Model(&folders).
		Order("fo.id ASC")

	if opts.PathSuffix != nil {
		q = q.Where(`fo.path LIKE ? ESCAPE '\'`, database.SuffixPattern(*opts.PathSuffix))
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return folders, nil
}

func (svc *Service) CreateGallery(ctx context.Context, gallery *models.Gallery) error {
	now := time.Now()
	if gallery.CreatedAt.IsZero() {
		gallery.CreatedAt = now
	}
	gallery.UpdatedAt = gallery.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(gallery).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveGallery(ctx context.Context, opts RetrieveGalleryOptions) (*models.Gallery, error) {
	gallery := &models.Gallery{}

	q := svc.db.
		NewSelect().
		Model(gallery).
		Order("ga.id ASC").
		Limit(1)

	if opts.ID != nil {
		q = q.Where("ga.id = ?", *opts.ID)
	}
	if opts.FolderID != nil {
		q = q.Where("ga.folder_id = ?", *opts.FolderID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Gallery")
		}
		return nil, errors.WithStack(err)
	}

	return gallery, nil
}

func (svc *Service) ListGalleries(ctx context.Context, opts ListGalleriesOptions) ([]*models.Gallery, error) {
	var galleries []*models.Gallery

	q := svc.db.
		NewSelect().
		Model(&galleries).
		Order("ga.id ASC")

	if opts.FolderID != nil {
		q = q.Where("ga.folder_id = ?", *opts.FolderID)
	}
	if opts.SceneID != nil {
		q = q.
			Join("INNER JOIN scenes_galleries AS sg ON sg.gallery_id = ga.id").
			Where("sg.scene_id = ?", *opts.SceneID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return galleries, nil
}

// InsertSceneGallery links a gallery to a scene. It reports false when the
// link already existed.
func (svc *Service) InsertSceneGallery(ctx context.Context, sceneID, galleryID int) (bool, error) {
	return database.InsertIfAbsent(ctx, svc.db, &models.SceneGallery{SceneID: sceneID, GalleryID: galleryID}, "scene_id, gallery_id")
}

func (svc *Service) RetrieveSceneGallery(ctx context.Context, sceneID, galleryID int) (*models.SceneGallery, error) {
	sg := &models.SceneGallery{}
	err := svc.db.NewSelect().
		Model(sg).
		Where("sg.scene_id = ? AND sg.gallery_id = ?", sceneID, galleryID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scene gallery")
		}
		return nil, errors.WithStack(err)
	}
	return sg, nil
}

func (svc *Service) ListSceneGalleries(ctx context.Context, sceneID int) ([]*models.SceneGallery, error) {
	var sgs []*models.SceneGallery
	err := svc.db.NewSelect().
		Model(&sgs).
		Where("sg.scene_id = ?", sceneID).
		Order("sg.gallery_id ASC").
		Scan(ctx)
	return sgs, errors.WithStack(err)
}

func (svc *Service) RemoveSceneGallery(ctx context.Context, sceneID, galleryID int) error {
	_, err := svc.db.NewDelete().
		Model((*models.SceneGallery)(nil)).
		Where("scene_id = ? AND gallery_id = ?", sceneID, galleryID).
		Exec(ctx)
	return errors.WithStack(err)
}
