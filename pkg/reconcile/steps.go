package reconcile

import (
	"context"
	"path/filepath"

	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/galleries"
	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/resolver"
	"github.com/shishobooks/stashsync/pkg/scenes"
	"github.com/shishobooks/stashsync/pkg/textnorm"
)

// nullString maps a blank value to NULL so an empty descriptor field clears
// the column instead of storing "".
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func updateScene(ctx context.Context, gw *gateway.Gateway, t Target, columns ...string) error {
	return gw.Scenes.UpdateScene(ctx, t.Scene, scenes.UpdateSceneOptions{Columns: columns})
}

func (e *Engine) syncTitle(ctx context.Context, gw *gateway.Gateway, t Target) error {
	t.Scene.Title = nullString(t.Movie.Title)
	return updateScene(ctx, gw, t, "title")
}

func (e *Engine) syncDate(ctx context.Context, gw *gateway.Gateway, t Target) error {
	t.Scene.Date = nullString(t.Movie.Premiered)
	return updateScene(ctx, gw, t, "date")
}

func (e *Engine) syncCode(ctx context.Context, gw *gateway.Gateway, t Target) error {
	t.Scene.Code = nullString(t.Movie.Code())
	return updateScene(ctx, gw, t, "code")
}

func (e *Engine) syncDirector(ctx context.Context, gw *gateway.Gateway, t Target) error {
	director := t.Movie.Director
	if textnorm.Key(director) == "" {
		return fail(ReasonSkipped, "sidecar has no director")
	}
	t.Scene.Director = &director
	return updateScene(ctx, gw, t, "director")
}

func (e *Engine) syncStudio(ctx context.Context, gw *gateway.Gateway, t Target) error {
	if textnorm.Key(t.Movie.Studio) == "" {
		return fail(ReasonNotAvailable, "sidecar has no studio")
	}

	res, err := resolver.ResolveOrCreate(ctx, resolver.Studios(gw), t.Movie.Studio)
	if err != nil {
		return err
	}
	if res.Created {
		logger.FromContext(ctx).Info("created studio", logger.Data{"studio_id": res.ID, "name": res.Name})
	}

	t.Scene.StudioID = pointerutil.Int(res.ID)
	return updateScene(ctx, gw, t, "studio_id")
}

// syncTags links every genre to the scene. Tags already on the scene are
// never removed. A genre that can't be resolved is logged and skipped.
func (e *Engine) syncTags(ctx context.Context, gw *gateway.Gateway, t Target) error {
	if len(t.Movie.Genres) == 0 {
		return fail(ReasonNotAvailable, "sidecar has no genres")
	}

	added, existing, err := linkAll(ctx, resolver.Tags(gw), t.Movie.Genres, func(id int) (bool, error) {
		return gw.Tags.InsertSceneTag(ctx, t.Scene.ID, id)
	})
	if err != nil {
		return err
	}
	if added+existing == 0 {
		return fail(ReasonNotAvailable, "none of %d genres could be resolved", len(t.Movie.Genres))
	}

	logger.FromContext(ctx).Info("linked tags", logger.Data{"added": added, "existing": existing})
	return nil
}

func (e *Engine) syncPerformers(ctx context.Context, gw *gateway.Gateway, t Target) error {
	if len(t.Movie.Actors) == 0 {
		return fail(ReasonNotAvailable, "sidecar has no actors")
	}

	names := make([]string, 0, len(t.Movie.Actors))
	for _, actor := range t.Movie.Actors {
		names = append(names, actor.Name)
	}

	added, existing, err := linkAll(ctx, resolver.Performers(gw), names, func(id int) (bool, error) {
		return gw.Performers.InsertScenePerformer(ctx, t.Scene.ID, id)
	})
	if err != nil {
		return err
	}
	if added+existing == 0 {
		return fail(ReasonNotAvailable, "none of %d actors could be resolved", len(names))
	}

	logger.FromContext(ctx).Info("linked performers", logger.Data{"added": added, "existing": existing})
	return nil
}

// linkAll resolves each name and links the resulting id with link. Names that
// fail with an expected error are skipped; anything else is returned.
func linkAll(ctx context.Context, store resolver.NaturalKeyStore, names []string, link func(id int) (bool, error)) (added, existing int, err error) {
	log := logger.FromContext(ctx)
	seen := map[int]struct{}{}

	for _, name := range names {
		res, err := resolver.ResolveOrCreate(ctx, store, name)
		if err != nil {
			if classify(err) == nil {
				return added, existing, err
			}
			log.Warn("skipping name", logger.Data{"name": name, "error": err.Error()})
			continue
		}
		if _, ok := seen[res.ID]; ok {
			continue
		}
		seen[res.ID] = struct{}{}

		inserted, err := link(res.ID)
		if err != nil {
			return added, existing, err
		}
		if inserted {
			added++
		} else {
			existing++
		}
	}

	return added, existing, nil
}

func (e *Engine) syncGroup(ctx context.Context, gw *gateway.Gateway, t Target) error {
	name := t.Movie.SetName()
	if textnorm.Key(name) == "" {
		return fail(ReasonNotAvailable, "sidecar has no set")
	}

	res, err := resolver.ResolveOrCreate(ctx, resolver.Groups(gw), name)
	if err != nil {
		return err
	}

	inserted, err := gw.Groups.InsertGroupScene(ctx, res.ID, t.Scene.ID)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("linked group", logger.Data{"group_id": res.ID, "created": res.Created, "inserted": inserted})
	return nil
}

// syncGallery links the gallery of the first folder whose path ends with the
// gallery token followed by the title's code.
func (e *Engine) syncGallery(ctx context.Context, gw *gateway.Gateway, t Target) error {
	code := t.Movie.Code()
	if code == "" && t.Scene.Code != nil {
		code = *t.Scene.Code
	}
	if code == "" {
		return fail(ReasonNotAvailable, "no code to match a gallery folder")
	}

	suffix := e.opts.GalleryFolderToken + code
	folders, err := gw.Galleries.ListFolders(ctx, galleries.ListFoldersOptions{
		PathSuffix: &suffix,
		Limit:      pointerutil.Int(1),
	})
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		return fail(ReasonNotFound, "no folder matches %%%s", suffix)
	}
	folder := folders[0]

	gallery, err := gw.Galleries.RetrieveGallery(ctx, galleries.RetrieveGalleryOptions{FolderID: &folder.ID})
	if err != nil {
		if errcodes.IsNotFound(err) {
			return fail(ReasonNotFound, "folder %s has no gallery", folder.Path)
		}
		return err
	}

	inserted, err := gw.Galleries.InsertSceneGallery(ctx, t.Scene.ID, gallery.ID)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("linked gallery", logger.Data{"gallery_id": gallery.ID, "folder": folder.Path, "inserted": inserted})
	return nil
}

// syncCover ingests the folder's cover image and points the scene at it. The
// blob row is written first since cover_blob references it.
func (e *Engine) syncCover(ctx context.Context, gw *gateway.Gateway, t Target) error {
	src := filepath.Join(t.Folder, e.opts.CoverFileName)

	hash, err := e.covers.Ingest(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return &StepError{Reason: ReasonIO, Err: err}
	}

	if _, err := gw.Blobs.InsertBlob(ctx, hash); err != nil {
		return err
	}

	t.Scene.CoverBlob = &hash
	if err := updateScene(ctx, gw, t, "cover_blob"); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("updated cover", logger.Data{"checksum": hash})
	return nil
}
