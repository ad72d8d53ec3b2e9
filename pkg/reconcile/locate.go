package reconcile

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/fileutils"
	"github.com/shishobooks/stashsync/pkg/files"
	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/scenes"
)

// FindMediaFile returns the path of the first media file in folder, by name,
// whose name contains code.
func FindMediaFile(folder, code string, exts []string) (string, error) {
	names, err := fileutils.FindMediaFiles(folder, code, exts)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.Wrapf(errcodes.NotFound("Media file"), "no media file for %q in %s", code, folder)
	}
	return filepath.Join(folder, names[0]), nil
}

// LocateScene finds the scene cataloged from the file with the given
// basename: file row, then its scene association, then the scene.
func LocateScene(ctx context.Context, gw *gateway.Gateway, basename string) (*models.Scene, error) {
	file, err := gw.Files.RetrieveFile(ctx, files.RetrieveFileOptions{Basename: &basename})
	if err != nil {
		return nil, errors.Wrapf(err, "file %s is not in the catalog", basename)
	}

	sf, err := gw.Files.RetrieveSceneFile(ctx, file.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "file %d has no scene", file.ID)
	}

	scene, err := gw.Scenes.RetrieveScene(ctx, scenes.RetrieveSceneOptions{ID: &sf.SceneID})
	if err != nil {
		return nil, errors.Wrapf(err, "scene %d", sf.SceneID)
	}
	return scene, nil
}
