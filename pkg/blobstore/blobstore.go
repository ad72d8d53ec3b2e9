// Package blobstore keeps cover images on disk under their content hash, in
// the same directory layout Stash uses for its blobs directory.
package blobstore

import (
	"context"
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/shishobooks/stashsync/pkg/errcodes"
	"github.com/shishobooks/stashsync/pkg/fileutils"
)

const chunkSize = 4096

// ErrNotImage is returned by Ingest when the source isn't an image.
var ErrNotImage = errors.New("source is not an image")

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root}
}

// Ingest copies the file at src into the store and returns its md5 hex
// digest. Ingesting the same bytes twice writes the same path.
func (s *Store) Ingest(ctx context.Context, src string) (string, error) {
	ok, err := fileutils.IsRegularFile(src)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Wrapf(errcodes.NotFound("Cover file"), "%s", src)
	}

	mtype, err := mimetype.DetectFile(src)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.Wrapf(ErrNotImage, "%s is %s", src, mtype.String())
	}

	hash, err := hashFile(ctx, src)
	if err != nil {
		return "", err
	}

	dst := s.Path(hash)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.WithStack(err)
	}
	if err := fileutils.CopyFile(src, dst); err != nil {
		return "", err
	}

	return hash, nil
}

// Path is where the blob with the given hash lives: <root>/ab/cd/abcd...
func (s *Store) Path(hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.root, hash)
	}
	return filepath.Join(s.root, hash[0:2], hash[2:4], hash)
}

func (s *Store) Exists(hash string) bool {
	ok, _ := fileutils.IsRegularFile(s.Path(hash))
	return ok
}

func hashFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	h := md5.New() //nolint:gosec
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.WithStack(err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
