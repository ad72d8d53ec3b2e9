package fileutils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CopyFile copies src to dst, keeping src's permission bits. The bytes are
// written to a temporary file next to dst and renamed into place, so a reader
// never sees a partial dst.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return errors.WithStack(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, sourceFile); err != nil {
		tmp.Close()
		return errors.WithStack(err)
	}
	if err := tmp.Chmod(sourceInfo.Mode().Perm()); err != nil {
		tmp.Close()
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(os.Rename(tmpPath, dst))
}

// IsRegularFile reports whether path exists and is a regular file, following
// symlinks.
func IsRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return info.Mode().IsRegular(), nil
}
