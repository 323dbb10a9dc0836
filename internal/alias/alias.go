// Package alias maintains the "latest" entry of a publish root.
//
// The default mode is a relative symlink (latest -> v1.2.0), which is a single
// rename-free pointer swap. Some hosts refuse symlink creation (Windows without
// developer mode, some network shares); ModeCopy replaces the link with a full
// copy of the version directory at the cost of disk space and a window where
// latest is absent.
package alias

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/fsutil"
)

// Name is the alias entry inside the publish root.
const Name = "latest"

// Mode selects how the alias is materialized.
type Mode string

const (
	ModeSymlink Mode = "symlink"
	ModeCopy    Mode = "copy"
)

// ErrMissing is returned by Resolve when no alias exists.
var ErrMissing = errors.New("latest alias does not exist")

// Update points root/latest at root/version, replacing whatever was there
// before, whether a link, a file or a stray real directory.
func Update(root, version string, mode Mode) error {
	target := filepath.Join(root, version)
	if st, err := os.Stat(target); err != nil || !st.IsDir() {
		return derrors.NotFoundError("alias target is not a directory").
			WithContext("path", target).
			Build()
	}

	link := filepath.Join(root, Name)
	if err := remove(link); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "remove existing latest alias").
			WithContext("path", link).
			Build()
	}

	switch mode {
	case ModeCopy:
		if err := fsutil.CopyDir(target, link); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "copy version into latest").
				WithContext("path", link).
				Build()
		}
	default:
		if err := os.Symlink(version, link); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "create latest symlink").
				WithContext("path", link).
				WithContext("target", version).
				Build()
		}
	}
	return nil
}

// Resolve returns the name the alias points at. A symlink yields the base name
// of its target; a copied directory yields Name itself.
func Resolve(root string) (string, error) {
	link := filepath.Join(root, Name)
	info, err := os.Lstat(link)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrMissing
		}
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		if info.IsDir() {
			return Name, nil
		}
		return "", fmt.Errorf("latest alias %s is neither a link nor a directory", link)
	}
	target, err := os.Readlink(link)
	if err != nil {
		return "", err
	}
	return filepath.Base(filepath.Clean(target)), nil
}

func remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
