package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// checkSymlinkBoundary ensures path, once symlinks are followed, stays inside
// root. Only the deepest existing ancestor can be resolved, so a name that
// does not exist yet is checked through the directory it would be created in.
func checkSymlinkBoundary(op, name, path, root string) error {
	existing, err := deepestExisting(path, root)
	if err != nil {
		return &Error{Op: op, Path: name, Kind: KindIOFailure, Err: err}
	}

	realPath, err := resolveRealPathOrAbs(existing)
	if err != nil {
		return invalidPath(op, name, err)
	}

	if !isWithinBase(realPath, root) {
		log.Warn("Symlink escape attempt: %s -> %s (root: %s)", existing, realPath, root)
		return invalidPath(op, name, ErrSymlinkEscape)
	}
	return nil
}

func deepestExisting(path, root string) (string, error) {
	current := path
	for {
		if _, err := os.Lstat(current); err == nil {
			return current, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if current == root {
			return root, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return root, nil
		}
		current = parent
	}
}

func resolveRealPathOrAbs(path string) (string, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err == nil {
		return realPath, nil
	}
	return filepath.Abs(path)
}

func isWithinBase(path, base string) bool {
	if base == string(os.PathSeparator) {
		return strings.HasPrefix(path, base)
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator)) || path == base
}
