package workspace

import (
	"path/filepath"
)

// Resolve maps a caller-supplied name to an absolute path inside the root.
// The traversal check runs on the raw name before anything else.
func (w *Workspace) Resolve(op, name string) (string, error) {
	resolved, root, err := w.join(op, name)
	if err != nil {
		return "", err
	}

	if w.osBack {
		if err := checkSymlinkBoundary(op, name, resolved, root); err != nil {
			return "", err
		}
	}
	return resolved, nil
}

// ResolveForDeletion is Resolve plus a guard against removing the root.
// Only the parent is checked against symlink escapes: the entry itself is
// removed, never followed, so a link pointing outside the root can still
// be deleted.
func (w *Workspace) ResolveForDeletion(op, name string) (string, error) {
	if IsInvalid(name) {
		return "", invalidPath(op, name, ErrPathTraversal)
	}
	if isRootName(name) {
		return "", invalidPath(op, name, ErrRootDeletion)
	}

	resolved, root, err := w.join(op, name)
	if err != nil {
		return "", err
	}
	if resolved == root {
		return "", invalidPath(op, name, ErrRootDeletion)
	}

	if w.osBack {
		if err := checkSymlinkBoundary(op, name, filepath.Dir(resolved), root); err != nil {
			return "", err
		}
	}
	return resolved, nil
}

// join applies the lexical checks and returns the joined path and the root
// it was joined onto.
func (w *Workspace) join(op, name string) (string, string, error) {
	if IsInvalid(name) {
		return "", "", invalidPath(op, name, ErrPathTraversal)
	}

	if isAbsolute(name) {
		return "", "", invalidPath(op, name, ErrAbsolutePath)
	}

	root := w.Root()
	resolved := filepath.Join(root, name)
	if !isWithinBase(resolved, root) {
		return "", "", invalidPath(op, name, ErrPathTraversal)
	}
	return resolved, root, nil
}
