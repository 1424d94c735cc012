package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"fileservice/internal/logger"
)

var log = logger.WithComponent("WORKSPACE")

// DirPerm is used for directories created by ChangeDir.
const DirPerm fs.FileMode = 0o755

// Workspace is a handle on one working directory. All names passed to the
// file service are resolved against its root. A Workspace is safe for
// concurrent use; callers that need independent roots open separate handles.
type Workspace struct {
	mu   sync.RWMutex
	root string

	fs     afero.Fs
	osBack bool
	id     string
}

type options struct {
	fs         afero.Fs
	autocreate bool
}

// Option configures Open.
type Option func(*options)

// WithFs replaces the OS filesystem. Symlink boundary checks only run on
// the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) { o.fs = fsys }
}

// WithAutocreate controls whether a missing initial directory is created.
func WithAutocreate(autocreate bool) Option {
	return func(o *options) { o.autocreate = autocreate }
}

// Open creates a handle rooted at path. A relative path is resolved against
// the process's current directory.
func Open(path string, opts ...Option) (*Workspace, error) {
	o := options{autocreate: true}
	for _, opt := range opts {
		opt(&o)
	}

	w := &Workspace{fs: o.fs, id: uuid.NewString()}
	if w.fs == nil {
		w.fs = afero.NewOsFs()
	}
	_, w.osBack = w.fs.(*afero.OsFs)

	if err := w.ChangeDir(path, o.autocreate); err != nil {
		return nil, err
	}
	return w, nil
}

// ChangeDir makes path the root for subsequent operations. A relative path is
// resolved against the current root. A missing directory is created when
// autocreate is set and reported as KindDirectoryNotFound otherwise. On any
// failure the previous root is kept.
func (w *Workspace) ChangeDir(path string, autocreate bool) error {
	const op = "change_dir"

	if IsInvalid(path) {
		return invalidPath(op, path, ErrPathTraversal)
	}

	target, err := w.absolute(path)
	if err != nil {
		return &Error{Op: op, Path: path, Kind: KindIOFailure, Err: err}
	}

	info, err := w.fs.Stat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !autocreate {
			return &Error{Op: op, Path: target, Kind: KindDirectoryNotFound, Err: err}
		}
		if err := w.fs.MkdirAll(target, DirPerm); err != nil {
			return WrapFS(op, target, err)
		}
		log.Info("Created working directory: %s", target)
	case err != nil:
		return WrapFS(op, target, err)
	case !info.IsDir():
		return &Error{Op: op, Path: target, Kind: KindIOFailure, Err: syscall.ENOTDIR}
	}

	if w.osBack {
		if realTarget, err := filepath.EvalSymlinks(target); err == nil {
			target = realTarget
		}
	}

	w.mu.Lock()
	previous := w.root
	w.root = target
	w.mu.Unlock()

	if previous != target {
		log.WithField("workspace", w.id).Info("Working directory: %s", target)
	}
	return nil
}

func (w *Workspace) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	base := w.Root()
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		base = cwd
	}
	return filepath.Join(base, path), nil
}

// Root returns the absolute path of the current working directory.
func (w *Workspace) Root() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.root
}

// Fs returns the filesystem the workspace operates on.
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// ID identifies the handle in logs.
func (w *Workspace) ID() string {
	return w.id
}

// OSBacked reports whether names resolve to real paths on the host.
func (w *Workspace) OSBacked() bool {
	return w.osBack
}
