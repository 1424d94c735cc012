package workspace

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies every failure the file service can report.
type Kind int

const (
	// KindIOFailure is any underlying filesystem error not covered below.
	KindIOFailure Kind = iota
	// KindInvalidPath means the name contains a traversal pattern or escapes the root.
	KindInvalidPath
	// KindNotFound means the named file or directory does not exist.
	KindNotFound
	// KindDirectoryNotFound means a working directory is missing and autocreate is off.
	KindDirectoryNotFound
	// KindIsDirectory means a file operation targeted an existing directory.
	KindIsDirectory
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid_path"
	case KindNotFound:
		return "not_found"
	case KindDirectoryNotFound:
		return "directory_not_found"
	case KindIsDirectory:
		return "is_directory"
	default:
		return "io_failure"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrIOFailure         = errors.New("i/o failure")
	ErrInvalidPath       = errors.New("invalid path")
	ErrNotFound          = errors.New("not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrIsDirectory       = errors.New("is a directory")
)

// Reasons for an invalid path, carried as Err of a KindInvalidPath error.
var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrAbsolutePath  = errors.New("absolute path not allowed")
	ErrSymlinkEscape = errors.New("symlink escape detected")
	ErrRootDeletion  = errors.New("cannot delete root directory")
)

// Error wraps a failure with the operation and path that caused it.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Path, e.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindInvalidPath:
		return ErrInvalidPath
	case KindNotFound:
		return ErrNotFound
	case KindDirectoryNotFound:
		return ErrDirectoryNotFound
	case KindIsDirectory:
		return ErrIsDirectory
	default:
		return ErrIOFailure
	}
}

// KindOf returns the kind of err. Errors not produced by this package are
// classified as KindIOFailure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIOFailure
}

// IsPathTraversal reports whether err was caused by a traversal pattern.
func IsPathTraversal(err error) bool {
	return errors.Is(err, ErrPathTraversal)
}

// IsSymlinkEscape reports whether err was caused by a symlink leaving the root.
func IsSymlinkEscape(err error) bool {
	return errors.Is(err, ErrSymlinkEscape)
}

func invalidPath(op, path string, reason error) *Error {
	return &Error{Op: op, Path: path, Kind: KindInvalidPath, Err: reason}
}

// WrapFS classifies an error returned by the filesystem. A missing path
// becomes KindNotFound; everything else is KindIOFailure with err kept
// reachable through errors.Is and errors.As.
func WrapFS(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: op, Path: path, Kind: KindNotFound, Err: err}
	}
	return &Error{Op: op, Path: path, Kind: KindIOFailure, Err: err}
}
