package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "io_failure", KindIOFailure.String())
	assert.Equal(t, "invalid_path", KindInvalidPath.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "directory_not_found", KindDirectoryNotFound.String())
	assert.Equal(t, "is_directory", KindIsDirectory.String())
}

func TestErrorMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", invalidPath("get_file_data", "../x", ErrPathTraversal))

	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, err, ErrPathTraversal)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.True(t, IsPathTraversal(err))
	assert.False(t, IsSymlinkEscape(err))
	assert.Equal(t, KindInvalidPath, KindOf(err))
}

func TestErrorMessage(t *testing.T) {
	withCause := &Error{Op: "delete_file", Path: "a.txt", Kind: KindNotFound, Err: fs.ErrNotExist}
	assert.Equal(t, "delete_file: a.txt: file does not exist", withCause.Error())

	bare := &Error{Op: "get_file_data", Path: "dir", Kind: KindIsDirectory}
	assert.Equal(t, "get_file_data: dir: is a directory", bare.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindIOFailure, KindOf(errors.New("boom")))
}

func TestWrapFS(t *testing.T) {
	assert.NoError(t, WrapFS("op", "p", nil))

	notFound := WrapFS("op", "p", &fs.PathError{Op: "open", Path: "p", Err: fs.ErrNotExist})
	assert.Equal(t, KindNotFound, KindOf(notFound))
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.ErrorIs(t, notFound, fs.ErrNotExist)

	ioErr := WrapFS("op", "p", &fs.PathError{Op: "write", Path: "p", Err: syscall.ENOSPC})
	assert.Equal(t, KindIOFailure, KindOf(ioErr))
	assert.ErrorIs(t, ioErr, syscall.ENOSPC)
	assert.ErrorIs(t, ioErr, ErrIOFailure)

	original := &Error{Op: "inner", Path: "p", Kind: KindIsDirectory}
	wrapped := WrapFS("outer", "p", original)
	var got *Error
	require.ErrorAs(t, wrapped, &got)
	assert.Equal(t, "inner", got.Op)
	assert.Equal(t, KindIsDirectory, got.Kind)
}
