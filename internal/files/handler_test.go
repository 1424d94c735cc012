package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileservice/internal/workspace"
)

func setupHandler(t *testing.T) (*Handler, *bytes.Buffer, afero.Fs) {
	t.Helper()
	svc, fsys := newMemService(t)
	var out bytes.Buffer
	return NewHandler(svc, &out), &out, fsys
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body), "output: %s", buf.String())
	buf.Reset()
	return body
}

func TestHandler_CreateAndReadText(t *testing.T) {
	h, out, _ := setupHandler(t)
	ctx := context.Background()

	require.NoError(t, h.CreateFile(ctx, "a.txt", []byte("hello")))
	created := decode(t, out)
	assert.Equal(t, "a.txt", created["name"])
	assert.EqualValues(t, 5, created["size"])
	assert.Equal(t, "hello", created["content"])
	assert.NotContains(t, created, "modifiedAt")

	require.NoError(t, h.ReadFile(ctx, "a.txt", false))
	read := decode(t, out)
	assert.Equal(t, "hello", read["content"])
	assert.Contains(t, read, "modifiedAt")
	assert.Contains(t, read, "createdAt")
	assert.NotContains(t, read, "binary")
}

func TestHandler_ReadFileRaw(t *testing.T) {
	h, out, fsys := setupHandler(t)
	payload := []byte{0x00, 0xff, 0x10, 'x'}
	require.NoError(t, afero.WriteFile(fsys, "/ws/blob.bin", payload, 0o644))

	require.NoError(t, h.ReadFile(context.Background(), "blob.bin", true))
	assert.Equal(t, payload, out.Bytes())
}

func TestHandler_ReadBinaryAsBase64(t *testing.T) {
	h, out, fsys := setupHandler(t)
	payload := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, afero.WriteFile(fsys, "/ws/image.png", payload, 0o644))

	require.NoError(t, h.ReadFile(context.Background(), "image.png", false))
	body := decode(t, out)
	assert.Equal(t, true, body["binary"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), body["contentBase64"])
	assert.NotContains(t, body, "content")
}

func TestHandler_ReadFileBlocksTraversal(t *testing.T) {
	h, out, _ := setupHandler(t)

	err := h.ReadFile(context.Background(), "../secret.txt", false)
	require.Error(t, err)
	assert.True(t, workspace.IsPathTraversal(err))
	assert.Zero(t, out.Len())
}

func TestHandler_ListFiles(t *testing.T) {
	h, out, fsys := setupHandler(t)
	require.NoError(t, afero.WriteFile(fsys, "/ws/one.txt", []byte("1"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/two.txt", []byte("22"), 0o644))

	require.NoError(t, h.ListFiles(context.Background()))
	body := decode(t, out)
	assert.Equal(t, "/ws", body["path"])

	files, ok := body["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 2)
	for _, f := range files {
		entry := f.(map[string]any)
		assert.NotContains(t, entry, "content")
		assert.NotContains(t, entry, "contentBase64")
	}
}

func TestHandler_DeleteFile(t *testing.T) {
	h, out, fsys := setupHandler(t)
	require.NoError(t, afero.WriteFile(fsys, "/ws/a.txt", []byte("x"), 0o644))

	require.NoError(t, h.DeleteFile(context.Background(), "a.txt"))
	body := decode(t, out)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a.txt", body["name"])

	exists, err := afero.Exists(fsys, "/ws/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHandler_ChangeDirAndWorkingDir(t *testing.T) {
	h, out, fsys := setupHandler(t)
	ctx := context.Background()

	require.NoError(t, h.ChangeDir(ctx, "/elsewhere", true))
	body := decode(t, out)
	assert.Equal(t, "/elsewhere", body["path"])

	exists, err := afero.DirExists(fsys, "/elsewhere")
	require.NoError(t, err)
	assert.True(t, exists)

	err = h.ChangeDir(ctx, "/nowhere", false)
	assert.Equal(t, workspace.KindDirectoryNotFound, workspace.KindOf(err))

	require.NoError(t, h.WorkingDir())
	assert.Equal(t, "/elsewhere", decode(t, out)["path"])
}

func TestNewRecordView(t *testing.T) {
	noContent := NewRecordView(FileRecord{Name: "dir"})
	assert.Nil(t, noContent.Content)
	assert.Empty(t, noContent.ContentBase64)
	assert.Nil(t, noContent.ModifiedAt)

	empty := NewRecordView(FileRecord{Name: "e.txt", Content: []byte{}})
	require.NotNil(t, empty.Content)
	assert.Equal(t, "", *empty.Content)

	invalidUTF8 := NewRecordView(FileRecord{Name: "notes.txt", Content: []byte{0xff, 0xfe}})
	assert.Nil(t, invalidUTF8.Content)
	assert.True(t, invalidUTF8.Binary)
}
