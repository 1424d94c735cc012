package files

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"fileservice/internal/response"
)

// Handler renders service results for the command line.
type Handler struct {
	service *Service
	out     io.Writer
}

// NewHandler creates a handler writing to out.
func NewHandler(service *Service, out io.Writer) *Handler {
	return &Handler{service: service, out: out}
}

// RecordView is the JSON shape of a record on output. Text content is
// inlined; anything else is base64 encoded.
type RecordView struct {
	Name          string     `json:"name"`
	CreatedAt     time.Time  `json:"createdAt"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`
	Size          int64      `json:"size"`
	Content       *string    `json:"content,omitempty"`
	ContentBase64 string     `json:"contentBase64,omitempty"`
	Binary        bool       `json:"binary,omitempty"`
}

// NewRecordView converts a record for output.
func NewRecordView(rec FileRecord) RecordView {
	view := RecordView{
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Size:      rec.Size,
	}
	if !rec.ModifiedAt.IsZero() {
		modified := rec.ModifiedAt
		view.ModifiedAt = &modified
	}
	if rec.HasContent() {
		if IsPreviewable(rec.Name, rec.Content) {
			text := string(rec.Content)
			view.Content = &text
		} else {
			view.ContentBase64 = base64.StdEncoding.EncodeToString(rec.Content)
			view.Binary = true
		}
	}
	return view
}

// ListFiles writes every entry of the working directory.
func (h *Handler) ListFiles(ctx context.Context) error {
	records, err := h.service.List(ctx)
	if err != nil {
		return err
	}

	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, NewRecordView(rec))
	}

	return response.JSON(h.out, map[string]any{
		"path":  h.service.Workspace().Root(),
		"files": views,
	})
}

// ReadFile writes a file's record. With raw set, only the bytes are written.
func (h *Handler) ReadFile(ctx context.Context, name string, raw bool) error {
	rec, err := h.service.Get(ctx, name)
	if err != nil {
		return err
	}

	if raw {
		_, err := h.out.Write(rec.Content)
		return err
	}
	return response.JSON(h.out, NewRecordView(rec))
}

// CreateFile writes content to name and prints the resulting record.
func (h *Handler) CreateFile(ctx context.Context, name string, content []byte) error {
	rec, err := h.service.Create(ctx, name, content)
	if err != nil {
		return err
	}
	return response.JSON(h.out, NewRecordView(rec))
}

// DeleteFile removes name.
func (h *Handler) DeleteFile(ctx context.Context, name string) error {
	if err := h.service.Delete(ctx, name); err != nil {
		return err
	}
	return response.JSON(h.out, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Deleted: %s", name),
		"name":    name,
	})
}

// ChangeDir moves the workspace root and prints the new root.
func (h *Handler) ChangeDir(_ context.Context, path string, autocreate bool) error {
	ws := h.service.Workspace()
	if err := ws.ChangeDir(path, autocreate); err != nil {
		return err
	}
	return response.JSON(h.out, map[string]any{
		"success": true,
		"path":    ws.Root(),
	})
}

// WorkingDir prints the current root.
func (h *Handler) WorkingDir() error {
	return response.JSON(h.out, map[string]any{
		"path": h.service.Workspace().Root(),
	})
}
