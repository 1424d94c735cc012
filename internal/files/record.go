package files

import (
	"os"
	"time"
)

// FileRecord describes one entry of the working directory.
type FileRecord struct {
	// Name is the caller-supplied name, or the entry name when listing.
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt,omitzero"`
	// Size is 0 for directories.
	Size int64 `json:"size"`
	// Content is nil when absent. Get always sets it; Create echoes its input.
	Content []byte `json:"content,omitempty"`
}

// HasContent reports whether the record carries file data.
func (r FileRecord) HasContent() bool {
	return r.Content != nil
}

func recordFromInfo(name, path string, info os.FileInfo) FileRecord {
	rec := FileRecord{
		Name:       name,
		CreatedAt:  createdAt(path, info),
		ModifiedAt: info.ModTime(),
	}
	if !info.IsDir() {
		rec.Size = info.Size()
	}
	return rec
}
