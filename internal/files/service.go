package files

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"fileservice/internal/logger"
	"fileservice/internal/observability"
	"fileservice/internal/sentryx"
	"fileservice/internal/workspace"
)

var filesLog = logger.WithComponent("FILES")

// FilePerm is used for files written by Create.
const FilePerm fs.FileMode = 0o644

// DefaultStatWorkers bounds the goroutines List uses to stat entries.
const DefaultStatWorkers = 8

// Service implements list, read, create and delete on a workspace.
type Service struct {
	ws      *workspace.Workspace
	metrics *observability.Metrics
	workers int
}

// NewService creates a file service. metrics may be nil.
func NewService(ws *workspace.Workspace, metrics *observability.Metrics) *Service {
	return &Service{ws: ws, metrics: metrics, workers: DefaultStatWorkers}
}

// SetStatWorkers bounds the concurrent stat calls made by List. Values
// below 1 are ignored.
func (s *Service) SetStatWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// Workspace returns the handle the service resolves names against.
func (s *Service) Workspace() *workspace.Workspace {
	return s.ws
}

// List returns one record per direct entry of the working directory.
// Records carry no content. Order is unspecified.
func (s *Service) List(ctx context.Context) (records []FileRecord, err error) {
	const op = "list_files"
	ctx, done := s.begin(ctx, op, "")
	defer func() { done(err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fsys := s.ws.Fs()
	root := s.ws.Root()

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, workspace.WrapFS(op, root, err)
	}

	mapper := iter.Mapper[os.FileInfo, FileRecord]{MaxGoroutines: s.workers}
	records, err = mapper.MapErr(entries, func(entry *os.FileInfo) (FileRecord, error) {
		name := (*entry).Name()
		path := filepath.Join(root, name)

		info, statErr := fsys.Stat(path)
		if errors.Is(statErr, fs.ErrNotExist) {
			// Dangling symlink or an entry removed since ReadDir.
			info = *entry
		} else if statErr != nil {
			return FileRecord{}, workspace.WrapFS(op, name, statErr)
		}
		return recordFromInfo(name, s.osPath(path), info), nil
	})
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []FileRecord{}
	}
	return records, nil
}

// Get reads a file's full content and metadata.
func (s *Service) Get(ctx context.Context, name string) (rec FileRecord, err error) {
	const op = "get_file_data"
	ctx, done := s.begin(ctx, op, name)
	defer func() { done(err) }()

	path, err := s.ws.Resolve(op, name)
	if err != nil {
		return FileRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return FileRecord{}, err
	}

	fsys := s.ws.Fs()
	info, err := fsys.Stat(path)
	if err != nil {
		return FileRecord{}, workspace.WrapFS(op, name, err)
	}
	if info.IsDir() {
		return FileRecord{}, &workspace.Error{Op: op, Path: name, Kind: workspace.KindIsDirectory}
	}

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return FileRecord{}, workspace.WrapFS(op, name, err)
	}
	if content == nil {
		content = []byte{}
	}
	s.metrics.AddBytesRead(len(content))

	rec = recordFromInfo(name, s.osPath(path), info)
	rec.Content = content
	return rec, nil
}

// Create writes content to name, creating or truncating a regular file.
// A nil content creates an empty file. The returned record echoes content
// as given and reads Size and CreatedAt back from disk; ModifiedAt is unset.
func (s *Service) Create(ctx context.Context, name string, content []byte) (rec FileRecord, err error) {
	const op = "create_file"
	ctx, done := s.begin(ctx, op, name)
	defer func() { done(err) }()

	path, err := s.ws.Resolve(op, name)
	if err != nil {
		return FileRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return FileRecord{}, err
	}

	fsys := s.ws.Fs()
	if info, statErr := fsys.Stat(path); statErr == nil && info.IsDir() {
		return FileRecord{}, &workspace.Error{Op: op, Path: name, Kind: workspace.KindIsDirectory}
	} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return FileRecord{}, workspace.WrapFS(op, name, statErr)
	}

	if err := writeFile(fsys, path, content); err != nil {
		return FileRecord{}, workspace.WrapFS(op, name, err)
	}
	s.metrics.AddBytesWritten(len(content))

	info, err := fsys.Stat(path)
	if err != nil {
		return FileRecord{}, workspace.WrapFS(op, name, err)
	}

	filesLog.Debug("Created file: %s (%d bytes)", path, info.Size())
	return FileRecord{
		Name:      name,
		CreatedAt: createdAt(s.osPath(path), info),
		Size:      info.Size(),
		Content:   content,
	}, nil
}

// Delete removes a file, or a directory and everything below it.
func (s *Service) Delete(ctx context.Context, name string) (err error) {
	const op = "delete_file"
	ctx, done := s.begin(ctx, op, name)
	defer func() { done(err) }()

	path, err := s.ws.ResolveForDeletion(op, name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fsys := s.ws.Fs()
	info, err := lstat(fsys, path)
	if err != nil {
		return workspace.WrapFS(op, name, err)
	}

	typeStr := "file"
	if info.IsDir() {
		typeStr = "directory"
		err = fsys.RemoveAll(path)
	} else {
		err = fsys.Remove(path)
	}
	if err != nil {
		return workspace.WrapFS(op, name, err)
	}

	filesLog.Info("Deleted %s: %s", typeStr, path)
	return nil
}

func (s *Service) osPath(path string) string {
	if s.ws.OSBacked() {
		return path
	}
	return ""
}

func (s *Service) begin(ctx context.Context, op, name string) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "fileservice."+op)
	span.SetData("name", name)
	span.SetData("workspace", s.ws.ID())

	return ctx, func(err error) {
		defer span.End()

		result := "ok"
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			result = "canceled"
			span.Fail()
		default:
			kind := workspace.KindOf(err)
			result = kind.String()
			span.Fail()
			if kind == workspace.KindIOFailure {
				filesLog.WithField("workspace", s.ws.ID()).Error("%s %q failed: %v", op, name, err)
				sentryx.CaptureError(err, "%s failed", op)
			} else {
				filesLog.Debug("%s %q rejected: %v", op, name, err)
			}
		}
		s.metrics.Observe(op, result, started)
	}
}

func writeFile(fsys afero.Fs, path string, content []byte) error {
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePerm)
	if err != nil {
		return err
	}
	if len(content) > 0 {
		if _, err := f.Write(content); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fsys.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}
