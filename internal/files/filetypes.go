package files

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// BinaryExtensions contains file extensions that are never rendered as text.
var BinaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".webp": true, ".bmp": true,
	".pdf": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".mp3": true, ".wav": true, ".ogg": true, ".m4a": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".node": true, ".wasm": true,
}

// MaxPreviewSize is the largest content rendered inline as text (1MB).
const MaxPreviewSize = 1024 * 1024

// IsBinaryFile checks if a file path has a binary extension.
func IsBinaryFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return BinaryExtensions[ext]
}

// IsPreviewable reports whether content can be shown as text.
func IsPreviewable(name string, content []byte) bool {
	return !IsBinaryFile(name) && len(content) <= MaxPreviewSize && utf8.Valid(content)
}
