package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"..", true},
		{"../etc/passwd", true},
		{"a/../b", true},
		{"a/..", true},
		{`..\windows`, true},
		{`a\..\b`, true},
		{`a/..\b`, true},
		{"a/../a", true},
		{"a.txt", false},
		{"..a", false},
		{"a..", false},
		{"a..b/c", false},
		{"...", false},
		{".hidden", false},
		{"dir/file.txt", false},
		{"", false},
		{".", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalid(tt.path))
		})
	}
}

func TestIsAbsolute(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/etc/passwd", true},
		{`\share`, true},
		{`C:\Windows`, true},
		{"c:/x", true},
		{"a.txt", false},
		{"dir/c:", false},
		{"1:x", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isAbsolute(tt.path))
		})
	}
}

func TestIsRootName(t *testing.T) {
	for _, name := range []string{"", ".", "/", `\`, "./", "a/.."} {
		assert.True(t, isRootName(name), "expected %q to name the root", name)
	}
	for _, name := range []string{"a", "./a", "a/b", " ", "  ", " ."} {
		assert.False(t, isRootName(name), "expected %q not to name the root", name)
	}
}
