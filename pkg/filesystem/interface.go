package filesystem

import (
	"os"
)

// FileSystem defines the filesystem operations used while discovering schemas and
// reading compiler output. It allows mocking of file I/O in tests.
//
//go:generate go run go.uber.org/mock/mockgen@latest -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE
type FileSystem interface {
	// ReadDir reads the named directory, returning its entries sorted by filename.
	ReadDir(name string) ([]os.DirEntry, error)

	// Stat returns file info, following symlinks.
	Stat(name string) (os.FileInfo, error)

	// EvalSymlinks returns the path after resolving all symlinks.
	EvalSymlinks(path string) (string, error)

	// ReadFile reads a file.
	ReadFile(name string) ([]byte, error)

	// MkdirTemp creates a temporary directory.
	MkdirTemp(dir, pattern string) (string, error)

	// RemoveAll removes a path and any children.
	RemoveAll(path string) error
}
