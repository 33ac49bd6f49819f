// Package discovery walks a project tree and selects the schema files a matcher accepts.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/events"
	"github.com/cloudposse/capnp-import/pkg/filematch"
	"github.com/cloudposse/capnp-import/pkg/filesystem"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

// DefaultSkipDirs are pruned unless WithSkipDirs replaces them.
var DefaultSkipDirs = []string{".git"}

var errNotDirectory = errors.New("not a directory")

// Discovery selects files under a root directory.
type Discovery struct {
	root           string
	matcher        filematch.Matcher
	fs             filesystem.FileSystem
	followSymlinks bool
	skipDirs       map[string]struct{}
	observer       events.Observer
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithFollowSymlinks descends into symlinked directories and selects symlinked files.
// Directory cycles are detected against the chain of real paths from the root.
func WithFollowSymlinks(follow bool) Option {
	return func(d *Discovery) {
		d.followSymlinks = follow
	}
}

// WithSkipDirs replaces the set of directory names that are never descended into.
func WithSkipDirs(names ...string) Option {
	return func(d *Discovery) {
		d.skipDirs = toSet(names)
	}
}

// WithObserver receives visit, match, skip and warning events.
func WithObserver(o events.Observer) Option {
	return func(d *Discovery) {
		d.observer = o
	}
}

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(d *Discovery) {
		d.fs = fsys
	}
}

// New returns a Discovery rooted at root.
func New(root string, matcher filematch.Matcher, opts ...Option) *Discovery {
	d := &Discovery{
		root:     root,
		matcher:  matcher,
		fs:       filesystem.NewOSFileSystem(),
		skipDirs: toSet(DefaultSkipDirs),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover returns the root-relative, normalized paths of every regular file the matcher
// accepts. Entries of a directory are visited in lexicographic order, depth first, so the
// same tree always yields the same list. Any I/O error aborts the walk; no partial result
// is returned.
func (d *Discovery) Discover(ctx context.Context) ([]string, error) {
	defer perf.Track(nil, "discovery.Discovery.Discover")()

	info, err := d.fs.Stat(d.root)
	if err != nil {
		return nil, &errUtils.DiscoveryError{Path: d.root, Err: err}
	}
	if !info.IsDir() {
		return nil, &errUtils.DiscoveryError{Path: d.root, Err: errNotDirectory}
	}

	var chain []string
	if d.followSymlinks {
		real, err := d.realPath(d.root)
		if err != nil {
			return nil, &errUtils.DiscoveryError{Path: d.root, Err: err}
		}
		chain = []string{real}
	}

	found := []string{}
	if err := d.walkDir(ctx, d.root, "", chain, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (d *Discovery) walkDir(ctx context.Context, dir, rel string, chain []string, found *[]string) error {
	if err := ctx.Err(); err != nil {
		return &errUtils.DiscoveryError{Path: dir, Err: err}
	}

	entries, err := d.fs.ReadDir(dir)
	if err != nil {
		return &errUtils.DiscoveryError{Path: dir, Err: err}
	}
	// ReadDir already sorts, but a FileSystem implementation is not required to.
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		childRel := filematch.NormalizePath(path.Join(rel, name))

		d.observer.Emit(events.Event{Kind: events.KindVisit, Path: childRel})

		mode := entry.Type()
		switch {
		case mode&fs.ModeSymlink != 0:
			if err := d.visitSymlink(ctx, full, childRel, name, chain, found); err != nil {
				return err
			}
		case mode.IsDir():
			if d.skipped(name) {
				d.skip(childRel, "skipped directory")
				continue
			}
			var childChain []string
			if d.followSymlinks {
				childChain = append(slices.Clone(chain), filepath.Join(chain[len(chain)-1], name))
			}
			if err := d.walkDir(ctx, full, childRel, childChain, found); err != nil {
				return err
			}
		case mode.IsRegular():
			d.consider(childRel, found)
		default:
			d.skip(childRel, "not a regular file")
		}
	}
	return nil
}

func (d *Discovery) visitSymlink(ctx context.Context, full, rel, name string, chain []string, found *[]string) error {
	if !d.followSymlinks {
		d.skip(rel, "symlink not followed")
		return nil
	}

	real, err := d.realPath(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.observer.Emit(events.Event{Kind: events.KindWarning, Path: rel, Reason: "Dangling symlink", Err: err})
			return nil
		}
		return &errUtils.DiscoveryError{Path: full, Err: err}
	}

	info, err := d.fs.Stat(full)
	if err != nil {
		return &errUtils.DiscoveryError{Path: full, Err: err}
	}

	switch {
	case info.IsDir():
		if d.skipped(name) {
			d.skip(rel, "skipped directory")
			return nil
		}
		if slices.Contains(chain, real) {
			d.skip(rel, fmt.Sprintf("symlink cycle back to %s", real))
			return nil
		}
		return d.walkDir(ctx, full, rel, append(slices.Clone(chain), real), found)
	case info.Mode().IsRegular():
		d.consider(rel, found)
	default:
		d.skip(rel, "not a regular file")
	}
	return nil
}

func (d *Discovery) consider(rel string, found *[]string) {
	if d.matcher.Match(rel) {
		*found = append(*found, rel)
		d.observer.Emit(events.Event{Kind: events.KindMatch, Path: rel})
		return
	}
	d.skip(rel, "no pattern matched")
}

func (d *Discovery) skip(rel, reason string) {
	d.observer.Emit(events.Event{Kind: events.KindSkip, Path: rel, Reason: reason})
}

func (d *Discovery) skipped(name string) bool {
	_, ok := d.skipDirs[name]
	return ok
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// realPath resolves p to an absolute path with every symlink evaluated. The ancestor chain
// only holds absolute paths, so a relative root and an absolute link target compare equal.
func (d *Discovery) realPath(p string) (string, error) {
	real, err := d.fs.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(real)
}
