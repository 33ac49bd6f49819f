// Package aggregate folds the files a schema compiler generated into one source blob,
// wrapping each file in a scope named after its stem.
package aggregate

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/events"
	"github.com/cloudposse/capnp-import/pkg/filematch"
	"github.com/cloudposse/capnp-import/pkg/filesystem"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

// Unit is one generated file wrapped under Name.
type Unit struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Content string `json:"-" yaml:"-"`
}

// Output is the ordered list of units and the target that renders them.
type Output struct {
	Units  []Unit
	target Target
}

// String renders every unit in order.
func (o *Output) String() string {
	var b strings.Builder
	for _, u := range o.Units {
		o.target.Wrap(&b, u.Name, u.Content)
	}
	return b.String()
}

// Aggregator reads a compiler output directory.
type Aggregator struct {
	target   Target
	fs       filesystem.FileSystem
	observer events.Observer
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithObserver receives unit and collision events.
func WithObserver(o events.Observer) Option {
	return func(a *Aggregator) {
		a.observer = o
	}
}

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(a *Aggregator) {
		a.fs = fsys
	}
}

// New returns an Aggregator for target.
func New(target Target, opts ...Option) *Aggregator {
	a := &Aggregator{
		target: target,
		fs:     filesystem.NewOSFileSystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate walks outDir in lexicographic order and wraps every regular file.
// Module names are file stems and are never rewritten: a stem the target cannot use
// fails the run. Two files with the same stem both appear, under the same name, and a
// collision event is emitted for the later one.
func (a *Aggregator) Aggregate(ctx context.Context, outDir string) (*Output, error) {
	defer perf.Track(nil, "aggregate.Aggregator.Aggregate")()

	out := &Output{Units: []Unit{}, target: a.target}
	if err := a.walk(ctx, outDir, "", out); err != nil {
		return nil, err
	}
	a.reportCollisions(out.Units)
	return out, nil
}

func (a *Aggregator) walk(ctx context.Context, dir, rel string, out *Output) error {
	if err := ctx.Err(); err != nil {
		return &errUtils.AggregationError{Path: dir, Err: err}
	}

	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		return &errUtils.AggregationError{Path: dir, Err: err}
	}
	slices.SortFunc(entries, func(x, y fs.DirEntry) int {
		return strings.Compare(x.Name(), y.Name())
	})

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		childRel := filematch.NormalizePath(path.Join(rel, entry.Name()))

		switch {
		case entry.IsDir():
			if err := a.walk(ctx, full, childRel, out); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			unit, err := a.unit(full, childRel)
			if err != nil {
				return err
			}
			out.Units = append(out.Units, unit)
			a.observer.Emit(events.Event{Kind: events.KindUnit, Path: childRel, Name: unit.Name})
		}
	}
	return nil
}

func (a *Aggregator) unit(full, rel string) (Unit, error) {
	name := Stem(path.Base(rel))
	if reason := a.target.CheckIdentifier(name); reason != "" {
		return Unit{}, &errUtils.InvalidModuleNameError{Path: rel, Name: name, Reason: reason}
	}

	content, err := a.fs.ReadFile(full)
	if err != nil {
		return Unit{}, &errUtils.AggregationError{Path: rel, Err: err}
	}
	if !IsText(content) {
		return Unit{}, &errUtils.AggregationError{
			Path: rel,
			Err:  fmt.Errorf("%w (detected %s)", errUtils.ErrNonTextOutput, mimetype.Detect(content).String()),
		}
	}
	return Unit{Name: name, Path: rel, Content: string(content)}, nil
}

func (a *Aggregator) reportCollisions(units []Unit) {
	groups := lo.GroupBy(units, func(u Unit) string { return u.Name })
	for _, u := range units {
		group := groups[u.Name]
		if len(group) < 2 || group[0].Path == u.Path {
			continue
		}
		a.observer.Emit(events.Event{
			Kind:   events.KindCollision,
			Path:   u.Path,
			Name:   u.Name,
			Reason: "also generated from " + group[0].Path,
		})
	}
}

// Stem returns base without its last extension. A leading dot does not start an
// extension, so ".hidden" is its own stem.
func Stem(base string) string {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base
	}
	return base[:i]
}

// IsText reports whether content sniffs as text and is valid UTF-8.
func IsText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	if !utf8.Valid(content) {
		return false
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
