// Package pipeline runs discovery, compilation and aggregation as one sequential run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/otiai10/copy"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/aggregate"
	"github.com/cloudposse/capnp-import/pkg/compiler"
	"github.com/cloudposse/capnp-import/pkg/discovery"
	"github.com/cloudposse/capnp-import/pkg/events"
	"github.com/cloudposse/capnp-import/pkg/filematch"
	"github.com/cloudposse/capnp-import/pkg/filesystem"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

const scratchPattern = "capnp-import-*"

// Options is the input of one run.
type Options struct {
	// Root is the traversal root and the compiler's working directory. Empty means ".".
	Root     string
	Patterns []string
	Engine   filematch.Engine

	FollowSymlinks bool
	// SkipDirs replaces discovery.DefaultSkipDirs when non-nil.
	SkipDirs []string

	// Compiler is the executable path, usually from compiler.Resolve.
	Compiler    string
	Plugin      string
	SrcPrefix   string
	ImportPaths []string
	ExtraArgs   []string

	// Target renders the output. Nil selects Rust.
	Target aggregate.Target

	// KeepGenerated, when set, receives a copy of the compiler output tree.
	KeepGenerated string
	// ScratchParent is where the per-run scratch directory is created. Empty means the
	// system temp directory.
	ScratchParent string
}

// Pipeline is a single run. It is not reusable.
type Pipeline struct {
	opts     Options
	runner   compiler.Runner
	fs       filesystem.FileSystem
	observer events.Observer
	runID    string

	state State
	err   error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunner replaces the os/exec compiler runner.
func WithRunner(r compiler.Runner) Option {
	return func(p *Pipeline) {
		p.runner = r
	}
}

// WithObserver receives every event of the run, stamped with the run ID.
func WithObserver(o events.Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// WithFileSystem replaces the OS filesystem for discovery, aggregation and scratch space.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return func(p *Pipeline) {
		p.fs = fsys
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.runID = id
	}
}

// New prepares a run. Nothing touches the filesystem until Run or Discover.
func New(opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		opts:   opts,
		runner: compiler.NewExecRunner(),
		fs:     filesystem.NewOSFileSystem(),
		runID:  uuid.NewString(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.opts.Root == "" {
		p.opts.Root = "."
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State { return p.state }

// Err returns the error that moved the run to Failed.
func (p *Pipeline) Err() error { return p.err }

// RunID identifies the run in events.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes every stage and returns the aggregated output. On any failure the output
// is nil and the state is Failed; the scratch directory is removed either way.
func (p *Pipeline) Run(ctx context.Context) (*aggregate.Output, error) {
	defer perf.Track(nil, "pipeline.Pipeline.Run")()

	files, err := p.Discover(ctx)
	if err != nil {
		return nil, err
	}

	target := p.opts.Target
	if target == nil {
		target, _ = aggregate.TargetByName(aggregate.TargetRust)
	}

	scratch, err := p.fs.MkdirTemp(p.opts.ScratchParent, scratchPattern)
	if err != nil {
		return nil, p.fail(fmt.Errorf("%w: %w", errUtils.ErrScratchDir, err))
	}
	defer p.removeScratch(scratch)
	// The compiler runs from Root, so it must get the same absolute directory the
	// aggregator reads.
	if scratch, err = filepath.Abs(scratch); err != nil {
		return nil, p.fail(fmt.Errorf("%w: %w", errUtils.ErrScratchDir, err))
	}

	cmd := p.command(scratch, target, files)
	if err := p.runner.Run(ctx, cmd); err != nil {
		return nil, p.fail(err)
	}
	p.transition(CompilerRun)

	if p.opts.KeepGenerated != "" {
		if err := copy.Copy(scratch, p.opts.KeepGenerated); err != nil {
			return nil, p.fail(fmt.Errorf("%w to %s: %w", errUtils.ErrKeepGenerated, p.opts.KeepGenerated, err))
		}
	}

	out, err := aggregate.New(target,
		aggregate.WithObserver(p.emit),
		aggregate.WithFileSystem(p.fs),
	).Aggregate(ctx, scratch)
	if err != nil {
		return nil, p.fail(err)
	}
	p.transition(OutputAggregated)

	p.transition(Done)
	return out, nil
}

// Discover compiles the patterns and walks the root, stopping at FilesDiscovered.
func (p *Pipeline) Discover(ctx context.Context) ([]string, error) {
	defer perf.Track(nil, "pipeline.Pipeline.Discover")()

	if p.state != Idle {
		return nil, fmt.Errorf("%w (state %s)", errUtils.ErrPipelineReused, p.state)
	}

	matcher, err := filematch.NewCombinedMatcher(p.opts.Patterns, filematch.WithEngine(p.engine()))
	if err != nil {
		return nil, p.fail(err)
	}
	p.transition(PatternsCompiled)

	opts := []discovery.Option{
		discovery.WithFollowSymlinks(p.opts.FollowSymlinks),
		discovery.WithObserver(p.emit),
		discovery.WithFileSystem(p.fs),
	}
	if p.opts.SkipDirs != nil {
		opts = append(opts, discovery.WithSkipDirs(p.opts.SkipDirs...))
	}
	files, err := discovery.New(p.opts.Root, matcher, opts...).Discover(ctx)
	if err != nil {
		return nil, p.fail(err)
	}
	p.transition(FilesDiscovered)
	return files, nil
}

func (p *Pipeline) engine() filematch.Engine {
	if p.opts.Engine == "" {
		return filematch.EngineDoublestar
	}
	return p.opts.Engine
}

func (p *Pipeline) command(scratch string, target aggregate.Target, files []string) *compiler.Command {
	plugin := p.opts.Plugin
	if plugin == "" {
		plugin = aggregate.DefaultPlugin(target)
	}

	cmd := compiler.NewCommand(p.opts.Compiler).
		Dir(p.opts.Root).
		OutputPath(scratch).
		Plugin(plugin).
		SrcPrefix(p.opts.SrcPrefix).
		ExtraArgs(p.opts.ExtraArgs...)
	for _, dir := range p.opts.ImportPaths {
		cmd.ImportPath(dir)
	}
	for _, f := range files {
		cmd.File(filepath.FromSlash(f))
	}
	return cmd
}

func (p *Pipeline) removeScratch(dir string) {
	if err := p.fs.RemoveAll(dir); err != nil {
		p.emit(events.Event{Kind: events.KindWarning, Path: dir, Reason: "Failed to remove scratch directory", Err: err})
	}
}

func (p *Pipeline) transition(s State) {
	p.state = s
	p.emit(events.Event{Kind: events.KindStage, Stage: s.String()})
}

func (p *Pipeline) fail(err error) error {
	p.state = Failed
	p.err = err
	p.emit(events.Event{Kind: events.KindStage, Stage: Failed.String(), Err: err})
	return err
}

func (p *Pipeline) emit(e events.Event) {
	e.RunID = p.runID
	p.observer.Emit(e)
}
