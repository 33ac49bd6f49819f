package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/aggregate"
	"github.com/cloudposse/capnp-import/pkg/compiler"
	cfg "github.com/cloudposse/capnp-import/pkg/config"
	"github.com/cloudposse/capnp-import/pkg/events"
	"github.com/cloudposse/capnp-import/pkg/filematch"
	"github.com/cloudposse/capnp-import/pkg/filesystem"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
	"github.com/cloudposse/capnp-import/pkg/pipeline"
	"github.com/cloudposse/capnp-import/pkg/schema"
)

// GeneratedHeader prefixes the output unless output.header is false.
const GeneratedHeader = "// Code generated by capnp-import. DO NOT EDIT.\n\n"

func newGenerateCmd(state *cliState) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:     "generate [patterns...]",
		Aliases: []string{"gen"},
		Short:   "Compile the matching schema files and write the combined source",
		Long: `Find every regular file under the root that matches at least one pattern, run the schema
compiler on them, and write the generated files wrapped in one module per file.

Patterns given as arguments replace the patterns from the configuration.`,
		Example: `capnp-import generate 'schemas/**/*.capnp' -o src/schemas.rs
capnp-import gen --target cpp --plugin c++ 'proto/*.capnp'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeGenerate(cmd.Context(), cmd.OutOrStdout(), state.config, args)
		},
	}

	addDiscoveryFlags(generateCmd)
	flags := generateCmd.Flags()
	flags.String(cfg.FlagCompiler, "", "Schema compiler executable (default: $CAPNP_IMPORT_COMPILER, $CAPNP, or capnp on PATH)")
	flags.String(cfg.FlagPlugin, "", "Compiler output plugin (default: rust for the rust target, c++ for cpp)")
	flags.StringSlice(cfg.FlagImportPath, nil, "Directory to search for absolute imports (repeatable)")
	flags.String(cfg.FlagSrcPrefix, "", "Prefix stripped from input paths when naming generated files")
	flags.String(cfg.FlagTarget, cfg.DefaultTarget, "Output language: rust or cpp")
	flags.StringP(cfg.FlagOutput, "o", "", "Write the result to this file instead of stdout")
	flags.Bool(cfg.FlagNoHeader, false, "Do not prefix the output with a generated-code comment")
	flags.String(cfg.FlagKeepGenerated, "", "Copy the compiler's raw output into this directory")

	return generateCmd
}

func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(cfg.FlagFollowSymlinks, false, "Descend into symlinked directories and include symlinked files")
	cmd.Flags().String(cfg.FlagEngine, cfg.DefaultEngine, "Glob engine: doublestar or gobwas")
}

func executeGenerate(ctx context.Context, stdout io.Writer, c *schema.Configuration, args []string) error {
	defer perf.Track(c, "cmd.executeGenerate")()

	target, err := aggregate.TargetByName(c.Output.Target)
	if err != nil {
		return err
	}
	executable, err := compiler.Resolve(ctx, compiler.ResolveOptions{
		Path:    c.Compiler.Path,
		Version: c.Compiler.Version,
	})
	if err != nil {
		return err
	}
	extraArgs, err := compiler.SplitArgs(c.Compiler.Args)
	if err != nil {
		return err
	}

	opts, err := pipelineOptions(c, args)
	if err != nil {
		return err
	}
	opts.Compiler = executable
	opts.Plugin = c.Compiler.Plugin
	opts.SrcPrefix = c.Compiler.SrcPrefix
	opts.ImportPaths = c.Compiler.ImportPaths
	opts.ExtraArgs = extraArgs
	opts.Target = target
	opts.KeepGenerated = c.Output.KeepGenerated

	p := pipeline.New(opts, pipeline.WithObserver(events.LogObserver()))
	log.Debug("Starting run", "run", p.RunID(), "root", opts.Root, "patterns", opts.Patterns)

	out, err := p.Run(ctx)
	if err != nil {
		return withHints(err)
	}

	blob := out.String()
	if c.Output.Header {
		blob = GeneratedHeader + blob
	}

	if c.Output.File == "" || c.Output.File == "-" {
		_, err := io.WriteString(stdout, blob)
		return err
	}

	file := c.Output.File
	err = filesystem.WithFileLock(file, func() error {
		return filesystem.WriteFileAtomic(file, []byte(blob), 0o644)
	})
	if err != nil {
		return err
	}
	log.Info("Wrote generated modules", "file", file, "modules", len(out.Units))
	return nil
}

// pipelineOptions fills the discovery part of a run from the configuration.
// Patterns given on the command line replace the configured ones.
func pipelineOptions(c *schema.Configuration, args []string) (pipeline.Options, error) {
	patterns := c.Patterns
	if len(args) > 0 {
		patterns = args
	}

	engine, err := filematch.ParseEngine(c.Match.Engine)
	if err != nil {
		return pipeline.Options{}, err
	}

	root, err := filepath.Abs(c.Root)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("%w: root %s: %w", errUtils.ErrInvalidConfig, c.Root, err)
	}

	return pipeline.Options{
		Root:           root,
		Patterns:       patterns,
		Engine:         engine,
		FollowSymlinks: c.FollowSymlinks,
		SkipDirs:       c.SkipDirs,
	}, nil
}

// withHints attaches remediation hints for failures a user can act on.
func withHints(err error) error {
	b := errUtils.Build(err)
	switch {
	case errors.Is(err, errUtils.ErrNoPatterns):
		b.WithHint("Pass patterns as arguments or set `patterns` in capnp-import.yaml")
	case errors.Is(err, errUtils.ErrPatternSyntax):
		b.WithHint("Check for unbalanced '[' or '{' in the pattern")
	case errors.Is(err, errUtils.ErrCompilerInvocation):
		b.WithHint("Run with --logs-level=Debug to see the full compiler command and output")
	case errors.Is(err, errUtils.ErrInvalidModuleName):
		b.WithHint("Rename the schema file so its name without extension is a valid identifier")
	case errors.Is(err, errUtils.ErrNonTextOutput):
		b.WithHint("Only compiler plugins that emit source text are supported")
	default:
		return err
	}
	return b.Err()
}
