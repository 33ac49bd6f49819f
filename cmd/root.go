package cmd

import (
	"context"
	"io"
	"sync"

	"github.com/spf13/cobra"

	errUtils "github.com/cloudposse/capnp-import/errors"
	cfg "github.com/cloudposse/capnp-import/pkg/config"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
	"github.com/cloudposse/capnp-import/pkg/schema"
)

var (
	cleanupMu sync.Mutex
	logCloser io.Closer
)

// cliState is shared by the commands of one command tree.
type cliState struct {
	config *schema.Configuration
}

// NewRootCmd builds the command tree. Each call returns independent flags and state.
func NewRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:   "capnp-import",
		Short: "Compile Cap'n Proto schemas selected by glob patterns into one source file",
		Long: `capnp-import finds schema files under a project root with glob patterns, runs the Cap'n Proto
compiler on them and folds the generated files into a single source file in which every
generated file lives in its own module named after the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.initConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return state.printProfile(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(cfg.FlagConfig, "", "Path to a capnp-import.yaml file merged over the default locations")
	flags.String(cfg.FlagRoot, ".", "Directory to search for schema files; the compiler runs from here")
	flags.String(cfg.FlagLogsLevel, cfg.DefaultLogLevel, "Logs level. Supported log levels are Trace, Debug, Info, Warning, Error, Off")
	flags.String(cfg.FlagLogsFile, cfg.DefaultLogFile, "The file to write logs to, including '/dev/stdout' and '/dev/stderr'")
	flags.Bool(cfg.FlagProfile, false, "Print a table of time spent per function to stderr when the command finishes")
	flags.Bool("verbose", false, "Show error details and stack traces")

	rootCmd.AddCommand(
		newGenerateCmd(state),
		newListCmd(state),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with the process arguments.
// This is called by main.main().
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// Cleanup releases resources opened while running a command.
func Cleanup() {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()

	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func (s *cliState) initConfig(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	errUtils.SetVerbose(verbose)

	configFile, _ := cmd.Flags().GetString(cfg.FlagConfig)
	c, err := cfg.LoadConfig(cfg.LoadOptions{ConfigFile: configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	s.config = c

	logger, closer, err := log.NewLoggerFromConfig(c.Logs.Level, c.Logs.File)
	if err != nil {
		return err
	}
	log.SetDefault(logger)

	cleanupMu.Lock()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logCloser = closer
	cleanupMu.Unlock()

	if c.ConfigFileUsed != "" {
		log.Debug("Using config file", "file", c.ConfigFileUsed)
	}

	if c.Profile.Enabled {
		perf.EnableTracking(true)
	}
	return nil
}

func (s *cliState) printProfile(w io.Writer) error {
	if s.config == nil || !perf.IsTrackingEnabled() {
		return nil
	}
	return perf.WriteReport(w, perf.TakeSnapshot(s.config.Profile.Top))
}
