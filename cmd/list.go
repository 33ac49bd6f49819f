package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudposse/capnp-import/pkg/events"
	"github.com/cloudposse/capnp-import/pkg/perf"
	"github.com/cloudposse/capnp-import/pkg/pipeline"
	"github.com/cloudposse/capnp-import/pkg/schema"
)

// Listing is the structured output of `capnp-import ls`.
type Listing struct {
	Root     string   `json:"root" yaml:"root"`
	Patterns []string `json:"patterns" yaml:"patterns"`
	Files    []string `json:"files" yaml:"files"`
}

func newListCmd(state *cliState) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:     "ls [patterns...]",
		Aliases: []string{"list"},
		Short:   "List the schema files the patterns select, without compiling",
		Long: `Compile the patterns and walk the root exactly as generate does, then print the files that
would be passed to the compiler, in the order they would be passed.`,
		Example: `capnp-import ls 'schemas/**/*.capnp'
capnp-import ls --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeList(cmd.Context(), cmd.OutOrStdout(), state.config, args, format)
		},
	}

	addDiscoveryFlags(listCmd)
	listCmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return listCmd
}

func executeList(ctx context.Context, stdout io.Writer, c *schema.Configuration, args []string, format string) error {
	defer perf.Track(c, "cmd.executeList")()

	opts, err := pipelineOptions(c, args)
	if err != nil {
		return err
	}

	p := pipeline.New(opts, pipeline.WithObserver(events.LogObserver()))
	files, err := p.Discover(ctx)
	if err != nil {
		return withHints(err)
	}

	listing := Listing{Root: opts.Root, Patterns: opts.Patterns, Files: files}
	return printFormatted(stdout, format, listing, func(w io.Writer) error {
		for _, f := range files {
			if _, err := io.WriteString(w, f+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}
