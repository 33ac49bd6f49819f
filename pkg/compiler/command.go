// Package compiler builds and runs the schema compiler command line.
//
// The rendered command follows the capnp contract:
//
//	capnp compile --output=<plugin>:<outdir> [--src-prefix=<p>] [--import-path=<dir>]... [extra...] <files...>
package compiler

import (
	"al.essio.dev/pkg/shellescape"
)

// DefaultPlugin is the output plugin used when none is set.
const DefaultPlugin = "rust"

// Command accumulates one compiler invocation. Inputs keep the order they were added in.
type Command struct {
	executable  string
	outputDir   string
	plugin      string
	srcPrefix   string
	importPaths []string
	extraArgs   []string
	files       []string
	dir         string
}

// NewCommand starts a command for the given compiler executable.
func NewCommand(executable string) *Command {
	return &Command{executable: executable, plugin: DefaultPlugin}
}

// OutputPath sets the directory the plugin writes generated files into.
func (c *Command) OutputPath(dir string) *Command {
	c.outputDir = dir
	return c
}

// Plugin sets the output plugin name ("rust", "c++", ...). Empty keeps the current one.
func (c *Command) Plugin(name string) *Command {
	if name != "" {
		c.plugin = name
	}
	return c
}

// SrcPrefix strips prefix from input paths when naming generated files.
func (c *Command) SrcPrefix(prefix string) *Command {
	c.srcPrefix = prefix
	return c
}

// ImportPath adds a directory searched for absolute imports.
func (c *Command) ImportPath(dir string) *Command {
	c.importPaths = append(c.importPaths, dir)
	return c
}

// ExtraArgs appends arguments placed before the input files.
func (c *Command) ExtraArgs(args ...string) *Command {
	c.extraArgs = append(c.extraArgs, args...)
	return c
}

// File appends one input schema file.
func (c *Command) File(path string) *Command {
	c.files = append(c.files, path)
	return c
}

// Dir sets the working directory the compiler runs in. Input paths are relative to it.
func (c *Command) Dir(dir string) *Command {
	c.dir = dir
	return c
}

// Executable returns the compiler path.
func (c *Command) Executable() string {
	return c.executable
}

// OutputDir returns the directory passed to OutputPath.
func (c *Command) OutputDir() string {
	return c.outputDir
}

// WorkDir returns the directory passed to Dir.
func (c *Command) WorkDir() string {
	return c.dir
}

// Files returns the input files in order.
func (c *Command) Files() []string {
	return append([]string(nil), c.files...)
}

// Args renders the argument vector, excluding the executable.
func (c *Command) Args() []string {
	args := make([]string, 0, 3+len(c.importPaths)+len(c.extraArgs)+len(c.files))
	args = append(args, "compile")

	output := c.plugin
	if c.outputDir != "" {
		output += ":" + c.outputDir
	}
	args = append(args, "--output="+output)

	if c.srcPrefix != "" {
		args = append(args, "--src-prefix="+c.srcPrefix)
	}
	for _, dir := range c.importPaths {
		args = append(args, "--import-path="+dir)
	}
	args = append(args, c.extraArgs...)
	args = append(args, c.files...)
	return args
}

// String renders the full command line, shell-quoted.
func (c *Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.executable}, c.Args()...))
}
