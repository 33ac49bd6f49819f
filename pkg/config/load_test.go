package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/xdg"
)

// isolate points the XDG config home at an empty directory and runs the test from a
// fresh working directory.
func isolate(t *testing.T) (xdgHome, wd string) {
	t.Helper()
	xdgHome = t.TempDir()
	t.Setenv(xdg.ConfigHomeOverride, xdgHome)
	wd = t.TempDir()
	t.Chdir(wd)
	return xdgHome, wd
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, ConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(FlagRoot, ".", "")
	fs.String(FlagLogsLevel, DefaultLogLevel, "")
	fs.String(FlagTarget, DefaultTarget, "")
	fs.StringSlice(FlagImportPath, nil, "")
	fs.Bool(FlagNoHeader, false, "")
	fs.Bool(FlagFollowSymlinks, false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Root)
	assert.Empty(t, cfg.Patterns)
	assert.Equal(t, []string{".git"}, cfg.SkipDirs)
	assert.Equal(t, DefaultEngine, cfg.Match.Engine)
	assert.Equal(t, DefaultTarget, cfg.Output.Target)
	assert.True(t, cfg.Output.Header)
	assert.Equal(t, DefaultLogLevel, cfg.Logs.Level)
	assert.Equal(t, DefaultLogFile, cfg.Logs.File)
	assert.Empty(t, cfg.ConfigFileUsed)
}

func TestLoadConfig_RootFile(t *testing.T) {
	_, wd := isolate(t)
	file := writeConfig(t, wd, `
patterns:
  - schemas/**/*.capnp
follow_symlinks: true
compiler:
  plugin: c++
  import_paths: [/usr/include]
  args: --no-standard-import
output:
  target: cpp
  header: false
`)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"schemas/**/*.capnp"}, cfg.Patterns)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, "c++", cfg.Compiler.Plugin)
	assert.Equal(t, []string{"/usr/include"}, cfg.Compiler.ImportPaths)
	assert.Equal(t, "--no-standard-import", cfg.Compiler.Args)
	assert.Equal(t, "cpp", cfg.Output.Target)
	assert.False(t, cfg.Output.Header)

	resolved, err := filepath.EvalSymlinks(file)
	require.NoError(t, err)
	used, err := filepath.EvalSymlinks(cfg.ConfigFileUsed)
	require.NoError(t, err)
	assert.Equal(t, resolved, used)
}

func TestLoadConfig_PatternsAreVerbatim(t *testing.T) {
	_, wd := isolate(t)
	writeConfig(t, wd, `
patterns:
  - ""
  - " spaced.capnp"
compiler:
  import_paths: ["", /usr/include]
`)

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"", " spaced.capnp"}, cfg.Patterns)
	assert.Equal(t, []string{"/usr/include"}, cfg.Compiler.ImportPaths)
}

func TestLoadConfig_Precedence(t *testing.T) {
	xdgHome, wd := isolate(t)
	writeConfig(t, filepath.Join(xdgHome, "capnp-import"), `
patterns: [from-xdg]
logs:
  level: Debug
output:
  target: cpp
`)
	writeConfig(t, wd, `
patterns: [from-root]
`)
	explicit := writeConfig(t, t.TempDir(), `
match:
  engine: gobwas
`)
	t.Setenv("CAPNP_IMPORT_OUTPUT_TARGET", "rust")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--logs-level=Trace"}))

	cfg, err := LoadConfig(LoadOptions{ConfigFile: explicit, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, []string{"from-root"}, cfg.Patterns, "root file overrides the XDG file")
	assert.Equal(t, "gobwas", cfg.Match.Engine, "--config file is merged")
	assert.Equal(t, "rust", cfg.Output.Target, "environment overrides files")
	assert.Equal(t, "Trace", cfg.Logs.Level, "flags override everything")
	assert.Equal(t, explicit, cfg.ConfigFileUsed)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	_, wd := isolate(t)
	writeConfig(t, wd, "output:\n  target: cpp\n")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig(LoadOptions{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "cpp", cfg.Output.Target)
}

func TestLoadConfig_RootFlagSelectsRootFile(t *testing.T) {
	isolate(t)
	project := t.TempDir()
	writeConfig(t, project, "patterns: [proj/*.capnp]\n")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--root", project, "--no-header", "--import-path", "a,b"}))

	cfg, err := LoadConfig(LoadOptions{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, project, cfg.Root)
	assert.Equal(t, []string{"proj/*.capnp"}, cfg.Patterns)
	assert.False(t, cfg.Output.Header)
	assert.Equal(t, []string{"a", "b"}, cfg.Compiler.ImportPaths)
}

func TestLoadConfig_EnvList(t *testing.T) {
	isolate(t)
	t.Setenv("CAPNP_IMPORT_PATTERNS", "a/*.capnp b/*.capnp")
	t.Setenv("CAPNP_IMPORT_FOLLOW_SYMLINKS", "true")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/*.capnp", "b/*.capnp"}, cfg.Patterns)
	assert.True(t, cfg.FollowSymlinks)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
	assert.Equal(t, errUtils.ExitCodeUsage, errUtils.GetExitCode(err))
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	_, wd := isolate(t)
	writeConfig(t, wd, "patterns: [unterminated\n")

	_, err := LoadConfig(LoadOptions{})
	assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "engine", content: "match:\n  engine: regex\n", want: errUtils.ErrUnknownMatchEngine},
		{name: "target", content: "output:\n  target: go\n", want: errUtils.ErrUnknownTarget},
		{name: "log level", content: "logs:\n  level: Loud\n", want: errUtils.ErrInvalidConfig},
		{name: "profile top", content: "profile:\n  top: -1\n", want: errUtils.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, wd := isolate(t)
			writeConfig(t, wd, tt.content)

			_, err := LoadConfig(LoadOptions{})
			assert.ErrorIs(t, err, errUtils.ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
