package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	errUtils "github.com/cloudposse/capnp-import/errors"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

const (
	// DefaultExecutable is looked up on PATH when nothing else names a compiler.
	DefaultExecutable = "capnp"

	// EnvCompiler names the compiler executable.
	EnvCompiler = "CAPNP_IMPORT_COMPILER"
	// EnvCapnp is the conventional variable honored by other capnp tooling.
	EnvCapnp = "CAPNP"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?`)

// ResolveOptions configures Resolve. Zero values select the process environment.
type ResolveOptions struct {
	// Path is an explicit executable name or path.
	Path string
	// Version is an optional semver constraint such as ">= 0.10".
	Version string

	LookPath func(file string) (string, error)
	Getenv   func(key string) string
	// ReadVersion returns the raw output of "<exe> --version".
	ReadVersion func(ctx context.Context, executable string) (string, error)
}

// Resolve returns the compiler executable to run. The first non-empty source wins:
// opts.Path, $CAPNP_IMPORT_COMPILER, $CAPNP, then "capnp" on PATH.
// When opts.Version is set, the compiler's reported version must satisfy it.
func Resolve(ctx context.Context, opts ResolveOptions) (string, error) {
	defer perf.Track(nil, "compiler.Resolve")()

	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.ReadVersion == nil {
		opts.ReadVersion = readVersion
	}

	name, source := opts.Path, "compiler.path"
	if name == "" {
		name, source = opts.Getenv(EnvCompiler), EnvCompiler
	}
	if name == "" {
		name, source = opts.Getenv(EnvCapnp), EnvCapnp
	}
	if name == "" {
		name, source = DefaultExecutable, "PATH"
	}

	executable, err := opts.LookPath(name)
	if err != nil {
		return "", errUtils.Build(fmt.Errorf("%w: %s", errUtils.ErrCompilerNotFound, name)).
			WithExplanation(err.Error()).
			WithContext("compiler", name).
			WithContext("source", source).
			WithHint("Install Cap'n Proto (https://capnproto.org/install.html) or set compiler.path").
			WithHintf("The compiler can also be named with $%s", EnvCompiler).
			Err()
	}
	if !filepath.IsAbs(executable) {
		if abs, err := filepath.Abs(executable); err == nil {
			executable = abs
		}
	}
	log.Debug("Resolved schema compiler", "path", executable, "source", source)

	if opts.Version == "" {
		return executable, nil
	}
	if err := checkVersion(ctx, executable, opts.Version, opts.ReadVersion); err != nil {
		return "", err
	}
	return executable, nil
}

func checkVersion(ctx context.Context, executable, constraint string, read func(context.Context, string) (string, error)) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Join(
			errUtils.ErrInvalidConfig,
			fmt.Errorf("invalid compiler.version constraint %q: %w", constraint, err),
		)
	}

	out, err := read(ctx, executable)
	if err != nil {
		return errors.Join(errUtils.ErrCompilerVersionRead, err)
	}
	v, err := ParseVersion(out)
	if err != nil {
		return errors.Join(errUtils.ErrCompilerVersionRead, err)
	}

	if !c.Check(v) {
		return errUtils.Build(fmt.Errorf("%w: %s reports %s, want %s", errUtils.ErrCompilerVersion, executable, v, constraint)).
			WithContext("compiler", executable).
			WithContext("version", v.String()).
			WithContext("constraint", constraint).
			WithHint("Install a matching Cap'n Proto release or relax compiler.version").
			Err()
	}
	log.Debug("Schema compiler version accepted", "version", v.String(), "constraint", constraint)
	return nil
}

// ParseVersion extracts the version from "--version" output such as "Cap'n Proto version 1.0.2".
func ParseVersion(output string) (*semver.Version, error) {
	raw := versionPattern.FindString(strings.TrimSpace(output))
	if raw == "" {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(output))
	}
	return semver.NewVersion(raw)
}

func readVersion(ctx context.Context, executable string) (string, error) {
	var out bytes.Buffer
	c := exec.CommandContext(ctx, executable, "--version")
	c.Stdout = &out
	c.Stderr = &out
	if err := c.Run(); err != nil {
		return "", err
	}
	return out.String(), nil
}
