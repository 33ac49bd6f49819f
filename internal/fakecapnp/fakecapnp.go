// Package fakecapnp is a stand-in for the capnp executable used by tests.
//
// A test binary calls RunIfRequested from TestMain and then uses its own path as the
// compiler executable. With EnvActivate set, the re-executed binary behaves like
// "capnp compile": it writes one <stem>.<ext> file per input under the output directory,
// mirroring the input's directory.
package fakecapnp

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// EnvActivate switches the test binary into compiler mode.
	EnvActivate = "CAPNP_IMPORT_FAKE_CAPNP"
	// EnvExitCode makes "compile" fail with the given status after writing EnvStderr.
	EnvExitCode = "CAPNP_IMPORT_FAKE_CAPNP_EXIT"
	// EnvStderr is written to stderr when EnvExitCode is set.
	EnvStderr = "CAPNP_IMPORT_FAKE_CAPNP_STDERR"
	// EnvBinary makes generated files contain non-text bytes.
	EnvBinary = "CAPNP_IMPORT_FAKE_CAPNP_BINARY"
	// EnvVersion overrides the version reported by "--version".
	EnvVersion = "CAPNP_IMPORT_FAKE_CAPNP_VERSION"
	// EnvArgsFile records the received arguments, one per line.
	EnvArgsFile = "CAPNP_IMPORT_FAKE_CAPNP_ARGS_FILE"

	defaultVersion = "1.0.2"
)

// RunIfRequested exits the process with the fake compiler's status when EnvActivate is set.
func RunIfRequested() {
	if os.Getenv(EnvActivate) != "1" {
		return
	}
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

// Executable returns the path of the running test binary.
func Executable() (string, error) {
	return os.Executable()
}

// Main runs the fake compiler and returns its exit status.
func Main(args []string, stdout, stderr io.Writer) int {
	if f := os.Getenv(EnvArgsFile); f != "" {
		_ = os.WriteFile(f, []byte(strings.Join(args, "\n")), 0o644)
	}

	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: capnp compile --output=<plugin>:<dir> <files...>")
		return 1
	}

	switch args[0] {
	case "--version":
		v := os.Getenv(EnvVersion)
		if v == "" {
			v = defaultVersion
		}
		fmt.Fprintf(stdout, "Cap'n Proto version %s\n", v)
		return 0
	case "compile":
		return compile(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 1
	}
}

func compile(args []string, stdout, stderr io.Writer) int {
	var plugin, outDir, srcPrefix string
	var files []string
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "--output="):
			plugin, outDir, _ = strings.Cut(strings.TrimPrefix(a, "--output="), ":")
		case strings.HasPrefix(a, "--src-prefix="):
			srcPrefix = strings.TrimPrefix(a, "--src-prefix=")
		case strings.HasPrefix(a, "-"):
		default:
			files = append(files, a)
		}
	}

	if code := os.Getenv(EnvExitCode); code != "" {
		fmt.Fprint(stderr, os.Getenv(EnvStderr))
		n, err := strconv.Atoi(code)
		if err != nil {
			return 1
		}
		return n
	}

	fmt.Fprintf(stdout, "compiling %d file(s) with plugin %s\n", len(files), plugin)
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", f, err)
			return 1
		}

		rel := strings.TrimPrefix(filepath.ToSlash(f), srcPrefix)
		rel = strings.TrimPrefix(rel, "/")
		stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		out := filepath.Join(outDir, filepath.FromSlash(path.Dir(rel)), stem+"."+extension(plugin))

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := os.WriteFile(out, generate(plugin, stem, f, src), 0o644); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

func extension(plugin string) string {
	switch plugin {
	case "c++":
		return "h"
	default:
		return "rs"
	}
}

func generate(plugin, stem, file string, src []byte) []byte {
	if os.Getenv(EnvBinary) != "" {
		return []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x00, 0x10}
	}
	if plugin == "c++" {
		return []byte(fmt.Sprintf("// %s (%d bytes)\nstruct %s {};", file, len(src), typeName(stem)))
	}
	return []byte(fmt.Sprintf("// %s (%d bytes)\npub struct %s;", file, len(src), typeName(stem)))
}

func typeName(stem string) string {
	if stem == "" {
		return "Empty"
	}
	return strings.ToUpper(stem[:1]) + stem[1:]
}
