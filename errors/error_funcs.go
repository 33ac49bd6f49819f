package errors

import (
	"io"
	"os"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit

// verbose is set from the --verbose flag once flags are parsed.
var verbose bool

// SetVerbose toggles verbose error rendering for PrintError.
func SetVerbose(v bool) {
	verbose = v
}

// PrintError writes the formatted error to w. Nothing is written for a nil error.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	cfg := DefaultFormatterConfig()
	cfg.Verbose = verbose
	_, _ = io.WriteString(w, Format(err, cfg)+newline)
}

// CheckErrorPrintAndExit prints err to stderr and exits with its exit code.
func CheckErrorPrintAndExit(err error) {
	if err == nil {
		return
	}
	PrintError(os.Stderr, err)
	Exit(GetExitCode(err))
}

// Exit exits the program with the specified exit code.
func Exit(exitCode int) {
	OsExit(exitCode)
}
