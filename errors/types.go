package errors

import (
	"fmt"
	"strings"
)

// PatternSyntaxError reports a glob that does not lex or parse.
type PatternSyntaxError struct {
	Pattern string
	Index   int
	Err     error
}

func (e *PatternSyntaxError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q (pattern #%d)", ErrPatternSyntax, e.Pattern, e.Index)
	}
	return fmt.Sprintf("%s %q (pattern #%d): %v", ErrPatternSyntax, e.Pattern, e.Index, e.Err)
}

func (e *PatternSyntaxError) Unwrap() error { return e.Err }

func (e *PatternSyntaxError) Is(target error) bool { return target == ErrPatternSyntax }

// DiscoveryError reports an I/O failure while walking the project tree.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("%s at %s: %v", ErrDiscovery, e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

func (e *DiscoveryError) Is(target error) bool { return target == ErrDiscovery }

// CompilerInvocationError reports a compiler that could not be spawned or exited non-zero.
// ExitCode is -1 when the process never started.
type CompilerInvocationError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CompilerInvocationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrCompilerInvocation.Error())
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompilerInvocationError) Unwrap() error { return e.Err }

func (e *CompilerInvocationError) Is(target error) bool { return target == ErrCompilerInvocation }

// AggregationError reports a generated file that could not be folded into the output.
type AggregationError struct {
	Path string
	Err  error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s from %s: %v", ErrAggregation, e.Path, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

func (e *AggregationError) Is(target error) bool { return target == ErrAggregation }

// InvalidModuleNameError reports a file stem that cannot name a scope in the target language.
type InvalidModuleNameError struct {
	Path   string
	Name   string
	Reason string
}

func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("%s %q derived from %s: %s", ErrInvalidModuleName, e.Name, e.Path, e.Reason)
}

func (e *InvalidModuleNameError) Is(target error) bool { return target == ErrInvalidModuleName }
