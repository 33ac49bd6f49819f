package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	errUtils "github.com/cloudposse/capnp-import/errors"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

// Runner executes a compiler command to completion.
//
//go:generate go run go.uber.org/mock/mockgen@latest -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE
type Runner interface {
	Run(ctx context.Context, cmd *Command) error
}

// ExecRunner runs the compiler as a child process.
type ExecRunner struct {
	// Env is appended to the inherited environment.
	Env []string
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run blocks until the compiler exits. Stdout is logged at debug level. Stderr is logged
// and kept for the error. A non-zero exit or a failed spawn yields a
// *errors.CompilerInvocationError. Cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, cmd *Command) error {
	defer perf.Track(nil, "compiler.ExecRunner.Run")()

	commandLine := cmd.String()
	log.Debug("Running schema compiler", "command", commandLine, "dir", cmd.dir, "files", len(cmd.files))

	c := exec.CommandContext(ctx, cmd.executable, cmd.Args()...)
	c.Dir = cmd.dir
	if len(r.Env) > 0 {
		c.Env = append(c.Environ(), r.Env...)
	}

	stdout := newLineLogger("stdout")
	stderrLog := newLineLogger("stderr")
	var stderr bytes.Buffer
	c.Stdout = stdout
	c.Stderr = io.MultiWriter(&stderr, stderrLog)

	err := c.Run()
	stdout.Flush()
	stderrLog.Flush()
	if err == nil {
		return nil
	}

	invErr := &errUtils.CompilerInvocationError{
		Command:  commandLine,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		invErr.Err = ctx.Err()
	case errors.As(err, &exitErr):
		invErr.ExitCode = exitErr.ExitCode()
		invErr.Err = err
	default:
		invErr.Err = err
	}
	return invErr
}

// lineLogger forwards complete lines written to it to the debug log.
type lineLogger struct {
	mu     sync.Mutex
	stream string
	buf    bytes.Buffer
}

func newLineLogger(stream string) *lineLogger {
	return &lineLogger{stream: stream}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		log.Debug(strings.TrimRight(line, "\r\n"), "stream", l.stream)
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() > 0 {
		log.Debug(l.buf.String(), "stream", l.stream)
		l.buf.Reset()
	}
}
