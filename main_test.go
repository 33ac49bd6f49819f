package main

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/xdg"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	t.Setenv(xdg.ConfigHomeOverride, t.TempDir())
	t.Chdir(t.TempDir())

	prev := os.Args
	os.Args = append([]string{"capnp-import"}, args...)
	t.Cleanup(func() { os.Args = prev })
}

func TestRun_Success(t *testing.T) {
	withArgs(t, "version", "--logs-level", "Off")
	assert.Equal(t, 0, run())
}

func TestRun_UsageErrorExitCode(t *testing.T) {
	withArgs(t, "ls", "--format", "xml", "--logs-level", "Off", "*.capnp")
	assert.Equal(t, errUtils.ExitCodeUsage, run())
}

func TestRun_NoPatternsExitCode(t *testing.T) {
	withArgs(t, "ls", "--logs-level", "Off")
	assert.Equal(t, errUtils.ExitCodeUsage, run())
}

func TestWatchSignals_ExitsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	received, done := watchSignals(ctx, cancel, make(chan os.Signal))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("signal watcher did not exit after the context was cancelled")
	}
	assert.Zero(t, received.Load())
}

func TestWatchSignals_SignalCancelsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	received, done := watchSignals(ctx, cancel, sigChan)

	sigChan <- syscall.SIGTERM
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("signal watcher did not exit after a signal")
	}
	assert.Equal(t, int32(syscall.SIGTERM), received.Load())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
