package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/cloudposse/capnp-import/cmd"
	errUtils "github.com/cloudposse/capnp-import/errors"
	log "github.com/cloudposse/capnp-import/pkg/logger"
)

func main() {
	// Use errUtils.OsExit to allow test interception.
	errUtils.OsExit(run())
}

// run executes the CLI and returns the process exit code.
// A SIGINT or SIGTERM cancels the running command, which removes its scratch directory,
// and the process then exits with 128 + the signal number.
func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	received, done := watchSignals(ctx, cancel, sigChan)
	defer func() {
		cancel()
		<-done
	}()

	defer cmd.Cleanup()

	err := cmd.Execute(ctx)
	if sig := received.Load(); sig != 0 {
		return 128 + int(sig)
	}
	if err != nil {
		errUtils.PrintError(os.Stderr, err)

		exitCode := errUtils.GetExitCode(err)
		log.Debug("Exiting with exit code", "code", exitCode)
		return exitCode
	}
	return 0
}

// watchSignals cancels the run on the first signal and records its number. The returned
// channel is closed once the watcher exits, either after a signal or when ctx is done.
func watchSignals(ctx context.Context, cancel context.CancelFunc, sigChan <-chan os.Signal) (*atomic.Int32, <-chan struct{}) {
	received := &atomic.Int32{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigChan:
			if s, ok := sig.(syscall.Signal); ok {
				received.Store(int32(s))
			} else {
				received.Store(int32(syscall.SIGINT))
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return received, done
}
