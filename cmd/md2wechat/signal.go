package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
)

// ErrInterrupted is the cancellation cause after a shutdown signal.
var ErrInterrupted = errors.New("interrupted")

// notifyContext returns a context canceled by the first shutdown signal.
// A second signal exits at once. Call stop() to release resources.
func notifyContext(parent context.Context, stderr io.Writer) (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, shutdownSignals...)

	ctx, stop := watchSignals(parent, sigs, stderr, func() { os.Exit(ExitGeneral) })
	return ctx, func() {
		signal.Stop(sigs)
		stop()
	}
}

// watchSignals cancels the returned context with ErrInterrupted on the
// first value from sigs and calls force on the second.
func watchSignals(parent context.Context, sigs <-chan os.Signal, stderr io.Writer, force func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigs:
			fmt.Fprintf(stderr, "\n%s: stopping, press Ctrl-C again to quit now\n", sig)
			cancel(ErrInterrupted)
		case <-done:
			return
		}

		select {
		case <-sigs:
			force()
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(done)
			cancel(context.Canceled)
		})
	}
}
