package crawler

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled on SIGTERM or SIGINT.
// A second signal forces immediate exit. Adapted from the teacher's
// internal/collector.SetupSignalHandler, unchanged in behaviour.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		log.Printf("[signal] received %v, stopping crawl without a coverage report", sig)
		cancel()

		sig = <-sigCh
		log.Printf("[signal] received second %v, forcing exit", sig)
		os.Exit(1)
	}()

	return ctx
}
