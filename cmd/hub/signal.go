package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown returns a channel closed on the first SIGINT or SIGTERM.
func WaitForShutdown() <-chan struct{} {
	done := make(chan struct{})
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	go func() {
		<-sc
		signal.Stop(sc)
		slog.Info("Shutdown signal received")
		close(done)
	}()
	return done
}
