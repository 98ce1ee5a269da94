// Command seqjobs runs shell commands one after another through a
// sequential job queue.
//
// Usage:
//
//	seqjobs run "go vet ./..." "go test ./..."
//	seqjobs run -f jobs.yaml --delay 1s --history history.db
//	seqjobs history --db history.db --queue deploy
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
