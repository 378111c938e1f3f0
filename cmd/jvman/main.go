package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/jvman/internal/config"
	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-dev"

// exitInterrupted is the conventional status for a run ended by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", config.FormatError(err, a.verbose))
		if fault.Is(err, fault.Cancelled) {
			os.Exit(exitInterrupted)
		}
		os.Exit(1)
	}
}
