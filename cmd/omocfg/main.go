// Command omocfg normalizes, merges and renders oh-my-opencode configuration
// records.
//
// Usage:
//
//	omocfg normalize [--kind profile|global] [--write|--watch] FILE
//	omocfg merge BASE OVERLAY
//	omocfg render GLOBAL [PROFILE]
//
// FILE arguments may be local paths or s3://bucket/key URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yacchi/omocfg/internal/cmd"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
