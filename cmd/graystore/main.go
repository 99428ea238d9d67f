// Graystore serves a content-addressed store over JSON/HTTP.
//
// Every path outside /_system selects an action in the store's route tree,
// for example:
//
//	curl -X POST localhost:8080/value/add -d '["hello"]'
//	curl localhost:8080/update/docs/readme -d '["hi"]'
//	curl localhost:8080/read/docs/readme
//
// Run "graystore routes" for the full listing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/graystore/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
