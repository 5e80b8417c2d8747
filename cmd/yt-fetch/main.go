// Command yt-fetch is the terminal front end of the downloader.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/yt-fetch/internal/cli/cmd"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx, version)
}
