package main

import (
	"context"
	"os"

	"fbref-scraper/cmd/fbref/commands"
	"fbref-scraper/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	code := commands.ExecuteContext(ctx)
	cancel()
	os.Exit(code)
}
