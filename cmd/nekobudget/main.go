package main

import (
	"context"
	"os"

	"nekobudget/internal/cli"
	"nekobudget/internal/commands"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
