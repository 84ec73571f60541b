// Command quote fills and submits the lead forms from a terminal.
//
//	quote handoff -set phone=9876543210 -set address="12 MG Road" -pests termites
//	quote submit -form quote -query 'phone=9876543210' -set name="Asha Rao"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pestpro/pestpro-api/internal/quotecli"
	"github.com/pestpro/pestpro-api/pkg/logger"
)

func main() {
	cfg, err := quotecli.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Initialize(logger.Config{Level: "warn", Environment: "development", ServiceName: "pestpro-quote"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := quotecli.Run(ctx, cfg, os.Stdout, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
