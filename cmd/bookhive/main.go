// Package main is the entry point for the bookhive service and its admin CLI.
//
// @title                       bookhive API
// @version                     1.0
// @description                 Catalog, library, blog and social endpoints.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bookhive/api/cmd/bookhive/internal/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "bookhive",
		Short: "Book catalog, library, blog and social API",
		Long: `bookhive serves the catalog, library, blog and social HTTP API.

Configuration is read from the environment (PORT, DB_TYPE, DB_DSN, MONGO_URI,
REDIS_ADDR, JWT_SECRET, ...). Run "bookhive serve" to start the server.`,
		SilenceUsage: true,
	}

	commands.Register(rootCmd)

	// Cancelled on SIGINT/SIGTERM; serve uses it to shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}
