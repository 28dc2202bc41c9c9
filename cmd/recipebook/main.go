// Recipebook browses, searches and cooks from a recipe CSV file.
//
// Usage:
//
//	recipebook [browse] [--data recipes.csv] [--watch]
//	recipebook search ing:flour qty:<=2
//	recipebook show pancakes
//	recipebook serve --addr :8080
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

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
