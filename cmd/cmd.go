// Package cmd provides the CLI commands for tribubot.
//
// Commands:
//   - serve: HTTP API server for the campaign chatbot
//   - index: load campaign documents into the knowledge base
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/plazadigital/tribubot/internal/log"
)

// Execute is the main entry point for the tribubot CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(log.New(log.Config{Level: level}))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "index":
		return runIndex()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Tribubot - chatbot API for the campaign")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tribubot serve [addr]            Start the HTTP API server (default: 127.0.0.1:8000)")
	fmt.Println("  tribubot index --dir D [flags]   Index campaign documents into the knowledge base")
	fmt.Println("  tribubot --version               Show version information")
	fmt.Println("  tribubot --help                  Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required: Gemini API key")
	fmt.Println("  DATABASE_URL       Optional: PostgreSQL connection URL")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
}
