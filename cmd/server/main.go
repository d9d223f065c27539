package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/config"
	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Flags override the environment
	port := flag.String("port", cfg.Server.Port, "Server port")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (console logs, debug level)")
	storageDir := flag.String("storage", cfg.Storage.Dir, "Directory for saved state and uploads")
	endpoint := flag.String("generation", cfg.Generation.Endpoint, "Image generation endpoint")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Storage.Dir = *storageDir
	cfg.Generation.Endpoint = *endpoint
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	banner(cfg)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-sigChan:
		fmt.Println(color.YellowString("\nShutting down gracefully..."))
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}

func banner(cfg *config.Config) {
	bold := color.New(color.FgCyan, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	rule := strings.Repeat("=", 60)
	fmt.Println(faint(rule))
	fmt.Println(bold("Visionary Studio"))
	fmt.Printf("  listening  %s\n", bold(cfg.Addr()))
	fmt.Printf("  upstream   %s\n", cfg.Generation.Endpoint)
	fmt.Printf("  storage    %s (%s)\n", cfg.Storage.Dir, cfg.Storage.Compression)
	if cfg.Logging.Development {
		fmt.Println(color.YellowString("  development mode"))
	}
	fmt.Println(faint(rule))
}
