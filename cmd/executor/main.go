package main

import (
	measurementService "SizeMeasurement/internal/api/measurement/service"
	"SizeMeasurement/internal/config"
	"SizeMeasurement/internal/executor"
	"SizeMeasurement/internal/sizing"
	"SizeMeasurement/pkg/log"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("executor %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("executor - run one size measurement request document")
			fmt.Println()
			fmt.Println("Usage: executor [request.json | -]")
			fmt.Println()
			fmt.Println("Reads the request from the given file, or from stdin when the")
			fmt.Println("argument is omitted or \"-\", and writes the response to stdout.")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LOG_LEVEL=debug                    Log level (logs go to stderr)")
			fmt.Println("  LOG_TO_FILE=true                   Also write rotated logs under ./storage/logs")
			fmt.Println("  MEASUREMENT_KEEP_FIELDS=a,b        Extra detection fields kept on measured copies")
			return
		}
	}

	log.SetFileLoggingDefault(false)
	logger := log.NewLogger()
	config.LoadEnv(logger)
	settings := config.LoadSettings()

	in, closeInput, err := openInput(os.Args[1:])
	if err != nil {
		logger.Errorf("Error opening request document: %v", err)
		os.Exit(1)
	}
	defer closeInput()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	calculator := sizing.NewCalculator(sizing.WithKeptFields(settings.KeepFields...))
	exec := executor.New(logger, config.NewValidator(), measurementService.NewMeasurementService(logger, calculator))

	if err := exec.Run(ctx, in, os.Stdout); err != nil {
		logger.Errorf("Size measurement failed: %v", err)
		closeInput()
		stop()
		os.Exit(1)
	}
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
