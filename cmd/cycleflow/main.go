// Command cycleflow runs the cycle workers and task pools described by a
// YAML file and accepts lifecycle commands as JSON lines on stdin.
//
//	$ cycleflow -config cycleflow.yaml
//	{"worker": "Pinger", "request": "duration", "period": "10S"}
//	{"worker": "Pinger", "request": "stop"}
//	{"request": "statuses"}
//
// The process exits on EOF or SIGINT after stopping every worker and
// draining every pool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vnykmshr/cycleflow/internal/config"
	"github.com/vnykmshr/cycleflow/pkg/common/logging"
)

func main() {
	configPath := flag.String("config", "cycleflow.yaml", "path to the YAML configuration")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second, "how long to wait for running actions on exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cycleflow:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build workers")
	}
	if err := a.start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start workers")
	}

	serveErr := a.serve(ctx, os.Stdin, os.Stdout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()
	if err := a.shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	if serveErr != nil {
		log.Fatal().Err(serveErr).Msg("reading commands failed")
	}
}
