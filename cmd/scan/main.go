// Command scan runs one screening against a roster file and prints the
// report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"sanctionscan/internal/app"
	"sanctionscan/internal/platform/config"
	"sanctionscan/internal/platform/logger"
	"sanctionscan/internal/screening/handler"
	"sanctionscan/internal/screening/roster"
	"sanctionscan/pkg/platform/httputil"
	"sanctionscan/pkg/requestcontext"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rosterPath := fs.String("roster", "", "path to a YAML roster file (default: the Confluence page from the environment)")
	lists := fs.String("lists", "", "comma-separated lists to screen, e.g. OFAC,UN (default: all)")
	threshold := fs.Int("threshold", 0, "minimum match score 0-100 (default: MATCH_THRESHOLD or 85)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if *lists != "" {
		if cfg.Sources.Lists, err = config.ParseLists(*lists); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "threshold" {
			cfg.Matching.Threshold = *threshold
		}
	})

	log := logger.NewWithWriter(stderr, cfg.Server.LogLevel)
	fetcher := app.NewFetcher(cfg.Sources)

	var source roster.Source
	if *rosterPath != "" {
		source = roster.NewFile(*rosterPath)
	} else if source, err = app.NewConfluenceRoster(cfg.Confluence, fetcher, log); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	service, err := app.NewService(cfg, source, fetcher, log, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = requestcontext.WithRunID(ctx, uuid.NewString())

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	report, err := service.Run(ctx)
	if err != nil {
		_ = enc.Encode(httputil.ErrorResponse{Error: err.Error()})
		return 1
	}
	if err := enc.Encode(handler.FromReport(report)); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
