package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/config"
	"github.com/david/uni-finder/internal/ingest"
	"github.com/david/uni-finder/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	source := flag.String("source", "", "Dataset file or URL (defaults to config)")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall time limit")
	rps := flag.Float64("rps", 1, "Requests per second per domain")
	ignoreRobots := flag.Bool("ignore-robots", false, "Visit pages disallowed by robots.txt")
	onlyFailures := flag.Bool("only-failures", false, "List unreachable citations only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Must(cfg.Log.Level)
	defer logger.Sync()

	if *source == "" {
		*source = cfg.Dataset.Source
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cat := ingest.Load(ctx, *source, ingest.NewHTTPFetcher(cfg.Fetch()), logger)
	if len(cat.Universities) == 0 {
		logger.Fatal("no universities loaded", zap.String("source", *source))
	}

	fetchCfg := cfg.Fetch()
	fetchCfg.RateLimitRPS = *rps
	fetcher := ingest.NewCollyFetcher(fetchCfg)
	fetcher.IgnoreRobotsTxt = *ignoreRobots
	fetcher.Logger = logger

	logger.Info("checking citations", zap.Int("universities", len(cat.Universities)))
	results := ingest.CheckCitations(ctx, fetcher, cat.Universities, logger)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"University", "URL", "Status", "Result"})

	failures := 0
	for _, r := range results {
		if !r.OK {
			failures++
		}
		if *onlyFailures && r.OK {
			continue
		}

		status := "-"
		if r.StatusCode > 0 {
			status = fmt.Sprint(r.StatusCode)
		}
		result := text.FgGreen.Sprint("ok")
		if !r.OK {
			result = text.FgRed.Sprint(r.Error)
		}
		t.AppendRow(table.Row{r.University, r.URL, status, result})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d checked", len(results)), "", fmt.Sprintf("%d failed", failures)})
	t.Render()

	if failures > 0 {
		os.Exit(1)
	}
}
