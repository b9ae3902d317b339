// Command docextract extracts text, images, hyperlinks and tables from
// documents and stores them in a directory tree and a SQLite database.
//
// Usage:
//
//	docextract report.docx slides.pptx paper.pdf
//	docextract -config docextract.yaml *.pdf
//	docextract -out artifacts -db artifacts/store.db -log-level debug memo.docx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsawler/docextract/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	outDir := flag.String("out", "", "output directory (overrides out_dir)")
	dbPath := flag.String("db", "", "SQLite database path (overrides db_path)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "log format: text or json")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docextract: %v\n", err)
		os.Exit(1)
	}
	override(&cfg.OutDir, *outDir)
	override(&cfg.DBPath, *dbPath)
	override(&cfg.LogLevel, *logLevel)
	override(&cfg.LogFormat, *logFormat)

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "docextract: %v\n", err)
		os.Exit(1)
	}
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		logger.Error("docextract: failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *pipeline.Config, paths []string) error {
	d, err := pipeline.Open(*cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer d.Close()

	cfg.Logger.Info("starting run", "run_id", d.RunID(), "documents", len(paths))
	return d.ProcessAll(ctx, paths)
}

func resolveConfig(path string) (*pipeline.Config, error) {
	if path == "" {
		return &pipeline.Config{}, nil
	}
	return pipeline.LoadConfigFile(path)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
