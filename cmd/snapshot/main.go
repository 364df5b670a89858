package main

import (
	"flag"
	"log"

	"github.com/rewired-gh/peakstats/internal/config"
	"github.com/rewired-gh/peakstats/internal/logger"
	"github.com/rewired-gh/peakstats/internal/snapshot"
	"github.com/rewired-gh/peakstats/internal/table"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	outPath    = flag.String("out", "", "Snapshot file to write (defaults to snapshot.path)")
	format     = flag.String("format", "", "Snapshot format: json, msgpack, sqlite or csv (defaults to snapshot.format, then the file extension)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	path := cfg.Snapshot.Path
	if *outPath != "" {
		path = *outPath
	}
	fmtName := cfg.Snapshot.Format
	if *format != "" {
		fmtName = *format
	}

	tbl, err := table.Load(cfg.Input.Path)
	if err != nil {
		logger.Fatal("Failed to load input: %v", err)
	}

	frame, err := snapshot.Build(tbl, cfg.Input.Path)
	if err != nil {
		logger.Fatal("Failed to build snapshot: %v", err)
	}
	if err := snapshot.Save(path, fmtName, frame); err != nil {
		logger.Fatal("Failed to save snapshot: %v", err)
	}
	logger.Info("Snapshot %s written to %s (%d rows, %d columns)", frame.ID, path, frame.Len(), len(frame.Columns))
}
