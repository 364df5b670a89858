package main

import (
	"flag"
	"log"

	"github.com/rewired-gh/peakstats/internal/analyzer"
	"github.com/rewired-gh/peakstats/internal/charts"
	"github.com/rewired-gh/peakstats/internal/config"
	"github.com/rewired-gh/peakstats/internal/logger"
	"github.com/rewired-gh/peakstats/internal/outdir"
	"github.com/rewired-gh/peakstats/internal/snapshot"
	"github.com/rewired-gh/peakstats/internal/table"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	out, err := outdir.Open(cfg.Output.Dir, cfg.Output.PlotsDir)
	if err != nil {
		logger.Fatal("Failed to prepare output directory: %v", err)
	}

	if err := runCharts(cfg, out); err != nil {
		logger.Fatal("Chart rendering failed: %v", err)
	}
	if err := runReports(cfg, out); err != nil {
		logger.Fatal("Snapshot analysis failed: %v", err)
	}
	logger.Info("Done; output written to %s", out.Root())
}

func runCharts(cfg *config.Config, out *outdir.Dir) error {
	tbl, err := table.Load(cfg.Input.Path)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d rows from %s", tbl.Len(), cfg.Input.Path)

	r := charts.New(tbl, out,
		charts.WithSize(cfg.Charts.Width, cfg.Charts.Height),
		charts.WithBins(cfg.Charts.HistogramBins),
		charts.WithCaption(cfg.Charts.Caption),
		charts.WithLineLabels(cfg.Charts.LineLabels),
	)
	if _, err := r.Basic(); err != nil {
		return err
	}
	if _, err := r.FrequencyHistogram(); err != nil {
		return err
	}
	if _, err := r.Distributions(); err != nil {
		return err
	}
	return nil
}

func runReports(cfg *config.Config, out *outdir.Dir) error {
	frame, err := snapshot.Load(cfg.Snapshot.Path, cfg.Snapshot.Format)
	if err != nil {
		return err
	}
	logger.Info("Loaded snapshot %s (%d rows, %d columns)", frame.ID, frame.Len(), len(frame.Columns))

	var opts []analyzer.Option
	if cfg.Report.Export {
		opts = append(opts, analyzer.WithExport(out))
	}
	an := analyzer.New(frame, opts...)

	if _, err := an.Statistics(cfg.Report.StatColumns...); err != nil {
		return err
	}

	if len(cfg.Report.DotColumns) > 0 {
		vectors := make([][]float64, 0, len(cfg.Report.DotColumns))
		for _, col := range cfg.Report.DotColumns {
			v, err := an.Vector(col)
			if err != nil {
				return err
			}
			vectors = append(vectors, v)
		}
		if _, err := an.DotProduct(vectors...); err != nil {
			return err
		}
	}

	mp := analyzer.DefaultMonthPeakOptions()
	mp.PeakColumn = cfg.Report.PeakColumn
	mp.MonthColumn = cfg.Report.MonthColumn
	mp.BinWidth = cfg.Report.BinWidth
	mp.R = cfg.Report.R
	if _, err := an.MonthPeakReport(mp); err != nil {
		return err
	}

	if jc := cfg.Report.JointCounts; len(jc) == 2 {
		if _, err := an.JointCounts(jc[0], jc[1]); err != nil {
			return err
		}
	}

	if cfg.Report.Export && cfg.Report.Workbook != "" {
		if _, err := an.SaveWorkbook(cfg.Report.Workbook); err != nil {
			return err
		}
	}
	return nil
}
