// cmd/hcat-ingress/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
	"github.com/warebridge/hcat-ingress/pkg/config"
	"github.com/warebridge/hcat-ingress/pkg/connector"
	"github.com/warebridge/hcat-ingress/pkg/lob"
	"github.com/warebridge/hcat-ingress/pkg/pipeline"
	"github.com/warebridge/hcat-ingress/pkg/schema"
	"github.com/warebridge/hcat-ingress/pkg/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hcat-ingress:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataCols, partitionCols, err := cfg.Schema.Fields()
	if err != nil {
		return fmt.Errorf("parsing schema metadata: %w", err)
	}
	targetSchema, err := schema.New(dataCols, partitionCols)
	if err != nil {
		return fmt.Errorf("building target schema: %w", err)
	}
	logger.Info("Target schema ready",
		zap.Int("fields", targetSchema.Len()),
		zap.Int("partitionFields", len(partitionCols)))

	db, err := connector.Open(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer db.Close()

	var loader *lob.Loader
	if cfg.LOB.Dir != "" {
		loader = lob.NewLoader(cfg.LOB.Dir, cfg.LOB.InlineMaxBytes, logger)
		defer loader.Close()
	}

	outFile, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	out := sink.NewJSONLSink(outFile, logger)
	defer out.Close()

	queries := cfg.Source.PartitionQueries
	if len(queries) == 0 {
		queries = []string{cfg.Source.Query}
	}
	partitions := make([]pipeline.Partition, 0, len(queries))
	for i, q := range queries {
		partitions = append(partitions, pipeline.NewPartition(fmt.Sprintf("partition-%d", i), q))
	}

	newSource := func(ctx context.Context, p pipeline.Partition) (connector.RecordSource, error) {
		return connector.NewSQLSource(db, p.Query, logger).
			WithKeyColumn(cfg.Source.KeyColumn).
			WithDecimalColumns(cfg.Source.DecimalColumns...).
			WithDateColumns(cfg.Source.DateColumns...), nil
	}

	runner := pipeline.NewRunner(
		targetSchema,
		coerce.Config{
			BigDecimalFormatString: cfg.BigDecimalFormatString,
			Debug:                  cfg.DebugImport,
		},
		loader,
		logger,
	).WithWorkerCount(cfg.WorkerPoolSize)

	results, err := runner.Run(ctx, partitions, newSource, out)
	if err != nil {
		return fmt.Errorf("conversion aborted: %w", err)
	}

	summary := pipeline.Summarize(results)
	logger.Info("Import complete",
		zap.Int("partitions", summary.Partitions),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int64("recordsRead", summary.RecordsRead),
		zap.Int64("recordsConverted", summary.RecordsConverted),
		zap.Int64("recordsSkipped", summary.RecordsSkipped))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d partitions failed", summary.Failed, summary.Partitions)
	}
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.LogFormat == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
