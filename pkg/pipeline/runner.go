// pkg/pipeline/runner.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/warebridge/hcat-ingress/pkg/coerce"
	"github.com/warebridge/hcat-ingress/pkg/connector"
	"github.com/warebridge/hcat-ingress/pkg/lob"
	"github.com/warebridge/hcat-ingress/pkg/schema"
	"github.com/warebridge/hcat-ingress/pkg/sink"
)

// FailurePolicy decides how the runner treats a record-level conversion
// failure. Source and sink failures always fail the partition.
type FailurePolicy int

const (
	// FailPartition aborts the partition on the first conversion failure.
	FailPartition FailurePolicy = iota
	// SkipRecord logs the failure and continues with the next record.
	SkipRecord
)

// SourceFactory opens a record source for one partition.
type SourceFactory func(ctx context.Context, p Partition) (connector.RecordSource, error)

// Runner drives the per-record pipeline: source, large-object resolution,
// conversion, sink. Partitions run on a pool of workers; every worker
// builds its own coercer from the shared configuration and shares only the
// immutable schema.
type Runner struct {
	schema      *schema.Schema
	coercerCfg  coerce.Config
	loader      *lob.Loader
	guard       *PartitionGuard
	logger      *zap.Logger
	policy      FailurePolicy
	workerCount int
}

// NewRunner creates a runner over the given schema and coercion settings.
func NewRunner(s *schema.Schema, cfg coerce.Config, loader *lob.Loader, logger *zap.Logger) *Runner {
	return &Runner{
		schema:      s,
		coercerCfg:  cfg,
		loader:      loader,
		logger:      logger,
		policy:      FailPartition,
		workerCount: runtime.NumCPU(),
	}
}

// WithWorkerCount sets the number of worker goroutines.
func (r *Runner) WithWorkerCount(count int) *Runner {
	if count > 0 {
		r.workerCount = count
	}
	return r
}

// WithFailurePolicy sets the record-failure policy.
func (r *Runner) WithFailurePolicy(policy FailurePolicy) *Runner {
	r.policy = policy
	return r
}

// WithPartitionGuard enables null-partition-key validation on converted
// records.
func (r *Runner) WithPartitionGuard(g *PartitionGuard) *Runner {
	r.guard = g
	return r
}

// Run converts every record of every partition and returns one result per
// partition. The sink is shared; writes are serialized.
func (r *Runner) Run(
	ctx context.Context,
	partitions []Partition,
	newSource SourceFactory,
	out sink.RecordSink,
) ([]Result, error) {
	jobs := make(chan Partition)
	results := make(chan Result, len(partitions))

	var sinkMu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			logger := r.logger.With(zap.Int("workerID", workerID))
			conv := coerce.NewRecordConverter(
				r.schema,
				coerce.NewCoercerWithConfig(logger, r.coercerCfg),
				logger,
			)

			for {
				select {
				case <-ctx.Done():
					return
				case p, ok := <-jobs:
					if !ok {
						return
					}
					res := r.runPartition(ctx, workerID, p, conv, newSource, out, &sinkMu)
					select {
					case results <- *res:
					case <-ctx.Done():
						return
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, p := range partitions {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	collected := make([]Result, 0, len(partitions))
	for res := range results {
		if res.Success {
			r.logger.Info("Partition converted",
				zap.String("partition", res.Name),
				zap.Int64("recordsRead", res.RecordsRead),
				zap.Int64("recordsConverted", res.RecordsConverted),
				zap.Int64("recordsSkipped", res.RecordsSkipped),
				zap.Duration("duration", res.Duration))
		} else {
			r.logger.Error("Partition failed",
				zap.String("partition", res.Name),
				zap.Error(res.Err))
		}
		collected = append(collected, res)
	}

	return collected, ctx.Err()
}

// runPartition converts one partition's records end to end.
func (r *Runner) runPartition(
	ctx context.Context,
	workerID int,
	p Partition,
	conv *coerce.RecordConverter,
	newSource SourceFactory,
	out sink.RecordSink,
	sinkMu *sync.Mutex,
) *Result {
	res := NewResult(p, workerID)
	logger := r.logger.With(zap.Int("workerID", workerID), zap.String("partition", p.Name))

	logger.Info("Starting partition conversion")

	src, err := newSource(ctx, p)
	if err != nil {
		res.Fail(fmt.Errorf("opening source: %w", err))
		return res
	}
	defer src.Close()

	for {
		if err := ctx.Err(); err != nil {
			res.Fail(err)
			return res
		}

		key, rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Fail(fmt.Errorf("reading record: %w", err))
			return res
		}
		res.RecordsRead++

		// Large-object resolution happens before the record reaches the
		// converter; storage failures surface as I/O errors.
		if r.loader != nil {
			if err := r.loader.Resolve(rec); err != nil {
				res.Fail(fmt.Errorf("loading large objects: %w", err))
				return res
			}
		}

		converted, err := conv.Convert(rec)
		if err == nil && r.guard != nil {
			err = r.guard.Check(converted)
		}
		if err != nil {
			if r.policy == SkipRecord {
				res.RecordsSkipped++
				logger.Warn("Skipping record",
					zap.String("key", key),
					zap.Error(err))
				continue
			}
			res.Fail(err)
			return res
		}

		sinkMu.Lock()
		werr := out.Write(key, converted)
		sinkMu.Unlock()
		if werr != nil {
			res.Fail(fmt.Errorf("writing record: %w", werr))
			return res
		}
		res.RecordsConverted++
	}

	res.Complete(true)
	return res
}
