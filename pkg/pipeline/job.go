// pkg/pipeline/job.go
package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Partition represents one independent unit of input to convert.
type Partition struct {
	ID        string // Unique partition identifier
	Name      string // Human-readable label
	Query     string // Source query producing this partition's records
	CreatedAt time.Time
}

// NewPartition creates a partition job with defaults.
func NewPartition(name, query string) Partition {
	return Partition{
		ID:        uuid.New().String(),
		Name:      name,
		Query:     query,
		CreatedAt: time.Now(),
	}
}

// Result represents the outcome of converting one partition.
type Result struct {
	PartitionID      string
	Name             string
	Success          bool
	RecordsRead      int64
	RecordsConverted int64
	RecordsSkipped   int64
	Err              error
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
	WorkerID         int
}

// NewResult initializes a result for a partition.
func NewResult(p Partition, workerID int) *Result {
	return &Result{
		PartitionID: p.ID,
		Name:        p.Name,
		StartTime:   time.Now(),
		WorkerID:    workerID,
	}
}

// Complete marks the result and calculates its duration.
func (r *Result) Complete(success bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = success
}

// Fail records the failure and completes the result.
func (r *Result) Fail(err error) {
	r.Err = err
	r.Complete(false)
}

// Summary aggregates partition results for the final report.
type Summary struct {
	Partitions       int
	Succeeded        int
	Failed           int
	RecordsRead      int64
	RecordsConverted int64
	RecordsSkipped   int64
	Duration         time.Duration
}

// Summarize folds a result set into a summary.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Partitions++
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.RecordsRead += r.RecordsRead
		s.RecordsConverted += r.RecordsConverted
		s.RecordsSkipped += r.RecordsSkipped
		s.Duration += r.Duration
	}
	return s
}
