// Package docrunner renders queued documents in the background.
package docrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lawbix/internal/domain"
	"lawbix/internal/observability"
	"lawbix/internal/ports"
)

// Processor renders one document and stores the file.
type Processor interface {
	Process(ctx context.Context, documentID int64) (ports.DocumentOutput, error)
}

type Runner struct {
	Repo         ports.JobRepository
	Processor    Processor
	Concurrency  int
	PollInterval time.Duration
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Run starts the dispatcher and workers and blocks until ctx is cancelled
// and in-flight jobs are finished.
func (r *Runner) Run(ctx context.Context) {
	if r.Concurrency < 1 {
		return
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	poll := r.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	jobsCh := make(chan ports.DocumentJob, r.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < r.Concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for job := range jobsCh {
				r.handle(ctx, logger.With("worker", idx), job)
			}
		}(i)
	}

	logger.Info("document workers started", "workers", r.Concurrency, "poll_interval", poll)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
dispatch:
	for {
		select {
		case <-ctx.Done():
			break dispatch
		case <-ticker.C:
		}
		for {
			job, found, err := r.Repo.ClaimNext(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("job claim failed", "error", err)
				}
				break
			}
			if !found {
				break
			}
			select {
			case jobsCh <- job:
			case <-ctx.Done():
				// Claimed but never started; mark it so it is not stuck running.
				_ = r.Repo.MarkFailed(context.WithoutCancel(ctx), job.ID, "shutdown before processing")
				break dispatch
			}
		}
	}
	close(jobsCh)
	wg.Wait()
	logger.Info("document workers stopped")
}

func (r *Runner) handle(ctx context.Context, logger *slog.Logger, job ports.DocumentJob) {
	done := r.Metrics.JobStarted()
	defer done()

	// Jobs already claimed are finished even during shutdown.
	ctx = context.WithoutCancel(ctx)
	out, err := r.Processor.Process(ctx, job.DocumentID)
	if err != nil {
		logger.Error("document job failed", "job_id", job.ID, "document_id", job.DocumentID, "error", err)
		if err := r.Repo.MarkFailed(ctx, job.ID, err.Error()); err != nil {
			logger.Error("mark failed", "job_id", job.ID, "error", err)
		}
		return
	}
	if err := r.Repo.MarkCompleted(ctx, job.ID, out); err != nil {
		logger.Error("mark completed", "job_id", job.ID, "error", err)
		return
	}
	logger.Info("document job completed", "job_id", job.ID, "document_id", job.DocumentID, "size_bytes", out.SizeBytes)
}

// ErrAlreadyClaimed means a worker took the job before it could be processed
// inline. The document is still being rendered.
var ErrAlreadyClaimed = errors.New("document job already claimed")

// ProcessInline claims the job of one document and processes it synchronously
// with the same processor the workers use.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, documentID int64) error {
	jobID, err := repo.StartJobForDocument(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document %d: %w", documentID, ErrAlreadyClaimed)
	}
	if err != nil {
		return err
	}
	out, err := processor.Process(ctx, documentID)
	if err != nil {
		_ = repo.MarkFailed(context.WithoutCancel(ctx), jobID, err.Error())
		return err
	}
	return repo.MarkCompleted(context.WithoutCancel(ctx), jobID, out)
}
