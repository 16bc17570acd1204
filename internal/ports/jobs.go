package ports

import "context"

type DocumentJob struct {
	ID         int64
	DocumentID int64
}

// DocumentOutput describes the stored blob of a finished document.
type DocumentOutput struct {
	StorageKey string
	URL        string
	SizeBytes  int64
}

// JobRepository supports claiming and finishing document generation jobs.
type JobRepository interface {
	ClaimNext(ctx context.Context) (job DocumentJob, found bool, err error)
	StartJobForDocument(ctx context.Context, documentID int64) (jobID int64, err error)
	MarkCompleted(ctx context.Context, jobID int64, out DocumentOutput) error
	MarkFailed(ctx context.Context, jobID int64, reason string) error
}
