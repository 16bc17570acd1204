package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"lawbix/internal/ports"
)

// ClaimNext selects the next queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job ports.DocumentJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	err = tx.QueryRow(ctx, `
		SELECT id, document_id FROM document_jobs
		WHERE status = 'queued'
		ORDER BY queued_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`).Scan(&job.ID, &job.DocumentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, false, nil
	}
	if err != nil {
		return job, false, mapErr(err)
	}
	if err = markRunning(ctx, tx, job); err != nil {
		return job, false, err
	}
	return job, true, nil
}

// StartJobForDocument claims the queued job of one document and returns its id.
func (db *DB) StartJobForDocument(ctx context.Context, documentID int64) (jobID int64, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	err = tx.QueryRow(ctx, `
		SELECT id FROM document_jobs
		WHERE document_id = $1 AND status = 'queued'
		FOR UPDATE SKIP LOCKED
	`, documentID).Scan(&jobID)
	if err != nil {
		return 0, mapErr(err)
	}
	if err = markRunning(ctx, tx, ports.DocumentJob{ID: jobID, DocumentID: documentID}); err != nil {
		return 0, err
	}
	return jobID, nil
}

func markRunning(ctx context.Context, tx pgx.Tx, job ports.DocumentJob) error {
	if _, err := tx.Exec(ctx, `
		UPDATE document_jobs SET status = 'running', started_at = now(), attempts = attempts + 1 WHERE id = $1
	`, job.ID); err != nil {
		return mapErr(err)
	}
	_, err := tx.Exec(ctx, `UPDATE documents SET status = 'running' WHERE id = $1`, job.DocumentID)
	return mapErr(err)
}

// MarkCompleted finishes the job and records the stored file on its document.
func (db *DB) MarkCompleted(ctx context.Context, jobID int64, out ports.DocumentOutput) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	var documentID int64
	if err = tx.QueryRow(ctx, `
		UPDATE document_jobs SET status = 'completed', finished_at = now() WHERE id = $1 RETURNING document_id
	`, jobID).Scan(&documentID); err != nil {
		return mapErr(err)
	}
	if _, err = tx.Exec(ctx, `
		UPDATE documents
		SET status = 'completed', storage_key = $2, url = $3, size_bytes = $4, error = NULL, finished_at = now()
		WHERE id = $1
	`, documentID, out.StorageKey, out.URL, out.SizeBytes); err != nil {
		return mapErr(err)
	}
	return nil
}

func (db *DB) MarkFailed(ctx context.Context, jobID int64, reason string) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	var documentID int64
	if err = tx.QueryRow(ctx, `
		UPDATE document_jobs SET status = 'failed', error = $2, finished_at = now() WHERE id = $1 RETURNING document_id
	`, jobID, reason).Scan(&documentID); err != nil {
		return mapErr(err)
	}
	if _, err = tx.Exec(ctx, `
		UPDATE documents SET status = 'failed', error = $2, finished_at = now() WHERE id = $1
	`, documentID, reason); err != nil {
		return mapErr(err)
	}
	return nil
}
