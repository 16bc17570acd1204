package postgres

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"lawbix/internal/domain"
)

var documentColumns = []string{
	"id", "company_id", "name", "template", "type", "storage_key", "url", "size_bytes",
	"status", "error", "created_at", "finished_at",
}

func scanDocument(row interface{ Scan(...any) error }) (domain.Document, error) {
	var d domain.Document
	var status string
	err := row.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Template, &d.Type, &d.StorageKey, &d.URL, &d.SizeBytes,
		&status, &d.Error, &d.CreatedAt, &d.FinishedAt)
	d.Status = domain.DocumentStatus(status)
	return d, mapErr(err)
}

// CreateDocument inserts the document row and its queued generation job.
func (db *DB) CreateDocument(ctx context.Context, d domain.Document) (out domain.Document, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return out, mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	sql, args, err := db.qb.Insert("documents").
		Columns("company_id", "name", "template", "type", "status").
		Values(d.CompanyID, d.Name, d.Template, d.Type, string(domain.DocumentQueued)).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		ToSql()
	if err != nil {
		return out, err
	}
	if out, err = scanDocument(tx.QueryRow(ctx, sql, args...)); err != nil {
		return out, err
	}
	if _, err = tx.Exec(ctx, `INSERT INTO document_jobs (document_id) VALUES ($1)`, out.ID); err != nil {
		return out, mapErr(err)
	}
	return out, nil
}

func (db *DB) GetDocument(ctx context.Context, companyID, id int64) (domain.Document, error) {
	sql, args, err := db.qb.Select(documentColumns...).From("documents").
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return domain.Document{}, err
	}
	return scanDocument(db.Pool.QueryRow(ctx, sql, args...))
}

func (db *DB) DocumentByID(ctx context.Context, id int64) (domain.Document, error) {
	sql, args, err := db.qb.Select(documentColumns...).From("documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Document{}, err
	}
	return scanDocument(db.Pool.QueryRow(ctx, sql, args...))
}

func (db *DB) ListDocuments(ctx context.Context, companyID int64) ([]domain.Document, error) {
	sql, args, err := db.qb.Select(documentColumns...).From("documents").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, mapErr(rows.Err())
}

// DeleteDocument removes the row and returns it so the caller can drop the blob.
func (db *DB) DeleteDocument(ctx context.Context, companyID, id int64) (domain.Document, error) {
	return scanDocument(db.Pool.QueryRow(ctx,
		`DELETE FROM documents WHERE id = $1 AND company_id = $2 RETURNING `+strings.Join(documentColumns, ", "),
		id, companyID))
}
