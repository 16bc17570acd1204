package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lawbix/internal/domain"
)

// SQLSTATE codes the adapter branches on.
const (
	codeUndefinedTable     = "42P01"
	codeUndefinedColumn    = "42703"
	codeInvalidCatalogName = "3D000"
	codeUniqueViolation    = "23505"
	codeForeignKey         = "23503"
)

// mapErr translates driver errors into domain error kinds. The original error
// stays in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable, codeUndefinedColumn, codeInvalidCatalogName:
			return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case codeForeignKey:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
	}
	return err
}

// expectOne reports ErrNotFound when a mutation touched no row.
func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
