package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawbix/internal/domain"
)

// fakeTx records statements. Embedding pgx.Tx satisfies the interface; only
// the overridden methods may be called.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
	statements []string
	args       [][]any
	rows       []pgx.Row
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return tx.commitErr
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.statements = append(tx.statements, sql)
	tx.args = append(tx.args, args)
	return pgconn.NewCommandTag("SELECT 1"), nil
}

func (tx *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	tx.statements = append(tx.statements, sql)
	tx.args = append(tx.args, args)
	row := tx.rows[0]
	tx.rows = tx.rows[1:]
	return row
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func commitWith(tx pgx.Tx, work error) (err error) {
	defer finishTx(context.Background(), tx, &err)
	return work
}

func TestFinishTxReportsCommitFailure(t *testing.T) {
	tx := &fakeTx{commitErr: &pgconn.PgError{Code: "40001"}}
	err := commitWith(tx, nil)

	require.Error(t, err)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "40001", pgErr.Code)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestFinishTxRollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("boom")
	err := commitWith(tx, boom)

	assert.ErrorIs(t, err, boom)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestFinishTxCommits(t *testing.T) {
	tx := &fakeTx{}
	assert.NoError(t, commitWith(tx, nil))
	assert.True(t, tx.committed)
}

func TestUpsertCompanyLocksUserBeforeLookup(t *testing.T) {
	insertFailed := errors.New("insert failed")
	tx := &fakeTx{rows: []pgx.Row{errRow{pgx.ErrNoRows}, errRow{insertFailed}}}
	qb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	_, created, err := upsertCompany(context.Background(), tx, qb, 7, domain.CompanyInput{Name: "Acme"})
	assert.ErrorIs(t, err, insertFailed)
	assert.False(t, created)

	require.Len(t, tx.statements, 3)
	assert.Contains(t, tx.statements[0], "pg_advisory_xact_lock")
	assert.Equal(t, []any{int64(7)}, tx.args[0])
	assert.Contains(t, tx.statements[1], "FROM companies")
	assert.Contains(t, tx.statements[2], "INSERT INTO companies")
}
