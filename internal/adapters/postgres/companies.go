package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lawbix/internal/domain"
)

var companyColumns = []string{
	"id", "user_id", "name", "industry", "employee_count", "incorporation_date",
	"country", "corporate_vehicle", "website", "domain", "created_at", "updated_at",
}

func scanCompany(row interface{ Scan(...any) error }) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Industry, &c.EmployeeCount, &c.IncorporationDate,
		&c.Country, &c.CorporateVehicle, &c.Website, &c.Domain, &c.CreatedAt, &c.UpdatedAt)
	return c, mapErr(err)
}

func (db *DB) selectCompanies() squirrel.SelectBuilder {
	return db.qb.Select(companyColumns...).From("companies")
}

// FindCompanyForUser returns the lowest-id company owned by userID.
func (db *DB) FindCompanyForUser(ctx context.Context, userID int64) (domain.Company, bool, error) {
	sql, args, err := db.selectCompanies().
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Company{}, false, err
	}
	c, err := scanCompany(db.Pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Company{}, false, nil
	}
	if err != nil {
		return domain.Company{}, false, err
	}
	return c, true, nil
}

func (db *DB) GetCompany(ctx context.Context, id int64) (domain.Company, error) {
	sql, args, err := db.selectCompanies().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Company{}, err
	}
	return scanCompany(db.Pool.QueryRow(ctx, sql, args...))
}

func (db *DB) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	sql, args, err := db.selectCompanies().OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

func (db *DB) CreateCompany(ctx context.Context, userID int64, in domain.CompanyInput) (domain.Company, error) {
	return insertCompany(ctx, db.Pool, db.qb, userID, in)
}

func (db *DB) UpdateCompany(ctx context.Context, id int64, in domain.CompanyInput) (domain.Company, error) {
	return updateCompany(ctx, db.Pool, db.qb, id, in)
}

// UpsertCompany updates the user's first company or creates one. Upserts of
// one user are serialized on a transaction-scoped advisory lock, so two first
// upserts cannot both insert.
func (db *DB) UpsertCompany(ctx context.Context, userID int64, in domain.CompanyInput) (c domain.Company, created bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return c, false, mapErr(err)
	}
	defer finishTx(ctx, tx, &err)
	return upsertCompany(ctx, tx, db.qb, userID, in)
}

type execQueryer interface {
	queryRower
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertCompany(ctx context.Context, tx execQueryer, qb squirrel.StatementBuilderType, userID int64, in domain.CompanyInput) (domain.Company, bool, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return domain.Company{}, false, mapErr(err)
	}
	var id int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM companies
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`, userID).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		c, err := insertCompany(ctx, tx, qb, userID, in)
		return c, err == nil, err
	case err != nil:
		return domain.Company{}, false, mapErr(err)
	}
	c, err := updateCompany(ctx, tx, qb, id, in)
	return c, false, err
}

func (db *DB) DeleteCompany(ctx context.Context, id int64) error {
	return expectOne(db.Pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id))
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertCompany(ctx context.Context, q queryRower, qb squirrel.StatementBuilderType, userID int64, in domain.CompanyInput) (domain.Company, error) {
	sql, args, err := qb.Insert("companies").
		Columns("user_id", "name", "industry", "employee_count", "incorporation_date",
			"country", "corporate_vehicle", "website", "domain").
		Values(userID, in.Name, in.Industry, in.EmployeeCount, in.IncorporationDate,
			in.Country, in.CorporateVehicle, in.Website, in.Domain).
		Suffix("RETURNING " + strings.Join(companyColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.Company{}, err
	}
	return scanCompany(q.QueryRow(ctx, sql, args...))
}

func updateCompany(ctx context.Context, q queryRower, qb squirrel.StatementBuilderType, id int64, in domain.CompanyInput) (domain.Company, error) {
	sql, args, err := qb.Update("companies").
		SetMap(map[string]any{
			"name":               in.Name,
			"industry":           in.Industry,
			"employee_count":     in.EmployeeCount,
			"incorporation_date": in.IncorporationDate,
			"country":            in.Country,
			"corporate_vehicle":  in.CorporateVehicle,
			"website":            in.Website,
			"domain":             in.Domain,
			"updated_at":         squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(companyColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.Company{}, err
	}
	return scanCompany(q.QueryRow(ctx, sql, args...))
}
