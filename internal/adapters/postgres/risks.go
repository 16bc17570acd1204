package postgres

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lawbix/internal/domain"
)

var riskColumns = []string{
	"id", "company_id", "title", "description", "category", "severity", "probability",
	"impact", "status", "mitigation", "source", "question_id", "created_at",
}

const severityRank = `CASE severity WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`

func scanRisk(row interface{ Scan(...any) error }) (domain.Risk, error) {
	var r domain.Risk
	var severity, status string
	err := row.Scan(&r.ID, &r.CompanyID, &r.Title, &r.Description, &r.Category, &severity, &r.Probability,
		&r.Impact, &status, &r.Mitigation, &r.Source, &r.QuestionID, &r.CreatedAt)
	r.Severity = domain.RiskLevel(severity)
	r.Status = domain.RiskStatus(status)
	return r, mapErr(err)
}

// ListRisks returns the company's risks, most severe first.
func (db *DB) ListRisks(ctx context.Context, companyID int64, severity *domain.RiskLevel) ([]domain.Risk, error) {
	q := db.qb.Select(riskColumns...).From("risks").Where(squirrel.Eq{"company_id": companyID})
	if severity != nil {
		q = q.Where(squirrel.Eq{"severity": string(*severity)})
	}
	sql, args, err := q.OrderBy(severityRank, "created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Risk{}
	for rows.Next() {
		r, err := scanRisk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}

func (db *DB) RiskStats(ctx context.Context, companyID int64) (domain.RiskStats, error) {
	stats := domain.RiskStats{BySeverity: []domain.SeverityCount{}}
	rows, err := db.Pool.Query(ctx, `
		SELECT severity, count(*) FROM risks
		WHERE company_id = $1
		GROUP BY severity
		ORDER BY `+severityRank, companyID)
	if err != nil {
		return stats, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return stats, mapErr(err)
		}
		stats.Total += n
		stats.BySeverity = append(stats.BySeverity, domain.SeverityCount{Severity: domain.RiskLevel(sev), Count: n})
	}
	return stats, mapErr(rows.Err())
}

func (db *DB) CreateRisk(ctx context.Context, r domain.Risk) (domain.Risk, error) {
	sql, args, err := riskInsert(db.qb, r).Suffix("RETURNING " + strings.Join(riskColumns, ", ")).ToSql()
	if err != nil {
		return domain.Risk{}, err
	}
	return scanRisk(db.Pool.QueryRow(ctx, sql, args...))
}

func (db *DB) UpdateRisk(ctx context.Context, companyID, id int64, p domain.RiskPatch) error {
	set := map[string]any{}
	putString(set, "title", p.Title)
	putString(set, "description", p.Description)
	putString(set, "category", p.Category)
	putString(set, "probability", p.Probability)
	putString(set, "impact", p.Impact)
	putString(set, "mitigation", p.Mitigation)
	if p.Severity != nil {
		set["severity"] = string(*p.Severity)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if len(set) == 0 {
		return domain.Invalid("body", "no fields to update")
	}
	sql, args, err := db.qb.Update("risks").
		SetMap(set).
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return err
	}
	return expectOne(db.Pool.Exec(ctx, sql, args...))
}

func (db *DB) DeleteRisk(ctx context.Context, companyID, id int64) error {
	return expectOne(db.Pool.Exec(ctx, `DELETE FROM risks WHERE id = $1 AND company_id = $2`, id, companyID))
}

// ReplaceDerived drops the company's diagnosis-sourced risks and roadmap items
// and inserts the new ones atomically.
func (db *DB) ReplaceDerived(ctx context.Context, companyID int64, risks []domain.Risk, items []domain.RoadmapItem) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapErr(err)
	}
	defer finishTx(ctx, tx, &err)

	for _, table := range []string{"risks", "roadmap_items"} {
		if _, err = tx.Exec(ctx, `DELETE FROM `+table+` WHERE company_id = $1 AND source = $2`,
			companyID, domain.SourceDiagnosis); err != nil {
			return mapErr(err)
		}
	}
	if len(risks) > 0 {
		ins := db.qb.Insert("risks").Columns(riskInsertColumns...)
		for _, r := range risks {
			r.CompanyID = companyID
			r.Source = domain.SourceDiagnosis
			ins = ins.Values(riskValues(r)...)
		}
		if err = execBuilder(ctx, tx, ins); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		ins := db.qb.Insert("roadmap_items").Columns(roadmapInsertColumns...)
		for _, it := range items {
			it.CompanyID = companyID
			it.Source = domain.SourceDiagnosis
			ins = ins.Values(roadmapValues(it)...)
		}
		if err = execBuilder(ctx, tx, ins); err != nil {
			return err
		}
	}
	return nil
}

var riskInsertColumns = []string{
	"company_id", "title", "description", "category", "severity", "probability",
	"impact", "status", "mitigation", "source", "question_id",
}

func riskValues(r domain.Risk) []any {
	return []any{r.CompanyID, r.Title, r.Description, r.Category, string(r.Severity), r.Probability,
		r.Impact, string(r.Status), r.Mitigation, r.Source, r.QuestionID}
}

func riskInsert(qb squirrel.StatementBuilderType, r domain.Risk) squirrel.InsertBuilder {
	return qb.Insert("risks").Columns(riskInsertColumns...).Values(riskValues(r)...)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func execBuilder(ctx context.Context, ex execer, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, sql, args...)
	return mapErr(err)
}

func putString(set map[string]any, col string, v *string) {
	if v != nil {
		set[col] = *v
	}
}
