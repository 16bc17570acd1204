package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"

	"lawbix/internal/domain"
)

func scanDiagnosis(row interface{ Scan(...any) error }) (domain.Diagnosis, error) {
	var d domain.Diagnosis
	var level string
	err := row.Scan(&d.ID, &d.CompanyID, &d.ComplianceScore, &level, &d.CategoryScores, &d.Answers, &d.CreatedAt)
	d.RiskLevel = domain.RiskLevel(level)
	return d, mapErr(err)
}

func (db *DB) selectDiagnoses(companyID int64) squirrel.SelectBuilder {
	return db.qb.Select("id", "company_id", "compliance_score", "risk_level", "category_scores", "answers", "created_at").
		From("diagnosis_results").
		Where(squirrel.Eq{"company_id": companyID})
}

// SaveDiagnosis inserts a new immutable diagnosis row.
func (db *DB) SaveDiagnosis(ctx context.Context, companyID int64, res domain.DiagnosisResult, answers []domain.Answer) (domain.Diagnosis, error) {
	if answers == nil {
		answers = []domain.Answer{}
	}
	d := domain.Diagnosis{
		CompanyID:       &companyID,
		ComplianceScore: res.ComplianceScore,
		RiskLevel:       res.RiskLevel,
		CategoryScores:  res.CategoryScores,
		Answers:         answers,
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO diagnosis_results (company_id, compliance_score, risk_level, category_scores, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, companyID, res.ComplianceScore, string(res.RiskLevel), res.CategoryScores, answers).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return domain.Diagnosis{}, mapErr(err)
	}
	return d, nil
}

func (db *DB) LatestDiagnosis(ctx context.Context, companyID int64) (domain.Diagnosis, bool, error) {
	sql, args, err := db.selectDiagnoses(companyID).OrderBy("created_at DESC", "id DESC").Limit(1).ToSql()
	if err != nil {
		return domain.Diagnosis{}, false, err
	}
	d, err := scanDiagnosis(db.Pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Diagnosis{}, false, nil
	}
	if err != nil {
		return domain.Diagnosis{}, false, err
	}
	return d, true, nil
}

func (db *DB) ListDiagnoses(ctx context.Context, companyID int64) ([]domain.Diagnosis, error) {
	sql, args, err := db.selectDiagnoses(companyID).OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Diagnosis{}
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, mapErr(rows.Err())
}

func (db *DB) GetDiagnosis(ctx context.Context, companyID, id int64) (domain.Diagnosis, error) {
	sql, args, err := db.selectDiagnoses(companyID).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Diagnosis{}, err
	}
	return scanDiagnosis(db.Pool.QueryRow(ctx, sql, args...))
}
