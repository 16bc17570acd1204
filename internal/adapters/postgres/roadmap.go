package postgres

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"lawbix/internal/domain"
)

var roadmapColumns = []string{
	"id", "company_id", "title", "description", "category", "priority", "due_date",
	"status", "source", "completed_at", "created_at",
}

var roadmapInsertColumns = []string{
	"company_id", "title", "description", "category", "priority", "due_date", "status", "source",
}

const priorityRank = `CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`

func scanRoadmapItem(row interface{ Scan(...any) error }) (domain.RoadmapItem, error) {
	var it domain.RoadmapItem
	var priority, status string
	err := row.Scan(&it.ID, &it.CompanyID, &it.Title, &it.Description, &it.Category, &priority, &it.DueDate,
		&status, &it.Source, &it.CompletedAt, &it.CreatedAt)
	it.Priority = domain.RiskLevel(priority)
	it.Status = domain.RoadmapStatus(status)
	return it, mapErr(err)
}

func roadmapValues(it domain.RoadmapItem) []any {
	return []any{it.CompanyID, it.Title, it.Description, it.Category, string(it.Priority), it.DueDate,
		string(it.Status), it.Source}
}

// ListRoadmap orders by priority, highest first, then by due date.
func (db *DB) ListRoadmap(ctx context.Context, companyID int64, priority *domain.RiskLevel) ([]domain.RoadmapItem, error) {
	q := db.qb.Select(roadmapColumns...).From("roadmap_items").Where(squirrel.Eq{"company_id": companyID})
	if priority != nil {
		q = q.Where(squirrel.Eq{"priority": string(*priority)})
	}
	sql, args, err := q.OrderBy(priorityRank, "due_date ASC NULLS LAST", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.RoadmapItem{}
	for rows.Next() {
		it, err := scanRoadmapItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, mapErr(rows.Err())
}

func (db *DB) CreateRoadmapItem(ctx context.Context, it domain.RoadmapItem) (domain.RoadmapItem, error) {
	sql, args, err := db.qb.Insert("roadmap_items").
		Columns(roadmapInsertColumns...).
		Values(roadmapValues(it)...).
		Suffix("RETURNING " + strings.Join(roadmapColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.RoadmapItem{}, err
	}
	return scanRoadmapItem(db.Pool.QueryRow(ctx, sql, args...))
}

func (db *DB) UpdateRoadmapItem(ctx context.Context, companyID, id int64, p domain.RoadmapPatch) error {
	set := map[string]any{}
	putString(set, "title", p.Title)
	putString(set, "description", p.Description)
	putString(set, "category", p.Category)
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.DueDate != nil {
		set["due_date"] = *p.DueDate
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
		if *p.Status == domain.RoadmapCompleted {
			set["completed_at"] = squirrel.Expr("COALESCE(completed_at, now())")
		} else {
			set["completed_at"] = nil
		}
	}
	if len(set) == 0 {
		return domain.Invalid("body", "no fields to update")
	}
	sql, args, err := db.qb.Update("roadmap_items").
		SetMap(set).
		Where(squirrel.Eq{"id": id, "company_id": companyID}).
		ToSql()
	if err != nil {
		return err
	}
	return expectOne(db.Pool.Exec(ctx, sql, args...))
}

func (db *DB) CompleteRoadmapItem(ctx context.Context, companyID, id int64) error {
	return expectOne(db.Pool.Exec(ctx, `
		UPDATE roadmap_items
		SET status = 'completed', completed_at = COALESCE(completed_at, now())
		WHERE id = $1 AND company_id = $2
	`, id, companyID))
}

func (db *DB) DeleteRoadmapItem(ctx context.Context, companyID, id int64) error {
	return expectOne(db.Pool.Exec(ctx, `DELETE FROM roadmap_items WHERE id = $1 AND company_id = $2`, id, companyID))
}
