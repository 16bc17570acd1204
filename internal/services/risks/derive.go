package risks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lawbix/internal/domain"
	"lawbix/internal/scoring"
)

// Weight at or above which a non-compliant answer is a high severity risk.
const highSeverityWeight = 9

// Roadmap due dates, counted from derivation time.
var dueIn = map[domain.RiskLevel]time.Duration{
	domain.RiskHigh:   30 * 24 * time.Hour,
	domain.RiskMedium: 60 * 24 * time.Hour,
	domain.RiskLow:    90 * 24 * time.Hour,
}

// Severity grades a non-compliant or partial answer. ok is false for
// compliant answers, which produce no risk.
func Severity(q domain.Question, answer string) (level domain.RiskLevel, ok bool) {
	switch scoring.Classify(q, answer) {
	case scoring.Compliant:
		return "", false
	case scoring.Partial:
		return domain.RiskLow, true
	}
	if q.Weight >= highSeverityWeight {
		return domain.RiskHigh, true
	}
	return domain.RiskMedium, true
}

// Build derives risks and roadmap items from the answered catalog questions.
// Unanswered questions produce nothing.
func Build(catalog []domain.Question, answers []domain.Answer, now time.Time) ([]domain.Risk, []domain.RoadmapItem) {
	given := scoring.Index(answers)
	var risks []domain.Risk
	var items []domain.RoadmapItem
	for _, q := range catalog {
		answer, answered := given[q.ID]
		if !answered {
			continue
		}
		level, ok := Severity(q, answer)
		if !ok {
			continue
		}
		qid := q.ID
		partial := level == domain.RiskLow
		probability, impact := "high", "medium"
		if partial {
			probability = "medium"
		}
		if q.Weight >= highSeverityWeight {
			impact = "high"
		}
		risks = append(risks, domain.Risk{
			Title:       q.Prompt,
			Description: fmt.Sprintf("Respuesta en el diagnóstico: %q", answer),
			Category:    q.Category,
			Severity:    level,
			Probability: probability,
			Impact:      impact,
			Status:      domain.RiskOpen,
			Mitigation:  mitigation(q, partial),
			Source:      domain.SourceDiagnosis,
			QuestionID:  &qid,
		})
		due := now.Add(dueIn[level]).Truncate(24 * time.Hour)
		items = append(items, domain.RoadmapItem{
			Title:       mitigation(q, partial),
			Description: q.Prompt,
			Category:    q.Category,
			Priority:    level,
			DueDate:     &due,
			Status:      domain.RoadmapPending,
			Source:      domain.SourceDiagnosis,
		})
	}
	return risks, items
}

func mitigation(q domain.Question, partial bool) string {
	topic := strings.Trim(q.Prompt, "¿? ")
	if partial {
		return "Completar: " + topic
	}
	return "Regularizar: " + topic
}

// Derive replaces the company's diagnosis-sourced risks and roadmap items with
// those implied by answers.
func (s *Service) Derive(ctx context.Context, companyID int64, answers []domain.Answer) error {
	if s.derived == nil {
		return nil
	}
	risks, items := Build(s.catalog.List(), answers, s.now().UTC())
	if err := s.derived.ReplaceDerived(ctx, companyID, risks, items); err != nil {
		return fmt.Errorf("replace derived risks: %w", err)
	}
	s.logger.InfoContext(ctx, "derived risks from diagnosis", "company_id", companyID, "risks", len(risks), "roadmap_items", len(items))
	return nil
}
