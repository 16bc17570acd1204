// Package scoring turns questionnaire answers into a compliance diagnosis.
// It performs no I/O and never fails.
package scoring

import (
	"math"

	"lawbix/internal/domain"
)

// Tier thresholds on the 0..100 compliance score.
const (
	highRiskBelow   = 50
	mediumRiskBelow = 75
)

// Compliance classifies a single answer against its question's options.
type Compliance int

const (
	NonCompliant Compliance = iota // options[1] or any unrecognised answer
	Compliant                      // options[0]
	Partial                        // options[2]
)

// Classify maps answer onto the option it matches. Matching is exact.
func Classify(q domain.Question, answer string) Compliance {
	switch answer {
	case q.Options[0]:
		return Compliant
	case q.Options[2]:
		return Partial
	default:
		return NonCompliant
	}
}

// Points is what an answer earns for q: the full weight, half of it rounded
// down, or nothing.
func Points(q domain.Question, answer string) int {
	switch Classify(q, answer) {
	case Compliant:
		return q.Weight
	case Partial:
		return q.Weight / 2
	default:
		return 0
	}
}

// Tier buckets a compliance score.
func Tier(score int) domain.RiskLevel {
	switch {
	case score < highRiskBelow:
		return domain.RiskHigh
	case score < mediumRiskBelow:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Index keeps the first answer given for each question id.
func Index(answers []domain.Answer) map[int]string {
	idx := make(map[int]string, len(answers))
	for _, a := range answers {
		if _, seen := idx[a.QuestionID]; !seen {
			idx[a.QuestionID] = a.Answer
		}
	}
	return idx
}

// Score computes the diagnosis for answers against the full catalog.
//
// The maximum always covers every catalog question, answered or not, so a
// partial submission cannot reach 100. Answers for unknown question ids are
// ignored. Every catalog category appears in CategoryScores.
func Score(catalog []domain.Question, answers []domain.Answer) domain.DiagnosisResult {
	given := Index(answers)
	res := domain.DiagnosisResult{
		CategoryScores: make(map[string]domain.CategoryScore),
	}
	for _, q := range catalog {
		cs := res.CategoryScores[q.Category]
		res.Max += q.Weight
		cs.Max += q.Weight
		if a, ok := given[q.ID]; ok {
			p := Points(q, a)
			res.Earned += p
			cs.Earned += p
		}
		res.CategoryScores[q.Category] = cs
	}
	if res.Max > 0 {
		res.ComplianceScore = int(math.Round(100 * float64(res.Earned) / float64(res.Max)))
	}
	res.RiskLevel = Tier(res.ComplianceScore)
	return res
}
