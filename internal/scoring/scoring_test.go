package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lawbix/internal/catalog"
	"lawbix/internal/domain"
)

func yesNoPartial(id, weight int, category string) domain.Question {
	return domain.Question{ID: id, Category: category, Prompt: "q", Options: [3]string{"Sí", "No", "Parcial"}, Weight: weight}
}

func answerAll(qs []domain.Question, option int) []domain.Answer {
	out := make([]domain.Answer, 0, len(qs))
	for _, q := range qs {
		out = append(out, domain.Answer{QuestionID: q.ID, Answer: q.Options[option]})
	}
	return out
}

func TestScoreEmptyAnswers(t *testing.T) {
	qs := catalog.Default().List()
	res := Score(qs, nil)

	assert.Equal(t, 0, res.ComplianceScore)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)
	require.Len(t, res.CategoryScores, 5)
	for cat, cs := range res.CategoryScores {
		assert.Zero(t, cs.Earned, cat)
		assert.Positive(t, cs.Max, cat)
	}
}

func TestScoreAllCompliant(t *testing.T) {
	qs := catalog.Default().List()
	res := Score(qs, answerAll(qs, 0))

	assert.Equal(t, 100, res.ComplianceScore)
	assert.Equal(t, domain.RiskLow, res.RiskLevel)
	for cat, cs := range res.CategoryScores {
		assert.Equal(t, cs.Max, cs.Earned, cat)
	}
}

func TestScoreAllNonCompliant(t *testing.T) {
	qs := catalog.Default().List()
	res := Score(qs, answerAll(qs, 1))

	assert.Equal(t, 0, res.ComplianceScore)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)
}

func TestScoreIsPure(t *testing.T) {
	qs := catalog.Default().List()
	answers := []domain.Answer{
		{QuestionID: 1, Answer: "Sí, completamente"},
		{QuestionID: 4, Answer: "Algunos"},
		{QuestionID: 9, Answer: "No"},
	}
	assert.Equal(t, Score(qs, answers), Score(qs, answers))
}

func TestScoreEmptyCatalog(t *testing.T) {
	res := Score(nil, []domain.Answer{{QuestionID: 1, Answer: "Sí"}})

	assert.Equal(t, 0, res.ComplianceScore)
	assert.Equal(t, 0, res.Max)
	assert.Empty(t, res.CategoryScores)
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  domain.RiskLevel
	}{
		{0, domain.RiskHigh},
		{49, domain.RiskHigh},
		{50, domain.RiskMedium},
		{74, domain.RiskMedium},
		{75, domain.RiskLow},
		{100, domain.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.score), "score %d", tt.score)
	}
}

func TestScoreFullAndPartial(t *testing.T) {
	qs := []domain.Question{yesNoPartial(1, 10, "Laboral"), yesNoPartial(2, 10, "Laboral")}
	res := Score(qs, []domain.Answer{
		{QuestionID: 1, Answer: "Sí"},
		{QuestionID: 2, Answer: "Parcial"},
	})

	assert.Equal(t, 15, res.Earned)
	assert.Equal(t, 20, res.Max)
	assert.Equal(t, 75, res.ComplianceScore)
	assert.Equal(t, domain.RiskLow, res.RiskLevel)
	assert.Equal(t, domain.CategoryScore{Earned: 15, Max: 20}, res.CategoryScores["Laboral"])
}

func TestScorePartialSubmissionCountsWholeCatalog(t *testing.T) {
	qs := []domain.Question{
		yesNoPartial(1, 10, "Fiscal"),
		yesNoPartial(2, 10, "Fiscal"),
		yesNoPartial(3, 10, "Laboral"),
	}
	res := Score(qs, []domain.Answer{{QuestionID: 1, Answer: "Sí"}})

	assert.Equal(t, 30, res.Max)
	assert.Equal(t, 10, res.Earned)
	assert.Equal(t, 33, res.ComplianceScore)
	assert.Equal(t, domain.RiskHigh, res.RiskLevel)
	assert.Equal(t, domain.CategoryScore{Earned: 0, Max: 10}, res.CategoryScores["Laboral"])
}

func TestScoreOddWeightPartialRoundsDown(t *testing.T) {
	qs := []domain.Question{yesNoPartial(1, 7, "IP")}
	res := Score(qs, []domain.Answer{{QuestionID: 1, Answer: "Parcial"}})

	assert.Equal(t, 3, res.Earned)
	assert.Equal(t, 43, res.ComplianceScore)
}

func TestScoreIgnoresUnknownAndDuplicateAnswers(t *testing.T) {
	qs := []domain.Question{yesNoPartial(1, 10, "A")}
	res := Score(qs, []domain.Answer{
		{QuestionID: 42, Answer: "Sí"},
		{QuestionID: 1, Answer: "No"},
		{QuestionID: 1, Answer: "Sí"},
	})

	assert.Equal(t, 0, res.Earned, "first answer for a question wins")
}

func TestClassify(t *testing.T) {
	q := yesNoPartial(1, 10, "A")
	assert.Equal(t, Compliant, Classify(q, "Sí"))
	assert.Equal(t, NonCompliant, Classify(q, "No"))
	assert.Equal(t, Partial, Classify(q, "Parcial"))
	assert.Equal(t, NonCompliant, Classify(q, "sí"), "matching is exact")
	assert.Equal(t, 5, Points(q, "Parcial"))
}
