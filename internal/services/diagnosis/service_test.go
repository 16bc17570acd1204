package diagnosis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"lawbix/internal/catalog"
	"lawbix/internal/domain"
	"lawbix/internal/observability"
	"lawbix/internal/ports/mocks"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type deriverFunc func(ctx context.Context, companyID int64, answers []domain.Answer) error

func (f deriverFunc) Derive(ctx context.Context, companyID int64, answers []domain.Answer) error {
	return f(ctx, companyID, answers)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func allCompliant() []domain.Answer {
	var out []domain.Answer
	for _, q := range catalog.Default().List() {
		out = append(out, domain.Answer{QuestionID: q.ID, Answer: q.Options[0]})
	}
	return out
}

func newService(companies *mocks.CompanyRepository, store *mocks.DiagnosisRepository, opts ...Option) *Service {
	opts = append([]Option{WithLogger(quietLogger()), WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(catalog.Default(), companies, store, opts...)
}

func TestSubmitPersists(t *testing.T) {
	companies := new(mocks.CompanyRepository)
	store := new(mocks.DiagnosisRepository)
	answers := allCompliant()
	companies.On("FindCompanyForUser", mock.Anything, int64(7)).Return(domain.Company{ID: 3}, true, nil)
	store.On("SaveDiagnosis", mock.Anything, int64(3), mock.AnythingOfType("domain.DiagnosisResult"), answers).
		Return(domain.Diagnosis{ID: 11, ComplianceScore: 100, RiskLevel: domain.RiskLow, CreatedAt: fixedNow}, nil)

	var derivedFor int64
	metrics := observability.NewMetrics()
	svc := newService(companies, store, WithMetrics(metrics), WithDeriver(deriverFunc(func(_ context.Context, id int64, _ []domain.Answer) error {
		derivedFor = id
		return nil
	})))

	res, err := svc.Submit(context.Background(), 7, answers)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.True(t, res.Value.Persisted)
	assert.Equal(t, int64(11), res.Value.Diagnosis.ID)
	assert.Equal(t, 100, res.Value.Diagnosis.ComplianceScore)
	assert.Equal(t, 15, res.Value.TotalQuestions)
	assert.Equal(t, int64(3), derivedFor)
	assert.NoError(t, testutil.GatherAndCompare(metrics.Registry, strings.NewReader(`
# HELP lawbix_diagnosis_submissions_total Diagnosis submissions by outcome (persisted, degraded, invalid).
# TYPE lawbix_diagnosis_submissions_total counter
lawbix_diagnosis_submissions_total{outcome="persisted"} 1
`), "lawbix_diagnosis_submissions_total"))
	companies.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestSubmitSavesScoredResult(t *testing.T) {
	companies := new(mocks.CompanyRepository)
	store := new(mocks.DiagnosisRepository)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	store.On("SaveDiagnosis", mock.Anything, int64(2), mock.MatchedBy(func(r domain.DiagnosisResult) bool {
		return r.ComplianceScore == 0 && r.RiskLevel == domain.RiskHigh && len(r.CategoryScores) == 5
	}), mock.Anything).Return(domain.Diagnosis{ID: 1}, nil)

	_, err := newService(companies, store).Submit(context.Background(), 1, []domain.Answer{})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSubmitDegrades(t *testing.T) {
	storageDown := errors.Join(domain.ErrStorageUnavailable, errors.New(`relation "companies" does not exist`))
	tests := []struct {
		name    string
		setup   func(c *mocks.CompanyRepository, s *mocks.DiagnosisRepository)
		message string
	}{
		{
			name: "no company",
			setup: func(c *mocks.CompanyRepository, _ *mocks.DiagnosisRepository) {
				c.On("FindCompanyForUser", mock.Anything, int64(5)).Return(domain.Company{}, false, nil)
			},
			message: MsgNoCompany,
		},
		{
			name: "companies table missing",
			setup: func(c *mocks.CompanyRepository, _ *mocks.DiagnosisRepository) {
				c.On("FindCompanyForUser", mock.Anything, int64(5)).Return(domain.Company{}, false, storageDown)
			},
			message: MsgNotPersisted,
		},
		{
			name: "company lookup fails",
			setup: func(c *mocks.CompanyRepository, _ *mocks.DiagnosisRepository) {
				c.On("FindCompanyForUser", mock.Anything, int64(5)).Return(domain.Company{}, false, errors.New("conn reset"))
			},
			message: MsgSaveFailed,
		},
		{
			name: "diagnosis table missing",
			setup: func(c *mocks.CompanyRepository, s *mocks.DiagnosisRepository) {
				c.On("FindCompanyForUser", mock.Anything, int64(5)).Return(domain.Company{ID: 9}, true, nil)
				s.On("SaveDiagnosis", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(domain.Diagnosis{}, storageDown)
			},
			message: MsgNotPersisted,
		},
		{
			name: "save fails",
			setup: func(c *mocks.CompanyRepository, s *mocks.DiagnosisRepository) {
				c.On("FindCompanyForUser", mock.Anything, int64(5)).Return(domain.Company{ID: 9}, true, nil)
				s.On("SaveDiagnosis", mock.Anything, int64(9), mock.Anything, mock.Anything).Return(domain.Diagnosis{}, errors.New("timeout"))
			},
			message: MsgSaveFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companies := new(mocks.CompanyRepository)
			store := new(mocks.DiagnosisRepository)
			tt.setup(companies, store)
			derived := false
			svc := newService(companies, store, WithDeriver(deriverFunc(func(context.Context, int64, []domain.Answer) error {
				derived = true
				return nil
			})))

			res, err := svc.Submit(context.Background(), 5, allCompliant())
			require.NoError(t, err)
			assert.True(t, res.Degraded)
			assert.Equal(t, tt.message, res.Reason)
			assert.False(t, res.Value.Persisted)
			assert.Zero(t, res.Value.Diagnosis.ID)
			assert.Equal(t, 100, res.Value.Diagnosis.ComplianceScore)
			assert.Equal(t, fixedNow, res.Value.Diagnosis.CreatedAt)
			assert.False(t, derived)
		})
	}
}

func TestSubmitWithoutStorage(t *testing.T) {
	svc := New(catalog.Default(), nil, nil, WithLogger(quietLogger()))
	res, err := svc.Submit(context.Background(), 1, []domain.Answer{{QuestionID: 1, Answer: "Sí, completamente"}})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, 1, res.Value.TotalQuestions)
	assert.Equal(t, 10, res.Value.Diagnosis.CategoryScores["Corporativo"].Earned)
}

func TestSubmitRejectsMissingAnswers(t *testing.T) {
	svc := New(catalog.Default(), nil, nil)
	_, err := svc.Submit(context.Background(), 1, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitIgnoresDerivationFailure(t *testing.T) {
	companies := new(mocks.CompanyRepository)
	store := new(mocks.DiagnosisRepository)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	store.On("SaveDiagnosis", mock.Anything, int64(2), mock.Anything, mock.Anything).Return(domain.Diagnosis{ID: 4}, nil)
	svc := newService(companies, store, WithDeriver(deriverFunc(func(context.Context, int64, []domain.Answer) error {
		return errors.New("risks table missing")
	})))

	res, err := svc.Submit(context.Background(), 1, allCompliant())
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.True(t, res.Value.Persisted)
}

func TestSubmitRecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := observability.NewTracerProvider(context.Background(), "test", quietLogger(), rec)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, err := New(catalog.Default(), nil, nil, WithLogger(quietLogger())).Submit(context.Background(), 1, []domain.Answer{})
	require.NoError(t, err)

	spans := rec.Ended()
	require.NotEmpty(t, spans)
	last := spans[len(spans)-1]
	assert.Equal(t, "diagnosis.submit", last.Name())
}

func TestLatest(t *testing.T) {
	storageDown := errors.Join(domain.ErrStorageUnavailable, errors.New("undefined table"))
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		companies := new(mocks.CompanyRepository)
		store := new(mocks.DiagnosisRepository)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
		store.On("LatestDiagnosis", mock.Anything, int64(2)).Return(domain.Diagnosis{ID: 8, ComplianceScore: 60}, true, nil)

		res, err := newService(companies, store).Latest(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, res.Value)
		assert.Equal(t, int64(8), res.Value.ID)
	})

	t.Run("none yet", func(t *testing.T) {
		companies := new(mocks.CompanyRepository)
		store := new(mocks.DiagnosisRepository)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
		store.On("LatestDiagnosis", mock.Anything, int64(2)).Return(domain.Diagnosis{}, false, nil)

		res, err := newService(companies, store).Latest(ctx, 1)
		require.NoError(t, err)
		assert.False(t, res.Degraded)
		assert.Nil(t, res.Value)
	})

	t.Run("no company", func(t *testing.T) {
		companies := new(mocks.CompanyRepository)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{}, false, nil)

		res, err := newService(companies, new(mocks.DiagnosisRepository)).Latest(ctx, 1)
		require.NoError(t, err)
		assert.True(t, res.Degraded)
		assert.Equal(t, MsgRegisterCompany, res.Reason)
	})

	t.Run("table missing", func(t *testing.T) {
		companies := new(mocks.CompanyRepository)
		store := new(mocks.DiagnosisRepository)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
		store.On("LatestDiagnosis", mock.Anything, int64(2)).Return(domain.Diagnosis{}, false, storageDown)

		res, err := newService(companies, store).Latest(ctx, 1)
		require.NoError(t, err)
		assert.True(t, res.Degraded)
		assert.Equal(t, MsgDiagnosesMissing, res.Reason)
	})

	t.Run("unexpected", func(t *testing.T) {
		companies := new(mocks.CompanyRepository)
		companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{}, false, errors.New("boom"))

		_, err := newService(companies, new(mocks.DiagnosisRepository)).Latest(ctx, 1)
		assert.EqualError(t, err, "boom")
	})
}

func TestHistoryAndGet(t *testing.T) {
	companies := new(mocks.CompanyRepository)
	store := new(mocks.DiagnosisRepository)
	companies.On("FindCompanyForUser", mock.Anything, int64(1)).Return(domain.Company{ID: 2}, true, nil)
	companies.On("FindCompanyForUser", mock.Anything, int64(99)).Return(domain.Company{}, false, nil)
	store.On("ListDiagnoses", mock.Anything, int64(2)).Return([]domain.Diagnosis{{ID: 5}, {ID: 4}}, nil)
	store.On("GetDiagnosis", mock.Anything, int64(2), int64(4)).Return(domain.Diagnosis{ID: 4}, nil)
	store.On("GetDiagnosis", mock.Anything, int64(2), int64(40)).Return(domain.Diagnosis{}, domain.ErrNotFound)
	svc := newService(companies, store)
	ctx := context.Background()

	hist, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, hist, 2)

	d, err := svc.Get(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.ID)

	_, err = svc.Get(ctx, 1, 40)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.History(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNoCompany)
}
