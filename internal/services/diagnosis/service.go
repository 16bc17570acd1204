// Package diagnosis scores questionnaire submissions and persists them for
// the submitting user's company when it can.
//
// Submit never fails because a collaborator did: a missing company, an
// absent schema or any other storage failure degrades the result to
// compute-only and the caller still receives the score.
package diagnosis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lawbix/internal/catalog"
	"lawbix/internal/domain"
	"lawbix/internal/observability"
	"lawbix/internal/ports"
	"lawbix/internal/scoring"
)

// Messages returned with degraded or empty results.
const (
	MsgPersisted        = "Diagnosis submitted successfully"
	MsgNoCompany        = "Diagnosis calculated successfully (not saved - no company found)"
	MsgNotPersisted     = "Diagnosis calculated successfully (results not persisted to database)"
	MsgSaveFailed       = "Diagnosis calculated (could not save results)"
	MsgRegisterCompany  = "No company found. Please register your company first."
	MsgCompaniesMissing = "Companies table not found. Database may need setup."
	MsgNoResults        = "No diagnosis results found. Please complete a diagnosis first."
	MsgDiagnosesMissing = "Diagnosis table not found. Please complete a diagnosis first."
)

// Deriver turns a persisted submission into follow-up records such as risks.
type Deriver interface {
	Derive(ctx context.Context, companyID int64, answers []domain.Answer) error
}

type Service struct {
	catalog   *catalog.Catalog
	companies ports.CompanyResolver
	store     ports.DiagnosisRepository
	deriver   Deriver
	metrics   *observability.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithDeriver(d Deriver) Option { return func(s *Service) { s.deriver = d } }

func WithMetrics(m *observability.Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New builds the service. companies and store may be nil, in which case every
// submission is compute-only.
func New(cat *catalog.Catalog, companies ports.CompanyResolver, store ports.DiagnosisRepository, opts ...Option) *Service {
	s := &Service{
		catalog:   cat,
		companies: companies,
		store:     store,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Questions() []domain.Question { return s.catalog.List() }

func (s *Service) Submit(ctx context.Context, userID int64, answers []domain.Answer) (domain.Result[domain.Submission], error) {
	ctx, span := observability.Tracer().Start(ctx, "diagnosis.submit",
		trace.WithAttributes(attribute.Int64("user.id", userID), attribute.Int("answers", len(answers))))
	defer span.End()

	if answers == nil {
		s.metrics.Submission("invalid")
		return domain.Result[domain.Submission]{}, domain.Invalid("answers", "Answers array is required")
	}

	res := scoring.Score(s.catalog.List(), answers)
	span.SetAttributes(attribute.Int("compliance_score", res.ComplianceScore), attribute.String("risk_level", string(res.RiskLevel)))
	sub := domain.Submission{
		Diagnosis: domain.Diagnosis{
			ComplianceScore: res.ComplianceScore,
			RiskLevel:       res.RiskLevel,
			CategoryScores:  res.CategoryScores,
			Answers:         answers,
			CreatedAt:       s.now().UTC(),
		},
		TotalQuestions: len(answers),
	}

	degrade := func(reason string, err error) (domain.Result[domain.Submission], error) {
		if err != nil {
			span.RecordError(err)
			s.logger.WarnContext(ctx, "diagnosis not persisted", "user_id", userID, "reason", reason, "error", err)
		}
		span.SetAttributes(attribute.Bool("persisted", false))
		s.metrics.Submission("degraded")
		return domain.Degraded(sub, reason), nil
	}

	if s.companies == nil || s.store == nil {
		return degrade(MsgNotPersisted, nil)
	}
	company, found, err := s.companies.FindCompanyForUser(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return degrade(MsgNotPersisted, err)
	case err != nil:
		return degrade(MsgSaveFailed, err)
	case !found:
		return degrade(MsgNoCompany, nil)
	}

	saved, err := s.store.SaveDiagnosis(ctx, company.ID, res, answers)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return degrade(MsgNotPersisted, err)
	case err != nil:
		return degrade(MsgSaveFailed, err)
	}
	sub.Diagnosis = saved
	sub.Persisted = true
	span.SetAttributes(attribute.Bool("persisted", true), attribute.Int64("diagnosis.id", saved.ID))
	s.metrics.Submission("persisted")

	if s.deriver != nil {
		if err := s.deriver.Derive(ctx, company.ID, answers); err != nil {
			s.logger.WarnContext(ctx, "risk derivation failed", "company_id", company.ID, "diagnosis_id", saved.ID, "error", err)
		}
	}
	return domain.Ok(sub), nil
}

// Latest returns the most recent diagnosis of the user's company. A nil value
// with no degradation means the company has no diagnosis yet.
func (s *Service) Latest(ctx context.Context, userID int64) (domain.Result[*domain.Diagnosis], error) {
	if s.companies == nil || s.store == nil {
		return domain.Degraded[*domain.Diagnosis](nil, MsgDiagnosesMissing), nil
	}
	company, found, err := s.companies.FindCompanyForUser(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return domain.Degraded[*domain.Diagnosis](nil, MsgCompaniesMissing), nil
	case err != nil:
		return domain.Result[*domain.Diagnosis]{}, err
	case !found:
		return domain.Degraded[*domain.Diagnosis](nil, MsgRegisterCompany), nil
	}

	d, found, err := s.store.LatestDiagnosis(ctx, company.ID)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		return domain.Degraded[*domain.Diagnosis](nil, MsgDiagnosesMissing), nil
	case err != nil:
		return domain.Result[*domain.Diagnosis]{}, err
	case !found:
		return domain.Ok[*domain.Diagnosis](nil), nil
	}
	return domain.Ok(&d), nil
}

// History lists every diagnosis of the user's company, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Diagnosis, error) {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListDiagnoses(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (domain.Diagnosis, error) {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.Diagnosis{}, err
	}
	return s.store.GetDiagnosis(ctx, companyID, id)
}

func (s *Service) companyID(ctx context.Context, userID int64) (int64, error) {
	if s.companies == nil || s.store == nil {
		return 0, domain.ErrStorageUnavailable
	}
	c, found, err := s.companies.FindCompanyForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNoCompany
	}
	return c.ID, nil
}

var _ ports.Diagnoses = (*Service)(nil)
