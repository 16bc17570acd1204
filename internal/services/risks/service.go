// Package risks manages company legal risks, including the ones derived
// automatically from diagnosis answers.
package risks

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lawbix/internal/catalog"
	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

type Service struct {
	catalog   *catalog.Catalog
	companies ports.CompanyResolver
	risks     ports.RiskRepository
	derived   ports.DerivedRepository
	logger    *slog.Logger
	now       func() time.Time
}

func New(cat *catalog.Catalog, companies ports.CompanyResolver, risks ports.RiskRepository, derived ports.DerivedRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:   cat,
		companies: companies,
		risks:     risks,
		derived:   derived,
		logger:    logger,
		now:       time.Now,
	}
}

// List never fails: when the company or its risks cannot be read, sample
// risks are returned with a mock source marker.
func (s *Service) List(ctx context.Context, userID int64) (domain.RiskList, error) {
	company, found, err := s.companies.FindCompanyForUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "risk listing: company lookup failed", "user_id", userID, "error", err)
		return samples(SourceMockError, MsgCompanyError), nil
	}
	if !found {
		return samples(SourceMockNoCompany, MsgRegisterCompany), nil
	}
	risks, err := s.risks.ListRisks(ctx, company.ID, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "risk listing failed, returning samples", "company_id", company.ID, "error", err)
		risks = nil
	}
	if len(risks) == 0 {
		return samples(SourceMockData, MsgSamples), nil
	}
	return domain.RiskList{Risks: risks, Source: SourceTable}, nil
}

func samples(source, msg string) domain.RiskList {
	rs := Samples()
	for i := range rs {
		rs[i].Source = source
	}
	return domain.RiskList{Risks: rs, Source: source, Message: msg}
}

func (s *Service) BySeverity(ctx context.Context, userID int64, level domain.RiskLevel) ([]domain.Risk, error) {
	if !level.Valid() {
		return nil, domain.Invalid("level", "severity must be low, medium or high")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.risks.ListRisks(ctx, companyID, &level)
}

func (s *Service) Stats(ctx context.Context, userID int64) (domain.RiskStats, error) {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.RiskStats{}, err
	}
	return s.risks.RiskStats(ctx, companyID)
}

func (s *Service) Create(ctx context.Context, userID int64, r domain.Risk) (domain.Risk, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || r.Severity == "" {
		return domain.Risk{}, domain.Invalid("title", "Title and severity are required")
	}
	if !r.Severity.Valid() {
		return domain.Risk{}, domain.Invalid("severity", "severity must be low, medium or high")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.Risk{}, err
	}
	r.ID = 0
	r.CompanyID = companyID
	r.Status = domain.RiskOpen
	r.Source = domain.SourceManual
	r.QuestionID = nil
	if r.Probability == "" {
		r.Probability = string(domain.RiskMedium)
	}
	if r.Impact == "" {
		r.Impact = string(domain.RiskMedium)
	}
	return s.risks.CreateRisk(ctx, r)
}

func (s *Service) Update(ctx context.Context, userID, id int64, p domain.RiskPatch) error {
	if p.Severity != nil && !p.Severity.Valid() {
		return domain.Invalid("severity", "severity must be low, medium or high")
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return domain.Invalid("status", "status must be open, mitigated or closed")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return domain.Invalid("title", "title cannot be empty")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	return s.risks.UpdateRisk(ctx, companyID, id, p)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	return s.risks.DeleteRisk(ctx, companyID, id)
}

func (s *Service) companyID(ctx context.Context, userID int64) (int64, error) {
	c, found, err := s.companies.FindCompanyForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNoCompany
	}
	return c.ID, nil
}

func validStatus(st domain.RiskStatus) bool {
	return st == domain.RiskOpen || st == domain.RiskMitigated || st == domain.RiskClosed
}

var _ ports.Risks = (*Service)(nil)
