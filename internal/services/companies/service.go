// Package companies manages the company profile each user registers.
package companies

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

type Service struct {
	repo ports.CompanyRepository
}

func New(repo ports.CompanyRepository) *Service { return &Service{repo: repo} }

// List is restricted to privileged roles.
func (s *Service) List(ctx context.Context, actor domain.User) ([]domain.Company, error) {
	if !actor.Role.Privileged() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListCompanies(ctx)
}

func (s *Service) Get(ctx context.Context, actor domain.User, id int64) (domain.Company, error) {
	c, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	if !canAccess(actor, c) {
		return domain.Company{}, domain.ErrForbidden
	}
	return c, nil
}

// Create registers a company owned by ownerID, or by the actor when ownerID
// is nil. Only privileged roles may create companies this way.
func (s *Service) Create(ctx context.Context, actor domain.User, ownerID *int64, in domain.CompanyInput) (domain.Company, error) {
	if !actor.Role.Privileged() {
		return domain.Company{}, domain.ErrForbidden
	}
	if err := normalize(&in); err != nil {
		return domain.Company{}, err
	}
	owner := actor.ID
	if ownerID != nil {
		owner = *ownerID
	}
	return s.repo.CreateCompany(ctx, owner, in)
}

func (s *Service) Update(ctx context.Context, actor domain.User, id int64, in domain.CompanyInput) (domain.Company, error) {
	if err := normalize(&in); err != nil {
		return domain.Company{}, err
	}
	c, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	if !canAccess(actor, c) {
		return domain.Company{}, domain.ErrForbidden
	}
	return s.repo.UpdateCompany(ctx, id, in)
}

// Upsert creates or updates the actor's own company.
func (s *Service) Upsert(ctx context.Context, actor domain.User, in domain.CompanyInput) (domain.Company, bool, error) {
	if err := normalize(&in); err != nil {
		return domain.Company{}, false, err
	}
	return s.repo.UpsertCompany(ctx, actor.ID, in)
}

func (s *Service) Delete(ctx context.Context, actor domain.User, id int64) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.repo.DeleteCompany(ctx, id)
}

func canAccess(actor domain.User, c domain.Company) bool {
	return actor.Role.Privileged() || c.UserID == actor.ID
}

func normalize(in *domain.CompanyInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Invalid("name", "Company name is required")
	}
	if in.EmployeeCount != nil && *in.EmployeeCount < 0 {
		return domain.Invalid("employee_count", "employee count cannot be negative")
	}
	in.Industry = trimmed(in.Industry)
	in.Country = trimmed(in.Country)
	in.CorporateVehicle = trimmed(in.CorporateVehicle)
	in.Website = trimmed(in.Website)
	in.Domain = nil
	if in.Website != nil {
		d, err := RegistrableDomain(*in.Website)
		if err != nil {
			return domain.Invalid("website", "website must be a valid URL or host name")
		}
		in.Domain = &d
	}
	return nil
}

// RegistrableDomain reduces a website to its eTLD+1, e.g.
// "https://shop.example.co.uk/x" becomes "example.co.uk".
func RegistrableDomain(website string) (string, error) {
	raw := website
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return "", domain.Invalid("website", "missing host")
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return registrable, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var _ ports.Companies = (*Service)(nil)
