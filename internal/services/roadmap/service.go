// Package roadmap manages the compliance action plan of a company.
package roadmap

import (
	"context"
	"errors"
	"strings"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

const (
	MsgRegisterCompany = "No company found. Please register your company first."
	MsgTablesMissing   = "Roadmap tables not yet created. Please run database migrations."
)

type Service struct {
	companies ports.CompanyResolver
	items     ports.RoadmapRepository
}

func New(companies ports.CompanyResolver, items ports.RoadmapRepository) *Service {
	return &Service{companies: companies, items: items}
}

// List returns an empty roadmap with an explanatory message when the company
// or the schema is missing.
func (s *Service) List(ctx context.Context, userID int64) (domain.RoadmapList, error) {
	companyID, err := s.companyID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNoCompany):
		return domain.RoadmapList{Items: []domain.RoadmapItem{}, Message: MsgRegisterCompany}, nil
	case errors.Is(err, domain.ErrStorageUnavailable):
		return domain.RoadmapList{Items: []domain.RoadmapItem{}, Message: MsgTablesMissing}, nil
	case err != nil:
		return domain.RoadmapList{}, err
	}
	items, err := s.items.ListRoadmap(ctx, companyID, nil)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return domain.RoadmapList{Items: []domain.RoadmapItem{}, Message: MsgTablesMissing}, nil
	}
	if err != nil {
		return domain.RoadmapList{}, err
	}
	return domain.RoadmapList{Items: items}, nil
}

func (s *Service) ByPriority(ctx context.Context, userID int64, level domain.RiskLevel) ([]domain.RoadmapItem, error) {
	if !level.Valid() {
		return nil, domain.Invalid("level", "priority must be low, medium or high")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.items.ListRoadmap(ctx, companyID, &level)
}

func (s *Service) Create(ctx context.Context, userID int64, it domain.RoadmapItem) (domain.RoadmapItem, error) {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return domain.RoadmapItem{}, domain.Invalid("title", "Title is required")
	}
	if it.Priority == "" {
		it.Priority = domain.RiskMedium
	}
	if !it.Priority.Valid() {
		return domain.RoadmapItem{}, domain.Invalid("priority", "priority must be low, medium or high")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.RoadmapItem{}, err
	}
	it.ID = 0
	it.CompanyID = companyID
	it.Status = domain.RoadmapPending
	it.Source = domain.SourceManual
	it.CompletedAt = nil
	return s.items.CreateRoadmapItem(ctx, it)
}

func (s *Service) Update(ctx context.Context, userID, id int64, p domain.RoadmapPatch) error {
	if p.Priority != nil && !p.Priority.Valid() {
		return domain.Invalid("priority", "priority must be low, medium or high")
	}
	if p.Status != nil && !validStatus(*p.Status) {
		return domain.Invalid("status", "status must be pending, in_progress or completed")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return domain.Invalid("title", "title cannot be empty")
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	return s.items.UpdateRoadmapItem(ctx, companyID, id, p)
}

func (s *Service) Complete(ctx context.Context, userID, id int64) error {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	return s.items.CompleteRoadmapItem(ctx, companyID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	return s.items.DeleteRoadmapItem(ctx, companyID, id)
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

func validStatus(st domain.RoadmapStatus) bool {
	return st == domain.RoadmapPending || st == domain.RoadmapInProgress || st == domain.RoadmapCompleted
}

// Samples is the example plan used in reports when a company has none.
func Samples() []domain.RoadmapItem {
	return []domain.RoadmapItem{
		{Title: "Formalizar contratos laborales", Category: "Laboral", Priority: domain.RiskHigh, Status: domain.RoadmapPending},
		{Title: "Registrar marca comercial", Category: "Propiedad Intelectual", Priority: domain.RiskMedium, Status: domain.RoadmapPending},
		{Title: "Adoptar política de tratamiento de datos", Category: "Protección de Datos", Priority: domain.RiskMedium, Status: domain.RoadmapPending},
	}
}

var _ ports.Roadmap = (*Service)(nil)
