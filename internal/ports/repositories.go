package ports

import (
	"context"

	"lawbix/internal/domain"
)

// UserRepository stores accounts. CreateUser reports domain.ErrConflict for a
// taken email; lookups report domain.ErrNotFound.
type UserRepository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, role domain.Role) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
}

// CompanyResolver maps a user to the company they own, if any. When several
// rows exist for one user the lowest id wins.
type CompanyResolver interface {
	FindCompanyForUser(ctx context.Context, userID int64) (company domain.Company, found bool, err error)
}

// CompanyRepository manages company records.
type CompanyRepository interface {
	CompanyResolver
	GetCompany(ctx context.Context, id int64) (domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CreateCompany(ctx context.Context, userID int64, in domain.CompanyInput) (domain.Company, error)
	UpdateCompany(ctx context.Context, id int64, in domain.CompanyInput) (domain.Company, error)
	UpsertCompany(ctx context.Context, userID int64, in domain.CompanyInput) (company domain.Company, created bool, err error)
	DeleteCompany(ctx context.Context, id int64) error
}

// DiagnosisRepository persists scored diagnoses. A missing schema surfaces as
// domain.ErrStorageUnavailable.
type DiagnosisRepository interface {
	SaveDiagnosis(ctx context.Context, companyID int64, res domain.DiagnosisResult, answers []domain.Answer) (domain.Diagnosis, error)
	LatestDiagnosis(ctx context.Context, companyID int64) (diag domain.Diagnosis, found bool, err error)
	ListDiagnoses(ctx context.Context, companyID int64) ([]domain.Diagnosis, error)
	GetDiagnosis(ctx context.Context, companyID, id int64) (domain.Diagnosis, error)
}

// RiskRepository manages company risks. A nil severity lists every level.
type RiskRepository interface {
	ListRisks(ctx context.Context, companyID int64, severity *domain.RiskLevel) ([]domain.Risk, error)
	RiskStats(ctx context.Context, companyID int64) (domain.RiskStats, error)
	CreateRisk(ctx context.Context, r domain.Risk) (domain.Risk, error)
	UpdateRisk(ctx context.Context, companyID, id int64, patch domain.RiskPatch) error
	DeleteRisk(ctx context.Context, companyID, id int64) error
}

// RoadmapRepository manages roadmap items. A nil priority lists every level.
type RoadmapRepository interface {
	ListRoadmap(ctx context.Context, companyID int64, priority *domain.RiskLevel) ([]domain.RoadmapItem, error)
	CreateRoadmapItem(ctx context.Context, item domain.RoadmapItem) (domain.RoadmapItem, error)
	UpdateRoadmapItem(ctx context.Context, companyID, id int64, patch domain.RoadmapPatch) error
	CompleteRoadmapItem(ctx context.Context, companyID, id int64) error
	DeleteRoadmapItem(ctx context.Context, companyID, id int64) error
}

// DerivedRepository swaps the diagnosis-derived risks and roadmap items of a
// company in one transaction. Manually created rows are left alone.
type DerivedRepository interface {
	ReplaceDerived(ctx context.Context, companyID int64, risks []domain.Risk, items []domain.RoadmapItem) error
}

// DocumentRepository tracks generated documents. CreateDocument also queues
// the generation job.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, d domain.Document) (domain.Document, error)
	GetDocument(ctx context.Context, companyID, id int64) (domain.Document, error)
	DocumentByID(ctx context.Context, id int64) (domain.Document, error)
	ListDocuments(ctx context.Context, companyID int64) ([]domain.Document, error)
	DeleteDocument(ctx context.Context, companyID, id int64) (domain.Document, error)
}

// ChatRepository keeps per-user chatbot transcripts.
type ChatRepository interface {
	AppendChat(ctx context.Context, msgs ...domain.ChatMessage) error
	// ChatHistory returns up to limit most recent messages in chronological order.
	ChatHistory(ctx context.Context, userID int64, limit int) ([]domain.ChatMessage, error)
	ClearChat(ctx context.Context, userID int64) error
}

// Pinger checks the backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}
