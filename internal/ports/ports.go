package ports

import (
	"context"
	"io"

	"lawbix/internal/domain"
)

// Auth issues and verifies bearer tokens.
type Auth interface {
	Register(ctx context.Context, name, email, password string) (token string, user domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user domain.User, err error)
	Authenticate(ctx context.Context, token string) (domain.User, error)
	Me(ctx context.Context, userID int64) (domain.User, error)
}

// Diagnoses scores questionnaires and reads stored diagnoses.
type Diagnoses interface {
	Questions() []domain.Question
	// Submit only fails on malformed input; collaborator failures come back
	// as a degraded result.
	Submit(ctx context.Context, userID int64, answers []domain.Answer) (domain.Result[domain.Submission], error)
	Latest(ctx context.Context, userID int64) (domain.Result[*domain.Diagnosis], error)
	History(ctx context.Context, userID int64) ([]domain.Diagnosis, error)
	Get(ctx context.Context, userID, id int64) (domain.Diagnosis, error)
}

// Companies manages company records on behalf of an acting user.
type Companies interface {
	List(ctx context.Context, actor domain.User) ([]domain.Company, error)
	Get(ctx context.Context, actor domain.User, id int64) (domain.Company, error)
	Create(ctx context.Context, actor domain.User, ownerID *int64, in domain.CompanyInput) (domain.Company, error)
	Update(ctx context.Context, actor domain.User, id int64, in domain.CompanyInput) (domain.Company, error)
	Upsert(ctx context.Context, actor domain.User, in domain.CompanyInput) (company domain.Company, created bool, err error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}

// Risks manages the caller's company risks.
type Risks interface {
	List(ctx context.Context, userID int64) (domain.RiskList, error)
	BySeverity(ctx context.Context, userID int64, level domain.RiskLevel) ([]domain.Risk, error)
	Stats(ctx context.Context, userID int64) (domain.RiskStats, error)
	Create(ctx context.Context, userID int64, r domain.Risk) (domain.Risk, error)
	Update(ctx context.Context, userID, id int64, patch domain.RiskPatch) error
	Delete(ctx context.Context, userID, id int64) error
}

// Roadmap manages the caller's company roadmap.
type Roadmap interface {
	List(ctx context.Context, userID int64) (domain.RoadmapList, error)
	ByPriority(ctx context.Context, userID int64, level domain.RiskLevel) ([]domain.RoadmapItem, error)
	Create(ctx context.Context, userID int64, item domain.RoadmapItem) (domain.RoadmapItem, error)
	Update(ctx context.Context, userID, id int64, patch domain.RoadmapPatch) error
	Complete(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}

// Documents generates and serves PDF reports.
type Documents interface {
	Templates() []domain.Template
	// Generate records a document and queues its rendering job.
	Generate(ctx context.Context, userID int64, template string) (domain.Document, error)
	List(ctx context.Context, userID int64) (domain.DocumentList, error)
	Get(ctx context.Context, userID, id int64) (domain.Document, error)
	Open(ctx context.Context, userID, id int64) (domain.Document, io.ReadCloser, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Chatbot answers legal questions from a fixed keyword dictionary.
type Chatbot interface {
	Send(ctx context.Context, userID int64, message string) (domain.ChatReply, error)
	History(ctx context.Context, userID int64, limit int) ([]domain.ChatMessage, error)
	Clear(ctx context.Context, userID int64) error
}

// BlobStore keeps generated files.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (size int64, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
