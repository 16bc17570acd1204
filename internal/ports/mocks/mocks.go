// Package mocks provides testify mocks of the repository ports.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) CreateUser(ctx context.Context, name, email, hash string, role domain.Role) (domain.User, error) {
	args := m.Called(ctx, name, email, hash, role)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) UserByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type CompanyRepository struct{ mock.Mock }

func (m *CompanyRepository) FindCompanyForUser(ctx context.Context, userID int64) (domain.Company, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Company), args.Bool(1), args.Error(2)
}

func (m *CompanyRepository) GetCompany(ctx context.Context, id int64) (domain.Company, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *CompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]domain.Company)
	return out, args.Error(1)
}

func (m *CompanyRepository) CreateCompany(ctx context.Context, userID int64, in domain.CompanyInput) (domain.Company, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *CompanyRepository) UpdateCompany(ctx context.Context, id int64, in domain.CompanyInput) (domain.Company, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Company), args.Error(1)
}

func (m *CompanyRepository) UpsertCompany(ctx context.Context, userID int64, in domain.CompanyInput) (domain.Company, bool, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(domain.Company), args.Bool(1), args.Error(2)
}

func (m *CompanyRepository) DeleteCompany(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type DiagnosisRepository struct{ mock.Mock }

func (m *DiagnosisRepository) SaveDiagnosis(ctx context.Context, companyID int64, res domain.DiagnosisResult, answers []domain.Answer) (domain.Diagnosis, error) {
	args := m.Called(ctx, companyID, res, answers)
	return args.Get(0).(domain.Diagnosis), args.Error(1)
}

func (m *DiagnosisRepository) LatestDiagnosis(ctx context.Context, companyID int64) (domain.Diagnosis, bool, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(domain.Diagnosis), args.Bool(1), args.Error(2)
}

func (m *DiagnosisRepository) ListDiagnoses(ctx context.Context, companyID int64) ([]domain.Diagnosis, error) {
	args := m.Called(ctx, companyID)
	out, _ := args.Get(0).([]domain.Diagnosis)
	return out, args.Error(1)
}

func (m *DiagnosisRepository) GetDiagnosis(ctx context.Context, companyID, id int64) (domain.Diagnosis, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Diagnosis), args.Error(1)
}

type RiskRepository struct{ mock.Mock }

func (m *RiskRepository) ListRisks(ctx context.Context, companyID int64, severity *domain.RiskLevel) ([]domain.Risk, error) {
	args := m.Called(ctx, companyID, severity)
	out, _ := args.Get(0).([]domain.Risk)
	return out, args.Error(1)
}

func (m *RiskRepository) RiskStats(ctx context.Context, companyID int64) (domain.RiskStats, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(domain.RiskStats), args.Error(1)
}

func (m *RiskRepository) CreateRisk(ctx context.Context, r domain.Risk) (domain.Risk, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.Risk), args.Error(1)
}

func (m *RiskRepository) UpdateRisk(ctx context.Context, companyID, id int64, patch domain.RiskPatch) error {
	return m.Called(ctx, companyID, id, patch).Error(0)
}

func (m *RiskRepository) DeleteRisk(ctx context.Context, companyID, id int64) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type RoadmapRepository struct{ mock.Mock }

func (m *RoadmapRepository) ListRoadmap(ctx context.Context, companyID int64, priority *domain.RiskLevel) ([]domain.RoadmapItem, error) {
	args := m.Called(ctx, companyID, priority)
	out, _ := args.Get(0).([]domain.RoadmapItem)
	return out, args.Error(1)
}

func (m *RoadmapRepository) CreateRoadmapItem(ctx context.Context, it domain.RoadmapItem) (domain.RoadmapItem, error) {
	args := m.Called(ctx, it)
	return args.Get(0).(domain.RoadmapItem), args.Error(1)
}

func (m *RoadmapRepository) UpdateRoadmapItem(ctx context.Context, companyID, id int64, patch domain.RoadmapPatch) error {
	return m.Called(ctx, companyID, id, patch).Error(0)
}

func (m *RoadmapRepository) CompleteRoadmapItem(ctx context.Context, companyID, id int64) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *RoadmapRepository) DeleteRoadmapItem(ctx context.Context, companyID, id int64) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type DerivedRepository struct{ mock.Mock }

func (m *DerivedRepository) ReplaceDerived(ctx context.Context, companyID int64, risks []domain.Risk, items []domain.RoadmapItem) error {
	return m.Called(ctx, companyID, risks, items).Error(0)
}

type DocumentRepository struct{ mock.Mock }

func (m *DocumentRepository) CreateDocument(ctx context.Context, d domain.Document) (domain.Document, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *DocumentRepository) GetDocument(ctx context.Context, companyID, id int64) (domain.Document, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *DocumentRepository) DocumentByID(ctx context.Context, id int64) (domain.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Document), args.Error(1)
}

func (m *DocumentRepository) ListDocuments(ctx context.Context, companyID int64) ([]domain.Document, error) {
	args := m.Called(ctx, companyID)
	out, _ := args.Get(0).([]domain.Document)
	return out, args.Error(1)
}

func (m *DocumentRepository) DeleteDocument(ctx context.Context, companyID, id int64) (domain.Document, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(domain.Document), args.Error(1)
}

type JobRepository struct{ mock.Mock }

func (m *JobRepository) ClaimNext(ctx context.Context) (ports.DocumentJob, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.DocumentJob), args.Bool(1), args.Error(2)
}

func (m *JobRepository) StartJobForDocument(ctx context.Context, documentID int64) (int64, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *JobRepository) MarkCompleted(ctx context.Context, jobID int64, out ports.DocumentOutput) error {
	return m.Called(ctx, jobID, out).Error(0)
}

func (m *JobRepository) MarkFailed(ctx context.Context, jobID int64, reason string) error {
	return m.Called(ctx, jobID, reason).Error(0)
}

type ChatRepository struct{ mock.Mock }

func (m *ChatRepository) AppendChat(ctx context.Context, msgs ...domain.ChatMessage) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *ChatRepository) ChatHistory(ctx context.Context, userID int64, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]domain.ChatMessage)
	return out, args.Error(1)
}

func (m *ChatRepository) ClearChat(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type BlobStore struct{ mock.Mock }

func (m *BlobStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var (
	_ ports.UserRepository      = (*UserRepository)(nil)
	_ ports.CompanyRepository   = (*CompanyRepository)(nil)
	_ ports.DiagnosisRepository = (*DiagnosisRepository)(nil)
	_ ports.RiskRepository      = (*RiskRepository)(nil)
	_ ports.RoadmapRepository   = (*RoadmapRepository)(nil)
	_ ports.DerivedRepository   = (*DerivedRepository)(nil)
	_ ports.DocumentRepository  = (*DocumentRepository)(nil)
	_ ports.JobRepository       = (*JobRepository)(nil)
	_ ports.ChatRepository      = (*ChatRepository)(nil)
	_ ports.BlobStore           = (*BlobStore)(nil)
)
