// Package documents generates PDF reports for a company and serves them back.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lawbix/internal/domain"
	"lawbix/internal/observability"
	"lawbix/internal/ports"
	"lawbix/internal/services/risks"
	"lawbix/internal/services/roadmap"
)

const (
	MsgRegisterCompany = "No company found. Please register your company first."
	MsgTablesMissing   = "No documents found. Database may need setup."
)

const contentType = "application/pdf"

// Deps are the collaborators of the document service.
type Deps struct {
	Companies ports.CompanyRepository
	Diagnoses ports.DiagnosisRepository
	Risks     ports.RiskRepository
	Roadmap   ports.RoadmapRepository
	Documents ports.DocumentRepository
	Blobs     ports.BlobStore
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

type Service struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{Deps: d, now: time.Now}
}

func (s *Service) Templates() []domain.Template { return Templates() }

// Generate records a queued document for the caller's company. Rendering is
// done by Process, either inline or from a worker.
func (s *Service) Generate(ctx context.Context, userID int64, template string) (domain.Document, error) {
	tpl, ok := Lookup(template)
	if !ok {
		return domain.Document{}, domain.Invalid("type", fmt.Sprintf("unknown template %q", template))
	}
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := s.Documents.CreateDocument(ctx, domain.Document{
		CompanyID: companyID,
		Name:      tpl.Name,
		Template:  tpl.ID,
		Type:      "PDF",
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}
	s.Logger.InfoContext(ctx, "document queued", "document_id", doc.ID, "company_id", companyID, "template", tpl.ID)
	return doc, nil
}

// Process renders a document and stores the file. The caller marks the job
// completed or failed from the returned values.
func (s *Service) Process(ctx context.Context, documentID int64) (out ports.DocumentOutput, err error) {
	ctx, span := observability.Tracer().Start(ctx, "documents.render",
		trace.WithAttributes(attribute.Int64("document.id", documentID)))
	defer span.End()

	doc, err := s.Documents.DocumentByID(ctx, documentID)
	if err != nil {
		span.RecordError(err)
		return out, fmt.Errorf("load document %d: %w", documentID, err)
	}
	span.SetAttributes(attribute.String("document.template", doc.Template))
	defer func() {
		if err != nil {
			span.RecordError(err)
			s.Metrics.DocumentFinished(doc.Template, string(domain.DocumentFailed), 0)
			return
		}
		s.Metrics.DocumentFinished(doc.Template, string(domain.DocumentCompleted), out.SizeBytes)
	}()

	report, err := s.report(ctx, doc)
	if err != nil {
		return out, err
	}
	var buf bytes.Buffer
	if err := Render(&buf, report); err != nil {
		return out, err
	}

	key := fmt.Sprintf("documents/%d/%s.pdf", doc.CompanyID, uuid.NewString())
	size, err := s.Blobs.Put(ctx, key, &buf, contentType)
	if err != nil {
		return out, fmt.Errorf("store document %d: %w", doc.ID, err)
	}
	span.SetAttributes(attribute.Int64("document.size_bytes", size))
	s.Logger.InfoContext(ctx, "document rendered", "document_id", doc.ID, "template", doc.Template, "size_bytes", size)
	return ports.DocumentOutput{
		StorageKey: key,
		URL:        fmt.Sprintf("/api/documents/download/%d", doc.ID),
		SizeBytes:  size,
	}, nil
}

// report gathers the data shown in a document. Only the company lookup is
// fatal; missing diagnoses, risks or roadmap fall back to defaults.
func (s *Service) report(ctx context.Context, doc domain.Document) (Report, error) {
	tpl, ok := Lookup(doc.Template)
	if !ok {
		tpl = domain.Template{ID: doc.Template, Name: doc.Name}
	}
	company, err := s.Companies.GetCompany(ctx, doc.CompanyID)
	if err != nil {
		return Report{}, fmt.Errorf("load company %d: %w", doc.CompanyID, err)
	}
	r := Report{
		Template:    tpl,
		CompanyName: company.Name,
		RiskLevel:   domain.RiskMedium,
		GeneratedAt: s.now(),
	}

	diag, found, err := s.Diagnoses.LatestDiagnosis(ctx, company.ID)
	switch {
	case err != nil:
		s.Logger.WarnContext(ctx, "report without diagnosis", "company_id", company.ID, "error", err)
	case found:
		r.ComplianceScore = diag.ComplianceScore
		r.RiskLevel = diag.RiskLevel
		r.CategoryScores = diag.CategoryScores
	}

	r.Risks, err = s.Risks.ListRisks(ctx, company.ID, nil)
	if err != nil {
		s.Logger.WarnContext(ctx, "report with sample risks", "company_id", company.ID, "error", err)
		r.Risks = risks.Samples()
	}
	r.Roadmap, err = s.Roadmap.ListRoadmap(ctx, company.ID, nil)
	if err != nil {
		s.Logger.WarnContext(ctx, "report with sample roadmap", "company_id", company.ID, "error", err)
		r.Roadmap = roadmap.Samples()
	}
	return r, nil
}

// List returns an empty listing with a message when the company or the
// schema is missing.
func (s *Service) List(ctx context.Context, userID int64) (domain.DocumentList, error) {
	companyID, err := s.companyID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNoCompany):
		return domain.DocumentList{Documents: []domain.Document{}, Message: MsgRegisterCompany}, nil
	case errors.Is(err, domain.ErrStorageUnavailable):
		return domain.DocumentList{Documents: []domain.Document{}, Message: MsgTablesMissing}, nil
	case err != nil:
		return domain.DocumentList{}, err
	}
	docs, err := s.Documents.ListDocuments(ctx, companyID)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return domain.DocumentList{Documents: []domain.Document{}, Message: MsgTablesMissing}, nil
	}
	if err != nil {
		return domain.DocumentList{}, err
	}
	return domain.DocumentList{Documents: docs}, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (domain.Document, error) {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return domain.Document{}, err
	}
	return s.Documents.GetDocument(ctx, companyID, id)
}

// Open returns a completed document and its file. The caller closes the reader.
func (s *Service) Open(ctx context.Context, userID, id int64) (domain.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Document{}, nil, err
	}
	if doc.Status != domain.DocumentCompleted || doc.StorageKey == "" {
		return doc, nil, fmt.Errorf("%w: document %d is %s", domain.ErrNotFound, id, doc.Status)
	}
	rc, err := s.Blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		return doc, nil, err
	}
	return doc, rc, nil
}

// Delete removes the document row, then its file. A file that cannot be
// removed is only logged.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	companyID, err := s.companyID(ctx, userID)
	if err != nil {
		return err
	}
	doc, err := s.Documents.DeleteDocument(ctx, companyID, id)
	if err != nil {
		return err
	}
	if doc.StorageKey != "" {
		if err := s.Blobs.Delete(ctx, doc.StorageKey); err != nil {
			s.Logger.WarnContext(ctx, "orphaned document file", "document_id", id, "key", doc.StorageKey, "error", err)
		}
	}
	return nil
}

func (s *Service) companyID(ctx context.Context, userID int64) (int64, error) {
	c, found, err := s.Companies.FindCompanyForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNoCompany
	}
	return c.ID, nil
}

var _ ports.Documents = (*Service)(nil)
