// Package httpadapter exposes the services over a JSON REST API.
package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lawbix/internal/domain"
	"lawbix/internal/observability"
	"lawbix/internal/ports"
	"lawbix/internal/workers/docrunner"
)

// Deps wires the server. DB may be nil when no database is configured.
type Deps struct {
	Auth      ports.Auth
	Companies ports.Companies
	Diagnoses ports.Diagnoses
	Risks     ports.Risks
	Roadmap   ports.Roadmap
	Documents ports.Documents
	Chatbot   ports.Chatbot

	// Jobs and Processor render documents inline when requested, or always
	// when InlineDocuments is set because no background workers run.
	Jobs            ports.JobRepository
	Processor       docrunner.Processor
	InlineDocuments bool

	DB          ports.Pinger
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	ServiceName string
}

type Server struct {
	auth      ports.Auth
	companies ports.Companies
	diagnoses ports.Diagnoses
	risks     ports.Risks
	roadmap   ports.Roadmap
	documents ports.Documents
	chatbot   ports.Chatbot
	jobs      ports.JobRepository
	processor docrunner.Processor
	inline    bool
	db        ports.Pinger
	metrics   *observability.Metrics
	logger    *slog.Logger
	service   string
}

func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	service := d.ServiceName
	if service == "" {
		service = "lawbix-api"
	}
	return &Server{
		auth:      d.Auth,
		companies: d.Companies,
		diagnoses: d.Diagnoses,
		risks:     d.Risks,
		roadmap:   d.Roadmap,
		documents: d.Documents,
		chatbot:   d.Chatbot,
		jobs:      d.Jobs,
		processor: d.Processor,
		inline:    d.InlineDocuments,
		db:        d.DB,
		metrics:   d.Metrics,
		logger:    logger,
		service:   service,
	}
}

// Routes builds the router: the API under /api plus /metrics.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.With(s.authenticate).Get("/me", s.me)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/companies", func(r chi.Router) {
				r.With(requireRole(domain.RoleAdmin, domain.RoleLawyer)).Get("/", s.listCompanies)
				r.With(requireRole(domain.RoleAdmin, domain.RoleLawyer)).Post("/", s.createCompany)
				r.Post("/upsert", s.upsertCompany)
				r.Get("/{id}", s.getCompany)
				r.Put("/{id}", s.updateCompany)
				r.With(requireRole(domain.RoleAdmin)).Delete("/{id}", s.deleteCompany)
			})

			r.Route("/diagnosis", func(r chi.Router) {
				r.Get("/questions", s.questions)
				r.Post("/submit", s.submitDiagnosis)
				r.Get("/results", s.diagnosisResults)
				r.Get("/history", s.diagnosisHistory)
				r.Get("/{id}", s.getDiagnosis)
			})

			r.Route("/risks", func(r chi.Router) {
				r.Get("/", s.listRisks)
				r.Get("/severity/{level}", s.risksBySeverity)
				r.Get("/stats", s.riskStats)
				r.Post("/", s.createRisk)
				r.Put("/{id}", s.updateRisk)
				r.Delete("/{id}", s.deleteRisk)
			})

			r.Route("/roadmap", func(r chi.Router) {
				r.Get("/", s.listRoadmap)
				r.Get("/priority/{level}", s.roadmapByPriority)
				r.Post("/", s.createRoadmapItem)
				r.Put("/{id}", s.updateRoadmapItem)
				r.Patch("/{id}/complete", s.completeRoadmapItem)
				r.Delete("/{id}", s.deleteRoadmapItem)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/templates", s.documentTemplates)
				r.Post("/generate", s.generateDocument)
				r.Get("/", s.listDocuments)
				r.Get("/download/{id}", s.downloadDocument)
				r.Get("/{id}", s.getDocument)
				r.Delete("/{id}", s.deleteDocument)
			})

			r.Route("/chatbot", func(r chi.Router) {
				r.Post("/", s.sendChat)
				r.Get("/history", s.chatHistory)
				r.Delete("/history", s.clearChat)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	return r
}
