package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"lawbix/internal/domain"
	"lawbix/internal/workers/docrunner"
)

const inlineRenderTimeout = 30 * time.Second

var documentPollInterval = 250 * time.Millisecond

func (s *Server) documentTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"success": true, "templates": s.documents.Templates()})
}

// generateDocument queues a document. With ?wait=true, or when no workers
// run, it is rendered before the response is written.
func (s *Server) generateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type       string `json:"type"`
		TemplateID string `json:"template_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	wait, err := queryBool(r, "wait")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	template := req.Type
	if template == "" {
		template = req.TemplateID
	}

	user := currentUser(r)
	doc, err := s.documents.Generate(r.Context(), user.ID, template)
	if errors.Is(err, domain.ErrNoCompany) {
		writeError(w, http.StatusBadRequest, "Debes registrar tu empresa primero para generar documentos")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if !wait && !s.inline {
		writeJSON(w, http.StatusAccepted, envelope{
			"success":     true,
			"message":     "Document queued",
			"document_id": doc.ID,
			"status":      domain.DocumentQueued,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), inlineRenderTimeout)
	defer cancel()
	err = docrunner.ProcessInline(ctx, s.jobs, s.processor, doc.ID)
	if errors.Is(err, docrunner.ErrAlreadyClaimed) {
		doc, err = s.awaitDocument(ctx, user.ID, doc.ID)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if doc.Status != domain.DocumentCompleted && doc.Status != domain.DocumentFailed {
			writeJSON(w, http.StatusAccepted, envelope{
				"success":     true,
				"message":     "Document queued",
				"document_id": doc.ID,
				"status":      doc.Status,
			})
			return
		}
		if doc.Status == domain.DocumentFailed {
			err = fmt.Errorf("document %d failed in worker", doc.ID)
		}
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "inline document render failed", "document_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Error al generar el archivo PDF")
		return
	}
	doc, err = s.documents.Get(r.Context(), user.ID, doc.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "PDF generado exitosamente", "document": doc})
}

// awaitDocument polls a document rendered by a worker until it finishes or
// ctx ends. The last seen state is returned in both cases.
func (s *Server) awaitDocument(ctx context.Context, userID, id int64) (domain.Document, error) {
	ticker := time.NewTicker(documentPollInterval)
	defer ticker.Stop()
	for {
		doc, err := s.documents.Get(context.WithoutCancel(ctx), userID, id)
		if err != nil {
			return doc, err
		}
		if doc.Status == domain.DocumentCompleted || doc.Status == domain.DocumentFailed {
			return doc, nil
		}
		select {
		case <-ctx.Done():
			return doc, nil
		case <-ticker.C:
		}
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := s.documents.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := envelope{"success": true, "count": len(list.Documents), "documents": list.Documents}
	if list.Message != "" {
		body["message"] = list.Message
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.documents.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.notFoundAs(w, r, err, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "document": doc})
}

func (s *Server) downloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, body, err := s.documents.Open(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.notFoundAs(w, r, err, "Document not found")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%d.pdf", doc.Template, doc.ID)))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.WarnContext(r.Context(), "document download interrupted", "document_id", id, "error", err)
	}
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.documents.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.notFoundAs(w, r, err, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Document deleted successfully"})
}
