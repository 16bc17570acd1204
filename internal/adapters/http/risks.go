package httpadapter

import (
	"net/http"

	"lawbix/internal/domain"
)

type riskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	Severity    *domain.RiskLevel  `json:"severity"`
	Probability *string            `json:"probability"`
	Impact      *string            `json:"impact"`
	Status      *domain.RiskStatus `json:"status"`
	Mitigation  *string            `json:"mitigation"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	list, err := s.risks.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := envelope{"success": true, "count": len(list.Risks), "risks": list.Risks, "source": list.Source}
	if list.Message != "" {
		body["message"] = list.Message
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) risksBySeverity(w http.ResponseWriter, r *http.Request) {
	level, err := pathLevel(r, "level")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.risks.BySeverity(r.Context(), currentUser(r).ID, level)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Risk{}
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(list), "risks": list})
}

func (s *Server) riskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.risks.Stats(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if stats.BySeverity == nil {
		stats.BySeverity = []domain.SeverityCount{}
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "stats": stats})
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	risk, err := s.risks.Create(r.Context(), currentUser(r).ID, domain.Risk{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Category:    deref(req.Category),
		Severity:    deref(req.Severity),
		Probability: deref(req.Probability),
		Impact:      deref(req.Impact),
		Mitigation:  deref(req.Mitigation),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Risk created successfully", "risk": risk})
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req riskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	err = s.risks.Update(r.Context(), currentUser(r).ID, id, domain.RiskPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Severity:    req.Severity,
		Probability: req.Probability,
		Impact:      req.Impact,
		Status:      req.Status,
		Mitigation:  req.Mitigation,
	})
	if err != nil {
		s.notFoundAs(w, r, err, "Risk not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Risk updated successfully"})
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.risks.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.notFoundAs(w, r, err, "Risk not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Risk deleted successfully"})
}
