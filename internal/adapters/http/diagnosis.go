package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lawbix/internal/domain"
	"lawbix/internal/services/diagnosis"
)

// diagnosisView is the submit payload. ID is omitted when nothing was stored.
type diagnosisView struct {
	ID              *int64                          `json:"id,omitempty"`
	ComplianceScore int                             `json:"compliance_score"`
	RiskLevel       domain.RiskLevel                `json:"risk_level"`
	CategoryScores  map[string]domain.CategoryScore `json:"category_scores"`
	TotalQuestions  int                             `json:"total_questions"`
	CreatedAt       time.Time                       `json:"created_at"`
}

func (s *Server) questions(w http.ResponseWriter, r *http.Request) {
	qs := s.diagnoses.Questions()
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(qs), "questions": qs})
}

func (s *Server) submitDiagnosis(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answers json.RawMessage `json:"answers"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	raw := bytes.TrimSpace(body.Answers)
	if len(raw) == 0 || raw[0] != '[' {
		writeError(w, http.StatusBadRequest, "Answers array is required")
		return
	}
	answers := []domain.Answer{}
	if err := json.Unmarshal(raw, &answers); err != nil {
		writeError(w, http.StatusBadRequest, "Each answer needs a numeric question_id and a string answer")
		return
	}

	res, err := s.diagnoses.Submit(r.Context(), currentUser(r).ID, answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sub := res.Value
	view := diagnosisView{
		ComplianceScore: sub.Diagnosis.ComplianceScore,
		RiskLevel:       sub.Diagnosis.RiskLevel,
		CategoryScores:  sub.Diagnosis.CategoryScores,
		TotalQuestions:  sub.TotalQuestions,
		CreatedAt:       sub.Diagnosis.CreatedAt,
	}
	if res.Degraded {
		writeJSON(w, http.StatusOK, envelope{
			"success":   true,
			"message":   res.Reason,
			"persisted": false,
			"diagnosis": view,
		})
		return
	}
	view.ID = &sub.Diagnosis.ID
	writeJSON(w, http.StatusCreated, envelope{
		"success":   true,
		"message":   diagnosis.MsgPersisted,
		"persisted": true,
		"diagnosis": view,
	})
}

// diagnosisResults never answers with a 5xx: unexpected errors come back as
// success=false with status 200.
func (s *Server) diagnosisResults(w http.ResponseWriter, r *http.Request) {
	res, err := s.diagnoses.Latest(r.Context(), currentUser(r).ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "diagnosis results failed", "user_id", currentUser(r).ID, "error", err)
		writeJSON(w, http.StatusOK, envelope{
			"success":   false,
			"message":   "Error fetching diagnosis results",
			"diagnosis": nil,
			"results":   []domain.Diagnosis{},
		})
		return
	}
	body := envelope{"success": true, "diagnosis": res.Value, "results": []domain.Diagnosis{}}
	if res.Value != nil {
		body["results"] = []domain.Diagnosis{*res.Value}
	}
	if res.Degraded {
		body["message"] = res.Reason
	} else if res.Value == nil {
		body["message"] = diagnosis.MsgNoResults
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) diagnosisHistory(w http.ResponseWriter, r *http.Request) {
	list, err := s.diagnoses.History(r.Context(), currentUser(r).ID)
	switch {
	case errors.Is(err, domain.ErrNoCompany):
		writeJSON(w, http.StatusOK, envelope{"success": true, "count": 0, "diagnoses": []domain.Diagnosis{},
			"message": diagnosis.MsgRegisterCompany})
		return
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeJSON(w, http.StatusOK, envelope{"success": true, "count": 0, "diagnoses": []domain.Diagnosis{},
			"message": diagnosis.MsgDiagnosesMissing})
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "diagnosis history failed", "error", err)
		writeJSON(w, http.StatusOK, envelope{
			"success":   false,
			"message":   "Error fetching diagnosis history",
			"count":     0,
			"diagnoses": []domain.Diagnosis{},
		})
		return
	}
	if list == nil {
		list = []domain.Diagnosis{}
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(list), "diagnoses": list})
}

func (s *Server) getDiagnosis(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.diagnoses.Get(r.Context(), currentUser(r).ID, id)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoCompany):
		writeError(w, http.StatusNotFound, "Diagnosis not found")
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "diagnosis": d})
}
