package httpadapter

import (
	"errors"
	"net/http"

	"lawbix/internal/domain"
)

type roadmapRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Category    *string               `json:"category"`
	Priority    *domain.RiskLevel     `json:"priority"`
	DueDate     *string               `json:"due_date"`
	Status      *domain.RoadmapStatus `json:"status"`
}

// notFoundAs reports ErrNotFound with a resource specific message.
func (s *Server) notFoundAs(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, msg)
		return
	}
	s.fail(w, r, err)
}

func (s *Server) listRoadmap(w http.ResponseWriter, r *http.Request) {
	list, err := s.roadmap.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := envelope{"success": true, "count": len(list.Items), "roadmap": list.Items}
	if list.Message != "" {
		body["message"] = list.Message
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) roadmapByPriority(w http.ResponseWriter, r *http.Request) {
	level, err := pathLevel(r, "level")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, err := s.roadmap.ByPriority(r.Context(), currentUser(r).ID, level)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.RoadmapItem{}
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(items), "items": items})
}

func (s *Server) createRoadmapItem(w http.ResponseWriter, r *http.Request) {
	var req roadmapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.roadmap.Create(r.Context(), currentUser(r).ID, domain.RoadmapItem{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Category:    deref(req.Category),
		Priority:    deref(req.Priority),
		DueDate:     due,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "message": "Roadmap item created", "item": item})
}

func (s *Server) updateRoadmapItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req roadmapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	err = s.roadmap.Update(r.Context(), currentUser(r).ID, id, domain.RoadmapPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     due,
		Status:      req.Status,
	})
	if err != nil {
		s.notFoundAs(w, r, err, "Roadmap item not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Roadmap item updated"})
}

func (s *Server) completeRoadmapItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.roadmap.Complete(r.Context(), currentUser(r).ID, id); err != nil {
		s.notFoundAs(w, r, err, "Roadmap item not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Roadmap item marked as completed"})
}

func (s *Server) deleteRoadmapItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.roadmap.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.notFoundAs(w, r, err, "Roadmap item not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Roadmap item deleted"})
}
