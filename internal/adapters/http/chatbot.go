package httpadapter

import (
	"net/http"

	"lawbix/internal/services/chatbot"
)

func (s *Server) sendChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	reply, err := s.chatbot.Send(r.Context(), currentUser(r).ID, req.Message)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "response": reply.Response, "timestamp": reply.Timestamp})
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n := chatbot.DefaultHistoryLimit
	if limit != nil {
		n = *limit
	}
	msgs, err := s.chatbot.History(r.Context(), currentUser(r).ID, n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "count": len(msgs), "messages": msgs})
}

func (s *Server) clearChat(w http.ResponseWriter, r *http.Request) {
	if err := s.chatbot.Clear(r.Context(), currentUser(r).ID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Chat history cleared successfully"})
}
