// Package chatbot answers legal questions from a keyword dictionary and keeps
// a per-user transcript.
package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

const (
	DefaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type Service struct {
	dict    *Dictionary
	history ports.ChatRepository
	logger  *slog.Logger
	now     func() time.Time
}

// New builds the chatbot. history may be nil, in which case nothing is kept.
func New(dict *Dictionary, history ports.ChatRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{dict: dict, history: history, logger: logger, now: time.Now}
}

// Send replies to message. Failing to store the exchange is logged only.
func (s *Service) Send(ctx context.Context, userID int64, message string) (domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ChatReply{}, domain.Invalid("message", "Message is required")
	}
	reply := domain.ChatReply{Response: s.dict.Reply(message), Timestamp: s.now().UTC()}
	if s.history == nil {
		return reply, nil
	}
	err := s.history.AppendChat(ctx,
		domain.ChatMessage{UserID: userID, Message: message, Sender: "user"},
		domain.ChatMessage{UserID: userID, Message: reply.Response, Sender: "bot"},
	)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.logger.DebugContext(ctx, "chat history table missing", "user_id", userID)
	case err != nil:
		s.logger.WarnContext(ctx, "chat history not saved", "user_id", userID, "error", err)
	}
	return reply, nil
}

// History returns up to limit messages in chronological order. Non-positive
// limits fall back to the default.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if s.history == nil {
		return []domain.ChatMessage{}, nil
	}
	msgs, err := s.history.ChatHistory(ctx, userID, limit)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return []domain.ChatMessage{}, nil
	}
	return msgs, err
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	if s.history == nil {
		return nil
	}
	err := s.history.ClearChat(ctx, userID)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return nil
	}
	return err
}

var _ ports.Chatbot = (*Service)(nil)
