package postgres

import (
	"context"

	"lawbix/internal/domain"
)

func (db *DB) AppendChat(ctx context.Context, msgs ...domain.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	ins := db.qb.Insert("chat_history").Columns("user_id", "message", "sender")
	for _, m := range msgs {
		ins = ins.Values(m.UserID, m.Message, m.Sender)
	}
	return execBuilder(ctx, db.Pool, ins)
}

// ChatHistory returns the newest limit messages, oldest first.
func (db *DB) ChatHistory(ctx context.Context, userID int64, limit int) ([]domain.ChatMessage, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, message, sender, created_at FROM (
			SELECT id, user_id, message, sender, created_at
			FROM chat_history
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at, id
	`, userID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.Sender, &m.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (db *DB) ClearChat(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM chat_history WHERE user_id = $1`, userID)
	return mapErr(err)
}
