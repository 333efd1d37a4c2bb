package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldworks/matchbot/internal/core"
	"github.com/fieldworks/matchbot/pkg/log"
)

// ThreadsRepo is the append-only conversation log. A thread comes into
// existence with its first message; nothing is ever updated or deleted.
type ThreadsRepo struct {
	db *sql.DB
}

func NewThreadsRepo(db *sql.DB) *ThreadsRepo {
	return &ThreadsRepo{db: db}
}

func (r *ThreadsRepo) Append(ctx context.Context, threadID, role, content string) error {
	query := `INSERT INTO thread_messages (thread_id, role, content) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, threadID, role, content); err != nil {
		return fmt.Errorf("failed to insert thread message: %w", err)
	}
	return nil
}

func (r *ThreadsRepo) LastN(ctx context.Context, threadID string, n int) ([]core.StoredMessage, error) {
	// Fetch the last n messages by ordering DESC, then flip them back to
	// chronological order for the LLM.
	query := `SELECT role, content, created_at FROM thread_messages WHERE thread_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, threadID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread messages: %w", err)
	}
	defer rows.Close()

	var messages []core.StoredMessage
	for rows.Next() {
		var msg core.StoredMessage
		var content sql.NullString

		if err := rows.Scan(&msg.Role, &content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thread message: %w", err)
		}
		msg.Content = content.String

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Str("thread", threadID).Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}
