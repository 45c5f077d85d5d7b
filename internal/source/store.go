package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zee-1/TheSnitchBot-sub001/internal/leak"
)

// MessageSource returns an ordered message window for a community scope.
// Results are oldest first, bounded by limit.
type MessageSource interface {
	Recent(ctx context.Context, communityID, channelID string, limit int) ([]leak.Message, error)
}

const defaultWindowLimit = 200

// MessageStore persists community messages in Postgres. Messages past the
// retention horizon are pruned lazily on insert, keeping the table bounded
// to roughly one selection window per community.
type MessageStore struct {
	db        *sql.DB
	retention time.Duration
}

func NewMessageStore(db *sql.DB, retention time.Duration) *MessageStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &MessageStore{db: db, retention: retention}
}

// Insert stores a batch of messages for a community and prunes expired rows.
func (s *MessageStore) Insert(ctx context.Context, communityID string, messages []leak.Message) error {
	if s == nil || s.db == nil {
		return errors.New("message store unavailable")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for _, msg := range messages {
		mentionsJSON, err := json.Marshal(msg.Mentions)
		if err != nil {
			return fmt.Errorf("encode mentions: %w", err)
		}
		createdAt := msg.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snitch.community_messages (
				message_id,
				community_id,
				channel_id,
				author_id,
				author_name,
				is_bot,
				content,
				mentions,
				created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (message_id) DO NOTHING
		`,
			msg.ID,
			communityID,
			msg.ChannelID,
			msg.AuthorID,
			msg.AuthorName,
			msg.Bot,
			msg.Content,
			mentionsJSON,
			createdAt,
		); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snitch.community_messages WHERE community_id = $1 AND created_at < $2`,
		communityID,
		time.Now().UTC().Add(-s.retention),
	); err != nil {
		return fmt.Errorf("prune messages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// Recent returns the newest messages for the scope, oldest first. An empty
// channelID spans all channels in the community.
func (s *MessageStore) Recent(ctx context.Context, communityID, channelID string, limit int) ([]leak.Message, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("message store unavailable")
	}
	if limit <= 0 {
		limit = defaultWindowLimit
	}

	query := `
		SELECT message_id,
			channel_id,
			author_id,
			author_name,
			is_bot,
			content,
			mentions,
			created_at
		FROM snitch.community_messages
		WHERE community_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	args := []any{communityID, limit}
	if channelID != "" {
		query = `
		SELECT message_id,
			channel_id,
			author_id,
			author_name,
			is_bot,
			content,
			mentions,
			created_at
		FROM snitch.community_messages
		WHERE community_id = $1 AND channel_id = $2
		ORDER BY created_at DESC
		LIMIT $3`
		args = []any{communityID, channelID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []leak.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Newest-first from the query, oldest-first for callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

type messageScanner interface {
	Scan(dest ...any) error
}

func scanMessage(s messageScanner) (leak.Message, error) {
	var msg leak.Message
	var authorName sql.NullString
	var mentionsJSON []byte
	if err := s.Scan(
		&msg.ID,
		&msg.ChannelID,
		&msg.AuthorID,
		&authorName,
		&msg.Bot,
		&msg.Content,
		&mentionsJSON,
		&msg.CreatedAt,
	); err != nil {
		return leak.Message{}, fmt.Errorf("scan message: %w", err)
	}
	if authorName.Valid {
		msg.AuthorName = authorName.String
	}
	if len(mentionsJSON) > 0 {
		if err := json.Unmarshal(mentionsJSON, &msg.Mentions); err != nil {
			return leak.Message{}, fmt.Errorf("decode mentions: %w", err)
		}
	}
	return msg, nil
}
