package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

const messageColumns = `id, sender_id, receiver_id, participants, sender_role, receiver_role, text, kind, attributes, created_at`

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	m := &domain.Message{}
	var senderID sql.NullInt32
	var participants pq.Int32Array
	var attrs []byte
	err := row.Scan(&m.ID, &senderID, &m.ReceiverID, &participants, &m.SenderRole, &m.ReceiverRole, &m.Text, &m.Kind, &attrs, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.SenderID = nullInt32(senderID)
	m.Participants = []int32(participants)
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &m.Attributes); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	logger.DatabaseCall("INSERT", "messages", "receiverID", m.ReceiverID, "kind", m.Kind)
	attrs := []byte("{}")
	if len(m.Attributes) > 0 {
		var err error
		if attrs, err = json.Marshal(m.Attributes); err != nil {
			return err
		}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO messages (sender_id, receiver_id, participants, sender_role, receiver_role, text, kind, attributes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, pq.Array(m.Participants), m.SenderRole, m.ReceiverRole,
		m.Text, m.Kind, attrs, m.CreatedAt).Scan(&m.ID)
}

func (r *messageRepository) GetByID(ctx context.Context, id int32) (*domain.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (r *messageRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "messages", "messageID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListConversation returns the latest messages between two users, oldest first.
func (r *messageRepository) ListConversation(ctx context.Context, userID, peerID int32, limit int32) ([]domain.Message, error) {
	if limit <= 0 {
		limit = maxPageSize
	}
	query := `SELECT ` + messageColumns + ` FROM (
	              SELECT ` + messageColumns + ` FROM messages
	              WHERE $1 = ANY(participants) AND $2 = ANY(participants)
	              ORDER BY created_at DESC, id DESC LIMIT $3
	          ) latest ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, userID, peerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *messageRepository) ListInbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM (
	              SELECT DISTINCT ON (peer) ` + messageColumns + ` FROM (
	                  SELECT ` + messageColumns + `,
	                         CASE WHEN sender_id = $1 THEN receiver_id ELSE COALESCE(sender_id, 0) END AS peer
	                  FROM messages WHERE $1 = ANY(participants)
	              ) m ORDER BY peer, created_at DESC, id DESC
	          ) inbox ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *messageRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Message, int32, error) {
	limit, offset := paginate(page, pageSize)

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM messages`).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	msgs, err := collectMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return msgs, count, nil
}

func collectMessages(rows *sql.Rows) ([]domain.Message, error) {
	var msgs []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}
