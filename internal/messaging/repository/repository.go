package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hirehub/backend/internal/common/db"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/messaging/domain"
)

type Repository interface {
	Create(ctx context.Context, msg domain.Message) (domain.Message, error)
	FindByID(ctx context.Context, id string) (domain.Message, error)
	ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	LatestPerPartner(ctx context.Context, userID string, partnerIDs []string) ([]domain.Message, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.CreatedAt,
	)
	if err := db.HandleExecError(err, "insert message", start); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Message, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, sender_id, receiver_id, content, created_at FROM messages WHERE id = $1`,
		id,
	)

	var msg domain.Message
	err := row.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrMessageNotFound, "find message by id", start); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// ListBetween returns the full history of the pair, oldest first.
func (r *PgRepository) ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	return r.list(
		ctx,
		"list conversation messages",
		`SELECT id, sender_id, receiver_id, content, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC, id ASC`,
		userA,
		userB,
	)
}

func (r *PgRepository) LatestPerPartner(ctx context.Context, userID string, partnerIDs []string) ([]domain.Message, error) {
	if len(partnerIDs) == 0 {
		return []domain.Message{}, nil
	}

	return r.list(
		ctx,
		"list latest conversation messages",
		`SELECT id, sender_id, receiver_id, content, created_at FROM (
		   SELECT DISTINCT ON (partner_id) id, sender_id, receiver_id, content, created_at
		   FROM (
		     SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS partner_id
		     FROM messages m
		     WHERE (m.sender_id = $1 AND m.receiver_id = ANY($2::uuid[]))
		        OR (m.receiver_id = $1 AND m.sender_id = ANY($2::uuid[]))
		   ) scoped
		   ORDER BY partner_id, created_at DESC, id DESC
		 ) latest
		 ORDER BY created_at DESC`,
		userID,
		partnerIDs,
	)
}

func (r *PgRepository) list(ctx context.Context, operation, query string, args ...any) ([]domain.Message, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.HandleExecError(err, operation, start)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, db.HandleExecError(err, operation, start)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, operation, start)
	}
	db.MeasureQueryDuration(operation, start)

	return messages, nil
}
