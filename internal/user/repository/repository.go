package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hirehub/backend/internal/common/db"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/user/domain"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindSummaries(ctx context.Context, ids []string) ([]domain.Summary, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, full_name, email, role, profile_photo, created_at
		 FROM users
		 WHERE id = $1 AND NOT deleted`,
		id,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.ProfilePhoto, &user.CreatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (r *PgRepository) FindSummaries(ctx context.Context, ids []string) ([]domain.Summary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, full_name, email, profile_photo
		 FROM users
		 WHERE id = ANY($1::uuid[]) AND NOT deleted`,
		ids,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "find user summaries", start)
	}
	defer rows.Close()

	var users []domain.Summary
	for rows.Next() {
		var u domain.Summary
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.ProfilePhoto); err != nil {
			return nil, db.HandleExecError(err, "scan user summaries", start)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "iterate user summaries", start)
	}
	db.MeasureQueryDuration("find user summaries", start)

	return users, nil
}
