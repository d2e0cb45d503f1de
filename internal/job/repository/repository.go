package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hirehub/backend/internal/common/db"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/job/domain"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (domain.Job, error)
	ListIDsByOwner(ctx context.Context, recruiterID string) ([]string, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Job, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, created_by, created_at FROM jobs WHERE id = $1`,
		id,
	)

	var job domain.Job
	err := row.Scan(&job.ID, &job.Title, &job.CreatedBy, &job.CreatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrJobNotFound, "find job by id", start); err != nil {
		return domain.Job{}, err
	}

	return job, nil
}

// ListIDsByOwner returns the ids of every posting the recruiter created. An
// empty slice is a valid result.
func (r *PgRepository) ListIDsByOwner(ctx context.Context, recruiterID string) ([]string, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id FROM jobs WHERE created_by = $1`,
		recruiterID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list jobs by owner", start)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.HandleExecError(err, "scan jobs by owner", start)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "iterate jobs by owner", start)
	}
	db.MeasureQueryDuration("list jobs by owner", start)

	return ids, nil
}
