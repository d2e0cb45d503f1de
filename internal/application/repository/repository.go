package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/hirehub/backend/internal/application/domain"
	"github.com/hirehub/backend/internal/common/db"
	commonerrors "github.com/hirehub/backend/internal/common/errors"
)

type Repository interface {
	Create(ctx context.Context, app domain.Application) (domain.Application, error)
	FindByID(ctx context.Context, id string) (domain.Application, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (previous domain.Status, updated domain.Application, err error)

	FindAccepted(ctx context.Context, jobIDs []string, applicantID string) (domain.Application, error)
	ListAcceptedByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error)
	ListAcceptedApplicants(ctx context.Context, jobIDs []string) ([]string, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
	txm  db.TxManager
}

func NewPgRepository(pool *pgxpool.Pool, txm db.TxManager) *PgRepository {
	return &PgRepository{pool: pool, txm: txm}
}

const selectApplication = `SELECT a.id, a.job_id, a.applicant_id, j.created_by, a.status, a.created_at, a.updated_at
	FROM applications a
	JOIN jobs j ON j.id = a.job_id`

func scanApplication(row pgx.Row) (domain.Application, error) {
	var app domain.Application
	err := row.Scan(&app.ID, &app.JobID, &app.ApplicantID, &app.RecruiterID, &app.Status, &app.CreatedAt, &app.UpdatedAt)
	return app, err
}

func (r *PgRepository) Create(ctx context.Context, app domain.Application) (domain.Application, error) {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO applications (id, job_id, applicant_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		app.ID,
		app.JobID,
		app.ApplicantID,
		string(app.Status),
		app.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			db.MeasureQueryDuration("create application", start)
			return domain.Application{}, commonerrors.ErrApplicationExists
		}
		return domain.Application{}, db.HandleExecError(err, "create application", start)
	}
	db.MeasureQueryDuration("create application", start)

	app.UpdatedAt = app.CreatedAt
	return app, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Application, error) {
	start := time.Now()
	app, err := scanApplication(r.pool.QueryRow(ctx, selectApplication+` WHERE a.id = $1`, id))
	if err := db.HandleQueryError(err, commonerrors.ErrApplicationNotFound, "find application by id", start); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

// UpdateStatus locks the row, records the status it had and writes the new
// one in a single transaction.
func (r *PgRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Status, domain.Application, error) {
	var previous domain.Status
	var updated domain.Application

	err := r.txm.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		start := time.Now()
		err := tx.QueryRow(ctx, `SELECT status FROM applications WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if err := db.HandleQueryError(err, commonerrors.ErrApplicationNotFound, "lock application", start); err != nil {
			return err
		}

		start = time.Now()
		_, err = tx.Exec(ctx, `UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
		if err := db.HandleExecError(err, "update application status", start); err != nil {
			return err
		}

		start = time.Now()
		updated, err = scanApplication(tx.QueryRow(ctx, selectApplication+` WHERE a.id = $1`, id))
		return db.HandleQueryError(err, commonerrors.ErrApplicationNotFound, "find application by id", start)
	})
	if err != nil {
		return "", domain.Application{}, err
	}

	return previous, updated, nil
}

func (r *PgRepository) FindAccepted(ctx context.Context, jobIDs []string, applicantID string) (domain.Application, error) {
	if len(jobIDs) == 0 {
		return domain.Application{}, commonerrors.ErrApplicationNotFound
	}

	start := time.Now()
	app, err := scanApplication(r.pool.QueryRow(
		ctx,
		selectApplication+` WHERE a.job_id = ANY($1::uuid[]) AND a.applicant_id = $2 AND a.status = 'accepted' LIMIT 1`,
		jobIDs,
		applicantID,
	))
	if err := db.HandleQueryError(err, commonerrors.ErrApplicationNotFound, "find accepted application", start); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

func (r *PgRepository) ListAcceptedByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		selectApplication+` WHERE a.applicant_id = $1 AND a.status = 'accepted'`,
		applicantID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list accepted applications", start)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "scan accepted applications", start)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "iterate accepted applications", start)
	}
	db.MeasureQueryDuration("list accepted applications", start)

	return apps, nil
}

func (r *PgRepository) ListAcceptedApplicants(ctx context.Context, jobIDs []string) ([]string, error) {
	if len(jobIDs) == 0 {
		return []string{}, nil
	}

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT DISTINCT applicant_id FROM applications
		 WHERE job_id = ANY($1::uuid[]) AND status = 'accepted'`,
		jobIDs,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list accepted applicants", start)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.HandleExecError(err, "scan accepted applicants", start)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "iterate accepted applicants", start)
	}
	db.MeasureQueryDuration("list accepted applicants", start)

	return ids, nil
}
