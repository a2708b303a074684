package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"interview-coach/internal/domain"
)

// ErrReportNotFound se devuelve cuando no hay reporte para la sesion.
var ErrReportNotFound = errors.New("interview report not found")

type ReportRepository interface {
	Save(ctx context.Context, report domain.InterviewReport) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.InterviewReport, error)
}

type PgReportRepository struct {
	pool *pgxpool.Pool
}

func NewPgReportRepository(pool *pgxpool.Pool) *PgReportRepository {
	return &PgReportRepository{pool: pool}
}

// EnsureSchema crea la tabla de reportes si no existe.
func (r *PgReportRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS interview_reports (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			candidate_name TEXT NOT NULL,
			job_title TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			questions_asked INT NOT NULL,
			responses_given INT NOT NULL,
			average_star_score DOUBLE PRECISION NOT NULL,
			feedback TEXT NOT NULL,
			transcript JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

// Save inserta el reporte; un segundo guardado de la misma sesion se ignora.
func (r *PgReportRepository) Save(ctx context.Context, report domain.InterviewReport) error {
	const query = `
		INSERT INTO interview_reports (
			id, session_id, candidate_name, job_title, company_name,
			questions_asked, responses_given, average_star_score, feedback, transcript, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO NOTHING
	`
	transcript, err := json.Marshal(report.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.SessionID,
		report.CandidateName,
		report.JobTitle,
		report.CompanyName,
		report.QuestionsAsked,
		report.ResponsesGiven,
		report.AverageSTARScore,
		report.Feedback,
		transcript,
		report.CreatedAt,
	)
	return err
}

func (r *PgReportRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.InterviewReport, error) {
	const query = `
		SELECT id, session_id, candidate_name, job_title, company_name,
			questions_asked, responses_given, average_star_score, feedback, transcript, created_at
		FROM interview_reports
		WHERE session_id = $1
	`
	var (
		report     domain.InterviewReport
		transcript []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&report.ID,
		&report.SessionID,
		&report.CandidateName,
		&report.JobTitle,
		&report.CompanyName,
		&report.QuestionsAsked,
		&report.ResponsesGiven,
		&report.AverageSTARScore,
		&report.Feedback,
		&transcript,
		&report.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.InterviewReport{}, ErrReportNotFound
	}
	if err != nil {
		return domain.InterviewReport{}, err
	}
	if err := json.Unmarshal(transcript, &report.Transcript); err != nil {
		return domain.InterviewReport{}, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return report, nil
}
