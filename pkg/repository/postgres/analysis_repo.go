package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/skillverge/pkg/analysis"
)

// AnalysisRepository хранит историю анализов и проекцию профиля кандидата.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) (*AnalysisRepository, error) {
	r := &AnalysisRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AnalysisRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_analyses (
	id UUID PRIMARY KEY,
	candidate_id UUID NOT NULL,
	resume_location TEXT NOT NULL DEFAULT '',
	mime_type TEXT NOT NULL,
	extracted_text TEXT NOT NULL,
	skills JSONB NOT NULL,
	experience JSONB NOT NULL,
	education JSONB NOT NULL,
	contact JSONB NOT NULL,
	experience_years INTEGER NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS resume_analyses_candidate_created_idx
	ON resume_analyses (candidate_id, created_at DESC, id DESC);
CREATE TABLE IF NOT EXISTS candidate_profiles (
	candidate_id UUID PRIMARY KEY,
	skills_summary TEXT NOT NULL,
	experience_years INTEGER NOT NULL,
	resume_location TEXT NOT NULL DEFAULT '',
	analysis_id UUID NOT NULL,
	analysis_created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

type analysisJSON struct {
	skills, experience, education, contact []byte
}

func marshalAnalysis(a analysis.Analysis) (analysisJSON, error) {
	var out analysisJSON
	var err error
	if out.skills, err = json.Marshal(a.Skills); err != nil {
		return out, err
	}
	if out.experience, err = json.Marshal(a.Experience); err != nil {
		return out, err
	}
	if out.education, err = json.Marshal(a.Education); err != nil {
		return out, err
	}
	out.contact, err = json.Marshal(a.Contact)
	return out, err
}

// Save вставляет анализ и обновляет проекцию в одной транзакции.
// Проекция перезаписывается только более новым анализом (created_at, затем id).
func (r *AnalysisRepository) Save(ctx context.Context, a analysis.Analysis) error {
	cols, err := marshalAnalysis(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	p := analysis.ProjectionOf(a)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `
INSERT INTO resume_analyses (id, candidate_id, resume_location, mime_type, extracted_text,
	skills, experience, education, contact, experience_years, score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`, a.ID, a.CandidateID, a.ResumeLocation, a.MimeType, a.ExtractedText,
		cols.skills, cols.experience, cols.education, cols.contact,
		a.ExperienceYears, a.Score, a.CreatedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
INSERT INTO candidate_profiles (candidate_id, skills_summary, experience_years, resume_location, analysis_id, analysis_created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (candidate_id) DO UPDATE SET
	skills_summary = EXCLUDED.skills_summary,
	experience_years = EXCLUDED.experience_years,
	resume_location = EXCLUDED.resume_location,
	analysis_id = EXCLUDED.analysis_id,
	analysis_created_at = EXCLUDED.analysis_created_at
WHERE (candidate_profiles.analysis_created_at, candidate_profiles.analysis_id)
	< (EXCLUDED.analysis_created_at, EXCLUDED.analysis_id)
`, p.CandidateID, p.SkillsSummary, p.ExperienceYears, p.ResumeLocation, p.AnalysisID, p.AnalyzedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const selectAnalysis = `
SELECT id, candidate_id, resume_location, mime_type, extracted_text,
	skills, experience, education, contact, experience_years, score, created_at
FROM resume_analyses`

func (r *AnalysisRepository) Latest(ctx context.Context, candidateID uuid.UUID) (analysis.Analysis, error) {
	row := r.pool.QueryRow(ctx, selectAnalysis+`
WHERE candidate_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`, candidateID)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analysis.Analysis{}, analysis.ErrNotFound
		}
		return analysis.Analysis{}, err
	}
	return a, nil
}

func (r *AnalysisRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit, offset int) ([]analysis.Analysis, error) {
	rows, err := r.pool.Query(ctx, selectAnalysis+`
WHERE candidate_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, candidateID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []analysis.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) GetProfile(ctx context.Context, candidateID uuid.UUID) (analysis.Projection, error) {
	row := r.pool.QueryRow(ctx, `
SELECT candidate_id, skills_summary, experience_years, resume_location, analysis_id, analysis_created_at
FROM candidate_profiles WHERE candidate_id = $1
`, candidateID)
	var p analysis.Projection
	if err := row.Scan(&p.CandidateID, &p.SkillsSummary, &p.ExperienceYears, &p.ResumeLocation, &p.AnalysisID, &p.AnalyzedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analysis.Projection{}, analysis.ErrNotFound
		}
		return analysis.Projection{}, err
	}
	p.AnalyzedAt = p.AnalyzedAt.UTC()
	return p, nil
}

func scanAnalysis(row pgx.Row) (analysis.Analysis, error) {
	var a analysis.Analysis
	var skills, experience, education, contact []byte
	var created time.Time
	if err := row.Scan(&a.ID, &a.CandidateID, &a.ResumeLocation, &a.MimeType, &a.ExtractedText,
		&skills, &experience, &education, &contact, &a.ExperienceYears, &a.Score, &created); err != nil {
		return analysis.Analysis{}, err
	}
	if err := unmarshalColumns(&a, skills, experience, education, contact); err != nil {
		return analysis.Analysis{}, err
	}
	a.CreatedAt = created.UTC()
	return a, nil
}

func unmarshalColumns(a *analysis.Analysis, skills, experience, education, contact []byte) error {
	if err := json.Unmarshal(skills, &a.Skills); err != nil {
		return fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal(experience, &a.Experience); err != nil {
		return fmt.Errorf("decode experience: %w", err)
	}
	if err := json.Unmarshal(education, &a.Education); err != nil {
		return fmt.Errorf("decode education: %w", err)
	}
	if err := json.Unmarshal(contact, &a.Contact); err != nil {
		return fmt.Errorf("decode contact: %w", err)
	}
	return nil
}
