package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/skillverge/pkg/analysis"
)

// AnalysisRepository — хранилище анализов на SQLite: JSON в TEXT-колонках,
// время в наносекундах Unix.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) (*AnalysisRepository, error) {
	r := &AnalysisRepository{db: db}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AnalysisRepository) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS resume_analyses (
	id               TEXT PRIMARY KEY,
	candidate_id     TEXT NOT NULL,
	resume_location  TEXT NOT NULL DEFAULT '',
	mime_type        TEXT NOT NULL,
	extracted_text   TEXT NOT NULL,
	skills           TEXT NOT NULL,
	experience       TEXT NOT NULL,
	education        TEXT NOT NULL,
	contact          TEXT NOT NULL,
	experience_years INTEGER NOT NULL,
	score            REAL NOT NULL,
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS resume_analyses_candidate_created_idx
	ON resume_analyses (candidate_id, created_at DESC, id DESC);
CREATE TABLE IF NOT EXISTS candidate_profiles (
	candidate_id        TEXT PRIMARY KEY,
	skills_summary      TEXT NOT NULL,
	experience_years    INTEGER NOT NULL,
	resume_location     TEXT NOT NULL DEFAULT '',
	analysis_id         TEXT NOT NULL,
	analysis_created_at INTEGER NOT NULL
);
`)
	return err
}

func (r *AnalysisRepository) Save(ctx context.Context, a analysis.Analysis) error {
	skills, err := json.Marshal(a.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	experience, err := json.Marshal(a.Experience)
	if err != nil {
		return fmt.Errorf("marshal experience: %w", err)
	}
	education, err := json.Marshal(a.Education)
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}
	contact, err := json.Marshal(a.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	p := analysis.ProjectionOf(a)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
INSERT INTO resume_analyses (id, candidate_id, resume_location, mime_type, extracted_text,
	skills, experience, education, contact, experience_years, score, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, a.ID.String(), a.CandidateID.String(), a.ResumeLocation, a.MimeType, a.ExtractedText,
		string(skills), string(experience), string(education), string(contact),
		a.ExperienceYears, a.Score, a.CreatedAt.UnixNano()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO candidate_profiles (candidate_id, skills_summary, experience_years, resume_location, analysis_id, analysis_created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (candidate_id) DO UPDATE SET
	skills_summary = excluded.skills_summary,
	experience_years = excluded.experience_years,
	resume_location = excluded.resume_location,
	analysis_id = excluded.analysis_id,
	analysis_created_at = excluded.analysis_created_at
WHERE candidate_profiles.analysis_created_at < excluded.analysis_created_at
	OR (candidate_profiles.analysis_created_at = excluded.analysis_created_at
		AND candidate_profiles.analysis_id < excluded.analysis_id)
`, p.CandidateID.String(), p.SkillsSummary, p.ExperienceYears, p.ResumeLocation,
		p.AnalysisID.String(), p.AnalyzedAt.UnixNano()); err != nil {
		return err
	}
	return tx.Commit()
}

const selectAnalysis = `
SELECT id, candidate_id, resume_location, mime_type, extracted_text,
	skills, experience, education, contact, experience_years, score, created_at
FROM resume_analyses`

func (r *AnalysisRepository) Latest(ctx context.Context, candidateID uuid.UUID) (analysis.Analysis, error) {
	row := r.db.QueryRowContext(ctx, selectAnalysis+`
WHERE candidate_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`, candidateID.String())
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analysis.Analysis{}, analysis.ErrNotFound
		}
		return analysis.Analysis{}, err
	}
	return a, nil
}

func (r *AnalysisRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit, offset int) ([]analysis.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, selectAnalysis+`
WHERE candidate_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`, candidateID.String(), limit, offset)
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
	row := r.db.QueryRowContext(ctx, `
SELECT candidate_id, skills_summary, experience_years, resume_location, analysis_id, analysis_created_at
FROM candidate_profiles WHERE candidate_id = ?
`, candidateID.String())
	var p analysis.Projection
	var analyzedAt int64
	if err := row.Scan(&p.CandidateID, &p.SkillsSummary, &p.ExperienceYears, &p.ResumeLocation, &p.AnalysisID, &analyzedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return analysis.Projection{}, analysis.ErrNotFound
		}
		return analysis.Projection{}, err
	}
	p.AnalyzedAt = time.Unix(0, analyzedAt).UTC()
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (analysis.Analysis, error) {
	var a analysis.Analysis
	var skills, experience, education, contact string
	var created int64
	if err := row.Scan(&a.ID, &a.CandidateID, &a.ResumeLocation, &a.MimeType, &a.ExtractedText,
		&skills, &experience, &education, &contact, &a.ExperienceYears, &a.Score, &created); err != nil {
		return analysis.Analysis{}, err
	}
	if err := json.Unmarshal([]byte(skills), &a.Skills); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(experience), &a.Experience); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode experience: %w", err)
	}
	if err := json.Unmarshal([]byte(education), &a.Education); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode education: %w", err)
	}
	if err := json.Unmarshal([]byte(contact), &a.Contact); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode contact: %w", err)
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	return a, nil
}
