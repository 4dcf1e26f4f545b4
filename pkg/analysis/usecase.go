package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/skillverge/pkg/nlp"
	"github.com/artem13815/skillverge/pkg/resume"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// SubmitInput — текст резюме кандидата и его исходный MIME-тип.
type SubmitInput struct {
	CandidateID    uuid.UUID
	Text           string
	MimeType       string
	ResumeLocation string
}

// UseCase — сценарии анализа резюме. Кандидат всегда передаётся явно.
type UseCase interface {
	Submit(ctx context.Context, in SubmitInput) (Analysis, error)
	Latest(ctx context.Context, candidateID uuid.UUID) (Analysis, error)
	History(ctx context.Context, candidateID uuid.UUID, limit, offset int) ([]Analysis, error)
	Profile(ctx context.Context, candidateID uuid.UUID) (Projection, error)
}

type service struct {
	repo  Repository
	log   *slog.Logger
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// Option настраивает service; используется в тестах.
type Option func(*service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator overrides analysis id generation.
func WithIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(s *service) { s.newID = gen }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) UseCase {
	if logger == nil {
		logger = slog.Default()
	}
	s := &service{
		repo:  repo,
		log:   logger,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID: uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (Analysis, error) {
	if in.CandidateID == uuid.Nil {
		return Analysis{}, &ValidationError{Field: "candidateId", Message: "candidate is required"}
	}
	if err := resume.ValidateMimeType(in.MimeType); err != nil {
		return Analysis{}, err
	}

	text := nlp.Normalize(in.Text)
	if text.Empty() {
		s.log.Debug("empty resume text, analysis will score zero",
			slog.String("candidate_id", in.CandidateID.String()))
	}
	ex, err := Extract(ctx, text)
	if err != nil {
		return Analysis{}, err
	}

	id, err := s.newID()
	if err != nil {
		return Analysis{}, fmt.Errorf("generate analysis id: %w", err)
	}
	a := Analysis{
		ID:              id,
		CandidateID:     in.CandidateID,
		ResumeLocation:  in.ResumeLocation,
		MimeType:        resume.NormalizeMimeType(in.MimeType),
		ExtractedText:   text.Raw,
		Skills:          ex.Skills,
		Experience:      ex.Experience,
		Education:       ex.Education,
		Contact:         ex.Contact,
		ExperienceYears: ExperienceYears(ex.Experience),
		Score:           ex.Score,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	s.log.Info("resume analysed",
		slog.String("candidate_id", a.CandidateID.String()),
		slog.String("analysis_id", a.ID.String()),
		slog.Float64("score", a.Score),
		slog.Int("skills", len(a.Skills)))
	return a, nil
}

func (s *service) Latest(ctx context.Context, candidateID uuid.UUID) (Analysis, error) {
	return s.repo.Latest(ctx, candidateID)
}

func (s *service) History(ctx context.Context, candidateID uuid.UUID, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByCandidate(ctx, candidateID, limit, offset)
}

func (s *service) Profile(ctx context.Context, candidateID uuid.UUID) (Projection, error) {
	return s.repo.GetProfile(ctx, candidateID)
}
