package analysis

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ключи контактной информации.
const (
	ContactEmail    = "email"
	ContactPhone    = "phone"
	ContactLinkedIn = "linkedin"
)

// Placeholder values for fields the extractors do not actually read from the text.
const (
	PlaceholderPosition    = "Software Developer"
	PlaceholderDuration    = "2 years"
	PlaceholderInstitution = "University Name"
	PlaceholderYear        = "2020"
)

// ExperienceItem — упоминание места работы.
// Heuristic=true: Position и Duration — заглушки, а не извлечённые факты.
type ExperienceItem struct {
	Company   string `json:"company"`
	Position  string `json:"position"`
	Duration  string `json:"duration"`
	Heuristic bool   `json:"heuristic"`
}

// EducationItem — упоминание степени.
// Heuristic=true: Institution и Year — заглушки.
type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Heuristic   bool   `json:"heuristic"`
}

// Contact — разреженная карта контактов; отсутствующие поля не хранятся вовсе.
type Contact map[string]string

// Analysis — неизменяемая запись одного анализа резюме.
type Analysis struct {
	ID              uuid.UUID        `json:"id"`
	CandidateID     uuid.UUID        `json:"candidateId"`
	ResumeLocation  string           `json:"resumeLocation"`
	MimeType        string           `json:"mimeType"`
	ExtractedText   string           `json:"extractedText"`
	Skills          []string         `json:"skills"`
	Experience      []ExperienceItem `json:"experience"`
	Education       []EducationItem  `json:"education"`
	Contact         Contact          `json:"contact"`
	ExperienceYears int              `json:"experienceYears"`
	Score           float64          `json:"score"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Band returns the display band of the analysis score.
func (a Analysis) Band() string { return Band(a.Score) }

// Summary — счётчики сущностей для списков истории.
type Summary struct {
	Skills        int `json:"skills"`
	Experience    int `json:"experience"`
	Education     int `json:"education"`
	ContactFields int `json:"contactFields"`
}

// Summary считает найденные сущности для строк истории.
func (a Analysis) Summary() Summary {
	return Summary{
		Skills:        len(a.Skills),
		Experience:    len(a.Experience),
		Education:     len(a.Education),
		ContactFields: len(a.Contact),
	}
}

// Projection — сводка по последнему анализу кандидата для быстрого отображения профиля.
type Projection struct {
	CandidateID     uuid.UUID `json:"candidateId"`
	SkillsSummary   string    `json:"skillsSummary"`
	ExperienceYears int       `json:"experienceYears"`
	ResumeLocation  string    `json:"resumeLocation"`
	AnalysisID      uuid.UUID `json:"analysisId"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}

// ProjectionOf derives the candidate projection from a single analysis.
func ProjectionOf(a Analysis) Projection {
	return Projection{
		CandidateID:     a.CandidateID,
		SkillsSummary:   strings.Join(a.Skills, ", "),
		ExperienceYears: a.ExperienceYears,
		ResumeLocation:  a.ResumeLocation,
		AnalysisID:      a.ID,
		AnalyzedAt:      a.CreatedAt,
	}
}

// Newer reports whether a supersedes the analysis identified by (at, id).
// Equal timestamps fall back to comparing ids, so the order is total.
func Newer(a Analysis, at time.Time, id uuid.UUID) bool {
	if !a.CreatedAt.Equal(at) {
		return a.CreatedAt.After(at)
	}
	return bytes.Compare(a.ID[:], id[:]) > 0
}

// Repository — порт хранилища анализов и проекции профиля.
// Save записывает анализ и обновляет проекцию атомарно.
type Repository interface {
	Save(ctx context.Context, a Analysis) error
	Latest(ctx context.Context, candidateID uuid.UUID) (Analysis, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit, offset int) ([]Analysis, error)
	GetProfile(ctx context.Context, candidateID uuid.UUID) (Projection, error)
}
