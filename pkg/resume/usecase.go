package resume

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// IntakeUseCase принимает загруженный файл: валидирует, сохраняет и извлекает текст.
type IntakeUseCase interface {
	Accept(ctx context.Context, candidateID uuid.UUID, filename, mimeType string, data []byte) (Intake, error)
	// Discard удаляет принятый файл, если анализ по нему так и не сохранился.
	Discard(ctx context.Context, in Intake) error
}

type intakeService struct {
	files    FileStore
	maxBytes int64
	log      *slog.Logger
}

// NewIntakeService creates the default implementation.
func NewIntakeService(files FileStore, maxBytes int64, logger *slog.Logger) IntakeUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &intakeService{files: files, maxBytes: maxBytes, log: logger}
}

func (s *intakeService) Accept(ctx context.Context, candidateID uuid.UUID, filename, mimeType string, data []byte) (Intake, error) {
	mt := NormalizeMimeType(mimeType)
	if err := ValidateUpload(mt, int64(len(data)), s.maxBytes); err != nil {
		return Intake{}, err
	}
	name := StoredName(candidateID, filename)
	location, err := s.files.Save(ctx, name, mt, data)
	if err != nil {
		return Intake{}, fmt.Errorf("store resume file: %w", err)
	}
	// A broken document still produces an analysis: empty text scores low.
	text, err := ExtractText(mt, data)
	if err != nil {
		s.log.Warn("resume text extraction failed",
			slog.String("candidate_id", candidateID.String()),
			slog.String("mime_type", mt),
			slog.Any("error", err))
		text = ""
	}
	return Intake{
		Filename: filename,
		MimeType: mt,
		Size:     int64(len(data)),
		Location: location,
		Text:     text,
	}, nil
}

func (s *intakeService) Discard(ctx context.Context, in Intake) error {
	if in.Location == "" {
		return nil
	}
	if err := s.files.Delete(ctx, in.Location); err != nil {
		return fmt.Errorf("delete resume file: %w", err)
	}
	return nil
}

// StoredName builds a unique object name "<candidate>/<uuid>_<base name>".
func StoredName(candidateID uuid.UUID, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "resume"
	}
	return candidateID.String() + "/" + uuid.NewString() + "_" + base
}
