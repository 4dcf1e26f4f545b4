package resume

import (
	"context"
	"fmt"
	"strings"
)

// Поддерживаемые MIME-типы загружаемых резюме.
const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DefaultMaxUploadBytes — лимит размера файла резюме (5 МБ).
const DefaultMaxUploadBytes int64 = 5 << 20

var allowedMimeTypes = []string{MimePDF, MimeDoc, MimeDocx}

// Intake — результат приёма загруженного файла: ссылка на хранилище и извлечённый текст.
type Intake struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
	Text     string `json:"-"`
}

// FileStore — порт хранилища исходных файлов резюме.
// Save возвращает непрозрачную ссылку на сохранённый файл, Delete принимает её же.
type FileStore interface {
	Save(ctx context.Context, name, mimeType string, data []byte) (string, error)
	Delete(ctx context.Context, location string) error
}

// NormalizeMimeType strips parameters ("; charset=...") and lower-cases the type.
func NormalizeMimeType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// ValidateMimeType rejects anything outside the PDF/Word allow-list.
func ValidateMimeType(mimeType string) error {
	mt := NormalizeMimeType(mimeType)
	for _, allowed := range allowedMimeTypes {
		if mt == allowed {
			return nil
		}
	}
	return &ValidationError{Field: "mimeType", Message: "please upload a PDF or Word document"}
}

// ValidateUpload проверяет тип и размер файла до любой обработки.
func ValidateUpload(mimeType string, size, maxBytes int64) error {
	if err := ValidateMimeType(mimeType); err != nil {
		return err
	}
	if size <= 0 {
		return &ValidationError{Field: "file", Message: "file is empty"}
	}
	if maxBytes > 0 && size > maxBytes {
		return &ValidationError{Field: "file", Message: fmt.Sprintf("file size must be less than %d bytes", maxBytes)}
	}
	return nil
}
