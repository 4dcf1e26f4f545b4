package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/skillverge/api/http/presenter"
	"github.com/artem13815/skillverge/pkg/analysis"
	"github.com/artem13815/skillverge/pkg/resume"
)

type AnalysisHandler struct {
	uc       analysis.UseCase
	intake   resume.IntakeUseCase
	maxBytes int64
	log      *slog.Logger
}

func NewAnalysisHandler(uc analysis.UseCase, intake resume.IntakeUseCase, maxBytes int64, logger *slog.Logger) *AnalysisHandler {
	if maxBytes <= 0 {
		maxBytes = resume.DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{uc: uc, intake: intake, maxBytes: maxBytes, log: logger}
}

// analysisResponse — анализ вместе с диапазоном оценки и счётчиками сущностей.
type analysisResponse struct {
	analysis.Analysis
	Band    string           `json:"band"`
	Summary analysis.Summary `json:"summary"`
}

func toResponse(a analysis.Analysis) analysisResponse {
	return analysisResponse{Analysis: a, Band: a.Band(), Summary: a.Summary()}
}

func toResponses(items []analysis.Analysis) []analysisResponse {
	out := make([]analysisResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}

type historyResponse struct {
	Items  []analysisResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// Upload принимает файл резюме, сохраняет его, извлекает текст и запускает анализ.
// @Summary Загрузить и проанализировать резюме
// @Description Принимает PDF/DOC/DOCX не больше лимита, сохраняет файл, извлекает текст, считает оценку и обновляет профиль кандидата.
// @Tags        Анализ резюме
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Файл резюме (PDF/DOC/DOCX)"
// @Security    BearerAuth
// @Success     201 {object} analysisResponse
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     401 {object} presenter.ErrorResponse
// @Failure     500 {object} presenter.ErrorResponse
// @Router      /resume-analyses [post]
func (h *AnalysisHandler) Upload(c *fiber.Ctx) error {
	candidateID, ok := currentUser(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf, doc or docx)")
	}
	mimeType := fh.Header.Get("Content-Type")
	// Reject by declared type and size before reading the body.
	if err := resume.ValidateUpload(mimeType, fh.Size, h.maxBytes); err != nil {
		return writeError(c, h.log, err)
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return writeError(c, h.log, err)
	}

	in, err := h.intake.Accept(c.Context(), candidateID, fh.Filename, mimeType, data)
	if err != nil {
		return writeError(c, h.log, err)
	}
	a, err := h.uc.Submit(c.Context(), analysis.SubmitInput{
		CandidateID:    candidateID,
		Text:           in.Text,
		MimeType:       in.MimeType,
		ResumeLocation: in.Location,
	})
	if err != nil {
		if derr := h.intake.Discard(c.Context(), in); derr != nil {
			h.log.Warn("uploaded resume left without analysis",
				slog.String("location", in.Location),
				slog.Any("error", derr))
		}
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusCreated, toResponse(a))
}

type submitTextRequest struct {
	Text     string `json:"text"`
	MimeType string `json:"mimeType" validate:"required"`
}

// SubmitText анализирует уже извлечённый текст резюме.
// @Summary Проанализировать текст резюме
// @Tags    Анализ резюме
// @Accept  json
// @Produce json
// @Param   input body submitTextRequest true "Текст резюме и исходный MIME-тип"
// @Security BearerAuth
// @Success 201 {object} analysisResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /resume-analyses/text [post]
func (h *AnalysisHandler) SubmitText(c *fiber.Ctx) error {
	candidateID, ok := currentUser(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	var req submitTextRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный JSON")
	}
	if err := validate.Struct(req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, validationMessage(err))
	}
	a, err := h.uc.Submit(c.Context(), analysis.SubmitInput{
		CandidateID: candidateID,
		Text:        req.Text,
		MimeType:    req.MimeType,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusCreated, toResponse(a))
}

// Latest возвращает последний анализ текущего кандидата.
// @Summary Последний анализ
// @Tags    Анализ резюме
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analysisResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resume-analyses/latest [get]
func (h *AnalysisHandler) Latest(c *fiber.Ctx) error {
	candidateID, ok := currentUser(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	return h.latest(c, candidateID)
}

// History возвращает историю анализов текущего кандидата, от новых к старым.
// @Summary История анализов
// @Tags    Анализ резюме
// @Produce json
// @Param   limit  query int false "Размер страницы (по умолчанию 20)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {object} historyResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /resume-analyses [get]
func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	candidateID, ok := currentUser(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	return h.history(c, candidateID)
}

// Profile возвращает проекцию профиля: навыки и опыт из последнего анализа.
// @Summary Профиль кандидата
// @Tags    Анализ резюме
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analysis.Projection
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile [get]
func (h *AnalysisHandler) Profile(c *fiber.Ctx) error {
	candidateID, ok := currentUser(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "не удалось определить пользователя")
	}
	p, err := h.uc.Profile(c.Context(), candidateID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// CandidateLatest — последний анализ указанного кандидата (только админ).
// @Summary Последний анализ кандидата (админ)
// @Tags    Админ
// @Produce json
// @Param   id path string true "ID кандидата (UUID)"
// @Security BearerAuth
// @Success 200 {object} analysisResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/resume-analyses/latest [get]
func (h *AnalysisHandler) CandidateLatest(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный id")
	}
	return h.latest(c, candidateID)
}

// CandidateHistory — история анализов указанного кандидата (только админ).
// @Summary История анализов кандидата (админ)
// @Tags    Админ
// @Produce json
// @Param   id     path  string true  "ID кандидата (UUID)"
// @Param   limit  query int    false "Размер страницы"
// @Param   offset query int    false "Смещение"
// @Security BearerAuth
// @Success 200 {object} historyResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Router  /candidates/{id}/resume-analyses [get]
func (h *AnalysisHandler) CandidateHistory(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "невалидный id")
	}
	return h.history(c, candidateID)
}

func (h *AnalysisHandler) latest(c *fiber.Ctx, candidateID uuid.UUID) error {
	a, err := h.uc.Latest(c.Context(), candidateID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, toResponse(a))
}

func (h *AnalysisHandler) history(c *fiber.Ctx, candidateID uuid.UUID) error {
	limit, offset := parseLimitOffset(c, analysis.DefaultHistoryLimit)
	items, err := h.uc.History(c.Context(), candidateID, limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, historyResponse{Items: toResponses(items), Limit: limit, Offset: offset})
}

// RequireAdmin пропускает только токены с флагом администратора.
func RequireAdmin(c *fiber.Ctx) error {
	if isAdmin, _ := c.Locals("isAdmin").(bool); !isAdmin {
		return presenter.Error(c, http.StatusForbidden, "доступ только для администратора")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	userIDStr, _ := c.Locals("userId").(string)
	id, err := uuid.Parse(userIDStr)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, &resume.ValidationError{Field: "file", Message: fmt.Sprintf("file size must be less than %d bytes", max)}
	}
	return b, nil
}
