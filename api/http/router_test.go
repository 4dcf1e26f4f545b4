package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"baliance.com/gooxml/document"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/skillverge/api/http/handlers"
	"github.com/artem13815/skillverge/pkg/analysis"
	"github.com/artem13815/skillverge/pkg/auth"
	"github.com/artem13815/skillverge/pkg/health"
	"github.com/artem13815/skillverge/pkg/health/checkers"
	sqliterepo "github.com/artem13815/skillverge/pkg/repository/sqlite"
	"github.com/artem13815/skillverge/pkg/resume"
	"github.com/artem13815/skillverge/pkg/security/jwt"
	"github.com/artem13815/skillverge/pkg/storage/files"
	sqlitestore "github.com/artem13815/skillverge/pkg/storage/sqlite"
)

const (
	testSecret = "test-secret"
	testIssuer = "skillverge-test"
)

type testServer struct {
	app       *fiber.App
	tokens    *jwt.Generator
	uploadDir string
	db        *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlitestore.Open(context.Background(), filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users, err := sqliterepo.NewUserRepository(db)
	require.NoError(t, err)
	analyses, err := sqliterepo.NewAnalysisRepository(db)
	require.NoError(t, err)

	uploadDir := filepath.Join(dir, "uploads")
	tokens := jwt.NewGenerator(testSecret, testIssuer, time.Hour)
	intake := resume.NewIntakeService(files.NewLocalStore(uploadDir), 0, nil)

	app := fiber.New()
	Register(app,
		handlers.NewAuthHandler(auth.NewAuthService(users, tokens), nil),
		handlers.NewHealthHandler(health.NewService(checkers.NewSQLiteChecker(db))),
		handlers.NewAnalysisHandler(analysis.NewService(analyses, nil), intake, 0, nil),
		jwt.NewAuthMiddleware(testSecret, testIssuer),
	)
	return &testServer{app: app, tokens: tokens, uploadDir: uploadDir, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token, contentType string, body io.Reader) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	return s.do(t, method, path, token, fiber.MIMEApplicationJSON, body)
}

func (s *testServer) register(t *testing.T, email string) (string, string) {
	t.Helper()
	status, body := s.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["token"].(string), body["id"].(string)
}

func multipartFile(t *testing.T, filename, mimeType string, data []byte) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), &buf
}

func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	doc := document.New()
	for _, p := range paragraphs {
		doc.AddParagraph().AddRun().AddText(p)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	return buf.Bytes()
}

const janeResume = "Jane Doe\nSkills: PHP, Ruby, Python\nI worked at Acme Corp\nBachelor of Computer Science\njane@x.com"

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, fiber.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestAuth_Validation(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "nope", "password": "short"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "email must be a valid email")
	assert.Contains(t, body["message"], "password must be at least 8 characters")

	s.register(t, "jane@x.com")
	status, _ = s.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "jane@x.com", "password": "correct-horse"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = s.doJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "jane@x.com", "password": "correct-horse"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = s.doJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "jane@x.com", "password": "wrong-horse"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestSubmitText_LatestHistoryProfile(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register(t, "jane@x.com")

	status, body := s.doJSON(t, fiber.MethodGet, "/api/v1/resume-analyses/latest", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, created := s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", token, map[string]string{
		"text":     janeResume,
		"mimeType": resume.MimePDF,
	})
	require.Equal(t, fiber.StatusCreated, status, created)
	assert.Equal(t, userID, created["candidateId"])
	assert.InDelta(t, 3.85, created["score"], 1e-9)
	assert.Equal(t, "weak", created["band"])
	assert.Equal(t, []any{"PHP", "Python", "Ruby"}, created["skills"])
	assert.EqualValues(t, 2, created["experienceYears"])
	assert.Equal(t, map[string]any{"email": "jane@x.com"}, created["contact"])

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/resume-analyses/latest", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, created["id"], body["id"])

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PHP, Python, Ruby", body["skillsSummary"])
	assert.Equal(t, created["id"], body["analysisId"])

	status, second := s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", token, map[string]string{
		"text":     "Go and Kubernetes",
		"mimeType": resume.MimeDocx,
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/resume-analyses?limit=10", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, second["id"], items[0].(map[string]any)["id"])
	assert.Equal(t, created["id"], items[1].(map[string]any)["id"])

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Go, Kubernetes", body["skillsSummary"])
}

func TestSubmitText_Rejections(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "jane@x.com")

	status, body := s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", token, map[string]string{"text": "PHP", "mimeType": "text/plain"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "PDF or Word")

	status, body = s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", token, map[string]string{"text": "PHP"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "mimeType is required")

	status, _ = s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", "", map[string]string{"text": "PHP", "mimeType": resume.MimePDF})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register(t, "jane@x.com")

	ct, body := multipartFile(t, "My CV.docx", resume.MimeDocx, docx(t, "Senior developer at Initech", "Skills: Docker, Terraform", "MBA Finance"))
	status, created := s.do(t, fiber.MethodPost, "/api/v1/resume-analyses", token, ct, body)
	require.Equal(t, fiber.StatusCreated, status, created)
	assert.Equal(t, resume.MimeDocx, created["mimeType"])
	assert.Equal(t, []any{"Docker", "Terraform"}, created["skills"])
	loc := created["resumeLocation"].(string)
	assert.True(t, strings.HasPrefix(loc, filepath.Join(s.uploadDir, userID)), loc)
	assert.True(t, strings.HasSuffix(loc, "_My_CV.docx"), loc)
	assert.Contains(t, created["extractedText"], "Senior developer at Initech")

	status, profile := s.doJSON(t, fiber.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, loc, profile["resumeLocation"])
}

func TestUpload_BrokenPDFStillAnalysed(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "jane@x.com")

	ct, body := multipartFile(t, "cv.pdf", resume.MimePDF, []byte("definitely not a pdf"))
	status, created := s.do(t, fiber.MethodPost, "/api/v1/resume-analyses", token, ct, body)
	require.Equal(t, fiber.StatusCreated, status, created)
	assert.Equal(t, 0.0, created["score"])
	assert.Equal(t, "", created["extractedText"])
}

func TestUpload_StoreFailureRemovesFile(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "jane@x.com")
	_, err := s.db.Exec(`DROP TABLE resume_analyses`)
	require.NoError(t, err)

	ct, body := multipartFile(t, "cv.docx", resume.MimeDocx, docx(t, "Skills: Go"))
	status, _ := s.do(t, fiber.MethodPost, "/api/v1/resume-analyses", token, ct, body)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	var left []string
	err = filepath.WalkDir(s.uploadDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			left = append(left, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestUpload_Rejections(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "jane@x.com")

	ct, body := multipartFile(t, "cv.png", "image/png", []byte("png"))
	status, _ := s.do(t, fiber.MethodPost, "/api/v1/resume-analyses", token, ct, body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	ct, body = multipartFile(t, "cv.pdf", resume.MimePDF, nil)
	status, _ = s.do(t, fiber.MethodPost, "/api/v1/resume-analyses", token, ct, body)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses", token, map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register(t, "jane@x.com")
	status, _ := s.doJSON(t, fiber.MethodPost, "/api/v1/resume-analyses/text", token, map[string]string{"text": janeResume, "mimeType": resume.MimePDF})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = s.doJSON(t, fiber.MethodGet, "/api/v1/candidates/"+userID+"/resume-analyses", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	adminToken, err := s.tokens.Generate(context.Background(), auth.User{ID: uuid.New(), IsAdmin: true})
	require.NoError(t, err)

	status, body := s.doJSON(t, fiber.MethodGet, "/api/v1/candidates/"+userID+"/resume-analyses", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = s.doJSON(t, fiber.MethodGet, "/api/v1/candidates/"+userID+"/resume-analyses/latest", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, userID, body["candidateId"])

	status, _ = s.doJSON(t, fiber.MethodGet, "/api/v1/candidates/not-a-uuid/resume-analyses/latest", adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.doJSON(t, fiber.MethodGet, "/api/v1/candidates/"+uuid.NewString()+"/resume-analyses/latest", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
