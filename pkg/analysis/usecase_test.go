package analysis

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/skillverge/pkg/resume"
)

type memRepo struct {
	mu       sync.Mutex
	items    []Analysis
	profiles map[uuid.UUID]Projection
	saveErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: map[uuid.UUID]Projection{}}
}

func (r *memRepo) Save(_ context.Context, a Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items = append(r.items, a)
	cur, ok := r.profiles[a.CandidateID]
	if !ok || Newer(a, cur.AnalyzedAt, cur.AnalysisID) {
		r.profiles[a.CandidateID] = ProjectionOf(a)
	}
	return nil
}

func (r *memRepo) ListByCandidate(_ context.Context, candidateID uuid.UUID, limit, offset int) ([]Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Analysis
	for _, a := range r.items {
		if a.CandidateID == candidateID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return Newer(out[i], out[j].CreatedAt, out[j].ID) })
	if offset >= len(out) {
		return []Analysis{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Latest(ctx context.Context, candidateID uuid.UUID) (Analysis, error) {
	list, _ := r.ListByCandidate(ctx, candidateID, 1, 0)
	if len(list) == 0 {
		return Analysis{}, ErrNotFound
	}
	return list[0], nil
}

func (r *memRepo) GetProfile(_ context.Context, candidateID uuid.UUID) (Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[candidateID]
	if !ok {
		return Projection{}, ErrNotFound
	}
	return p, nil
}

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

func TestSubmit_PersistsAnalysisAndProjection(t *testing.T) {
	repo := newMemRepo()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(repo, nil, WithClock(fixedClock(at)))
	cid := uuid.New()

	a, err := svc.Submit(context.Background(), SubmitInput{
		CandidateID:    cid,
		Text:           janeResume,
		MimeType:       "Application/PDF",
		ResumeLocation: "uploads/cv.pdf",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, uuid.Version(7), a.ID.Version())
	assert.Equal(t, cid, a.CandidateID)
	assert.Equal(t, resume.MimePDF, a.MimeType)
	assert.Equal(t, janeResume, a.ExtractedText)
	assert.Equal(t, 2, a.ExperienceYears)
	assert.InDelta(t, 4.05, a.Score, 1e-9)
	assert.Equal(t, at, a.CreatedAt)
	assert.Equal(t, BandWeak, a.Band())
	assert.Equal(t, Summary{Skills: 4, Experience: 1, Education: 1, ContactFields: 1}, a.Summary())

	p, err := svc.Profile(context.Background(), cid)
	require.NoError(t, err)
	assert.Equal(t, "PHP, JavaScript, Python, Java", p.SkillsSummary)
	assert.Equal(t, 2, p.ExperienceYears)
	assert.Equal(t, "uploads/cv.pdf", p.ResumeLocation)
	assert.Equal(t, a.ID, p.AnalysisID)
}

func TestSubmit_EmptyText(t *testing.T) {
	svc := NewService(newMemRepo(), nil)
	a, err := svc.Submit(context.Background(), SubmitInput{CandidateID: uuid.New(), MimeType: resume.MimeDoc})
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Score)
	assert.Empty(t, a.Skills)
	assert.Equal(t, 0, a.ExperienceYears)
}

func TestSubmit_Validation(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil)

	var ve *ValidationError
	_, err := svc.Submit(context.Background(), SubmitInput{CandidateID: uuid.New(), Text: "x", MimeType: "text/plain"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "mimeType", ve.Field)

	_, err = svc.Submit(context.Background(), SubmitInput{Text: "x", MimeType: resume.MimePDF})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "candidateId", ve.Field)

	assert.Empty(t, repo.items)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("connection reset")
	svc := NewService(repo, nil)
	cid := uuid.New()

	_, err := svc.Submit(context.Background(), SubmitInput{CandidateID: cid, Text: janeResume, MimeType: resume.MimePDF})
	require.Error(t, err)
	assert.ErrorIs(t, err, repo.saveErr)

	_, err = svc.Profile(context.Background(), cid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_IDGeneratorFailure(t *testing.T) {
	boom := errors.New("entropy")
	svc := NewService(newMemRepo(), nil, WithIDGenerator(func() (uuid.UUID, error) { return uuid.Nil, boom }))
	_, err := svc.Submit(context.Background(), SubmitInput{CandidateID: uuid.New(), MimeType: resume.MimePDF})
	assert.ErrorIs(t, err, boom)
}

func TestSequentialSubmissions_ProjectionFollowsLatest(t *testing.T) {
	repo := newMemRepo()
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	svc := NewService(repo, nil, WithClock(fixedClock(t1, t2)))
	cid := uuid.New()
	ctx := context.Background()

	a1, err := svc.Submit(ctx, SubmitInput{CandidateID: cid, Text: "PHP", MimeType: resume.MimePDF})
	require.NoError(t, err)
	a2, err := svc.Submit(ctx, SubmitInput{CandidateID: cid, Text: "Python and Docker\nworked at Acme", MimeType: resume.MimeDocx})
	require.NoError(t, err)

	p, err := svc.Profile(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, "Python, Docker", p.SkillsSummary)
	assert.Equal(t, 2, p.ExperienceYears)
	assert.Equal(t, a2.ID, p.AnalysisID)

	latest, err := svc.Latest(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, a2.ID, latest.ID)

	history, err := svc.History(ctx, cid, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, a2.ID, history[0].ID)
	assert.Equal(t, a1.ID, history[1].ID)
}

func TestLatest_NotFound(t *testing.T) {
	svc := NewService(newMemRepo(), nil)
	_, err := svc.Latest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistory_Paging(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	svc := NewService(repo, nil, WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}))
	cid := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := svc.Submit(context.Background(), SubmitInput{CandidateID: cid, MimeType: resume.MimePDF})
		require.NoError(t, err)
	}

	page, err := svc.History(context.Background(), cid, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(4*time.Minute), page[0].CreatedAt)
	assert.Equal(t, base.Add(3*time.Minute), page[1].CreatedAt)

	page, err = svc.History(context.Background(), cid, 1000, -3)
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestNewer(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lo := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	hi := uuid.MustParse("00000000-0000-7000-8000-000000000002")

	assert.True(t, Newer(Analysis{ID: lo, CreatedAt: at.Add(time.Second)}, at, hi))
	assert.False(t, Newer(Analysis{ID: hi, CreatedAt: at.Add(-time.Second)}, at, lo))
	assert.True(t, Newer(Analysis{ID: hi, CreatedAt: at}, at, lo))
	assert.False(t, Newer(Analysis{ID: lo, CreatedAt: at}, at, hi))
}
