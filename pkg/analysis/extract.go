package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/artem13815/skillverge/pkg/nlp"
)

// Extraction — результаты четырёх экстракторов и оценка по ним.
type Extraction struct {
	Skills     []string
	Experience []ExperienceItem
	Education  []EducationItem
	Contact    Contact
	Score      float64
}

// Extract runs the extractors concurrently over the same text and scores the result.
// The extractors share no state; the only error is ctx cancellation.
func Extract(ctx context.Context, t nlp.Text) (Extraction, error) {
	var out Extraction
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Skills = ExtractSkills(t)
		return ctx.Err()
	})
	g.Go(func() error {
		out.Experience = ExtractExperience(t)
		return ctx.Err()
	})
	g.Go(func() error {
		out.Education = ExtractEducation(t)
		return ctx.Err()
	})
	g.Go(func() error {
		out.Contact = ExtractContact(t)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return Extraction{}, err
	}
	out.Score = Score(out.Skills, out.Experience, out.Education, out.Contact)
	return out, nil
}
