package analysis

import (
	"regexp"

	"github.com/artem13815/skillverge/pkg/nlp"
)

// Keyword, "of"/"in" and field of study may sit on separate lines; the field ends at the line break.
var educationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:bachelor(?:'s)?|b\.?tech|b\.?e\.?|b\.?sc\.?|b\.?a\.?)\s+(?:(?:of|in)\s+)?[A-Za-z][A-Za-z \t]*`),
	regexp.MustCompile(`(?i)\b(?:master(?:'s)?|m\.?tech|m\.?e\.?|m\.?sc\.?|m\.?a\.?|mba)\s+(?:(?:of|in)\s+)?[A-Za-z][A-Za-z \t]*`),
}

// ExtractEducation находит фразы о степенях; вся найденная фраза становится Degree.
// Учебное заведение и год — заглушки с Heuristic=true.
func ExtractEducation(t nlp.Text) []EducationItem {
	items := []EducationItem{}
	for _, re := range educationPatterns {
		for _, m := range re.FindAllString(t.Raw, -1) {
			degree := nlp.CollapseSpaces(m)
			if degree == "" {
				continue
			}
			items = append(items, EducationItem{
				Degree:      degree,
				Institution: PlaceholderInstitution,
				Year:        PlaceholderYear,
				Heuristic:   true,
			})
		}
	}
	return items
}
