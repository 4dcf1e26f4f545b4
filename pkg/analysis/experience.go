package analysis

import (
	"regexp"
	"strings"

	"github.com/artem13815/skillverge/pkg/nlp"
)

// The keyword may be separated from the company by any whitespace, line breaks included.
// The company itself is a run of letters, '&' and blanks that ends at the line break.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:worked at|employed at|experience at)\s+([A-Za-z&][A-Za-z& \t]*)`),
	regexp.MustCompile(`(?i)(?:software engineer|developer|analyst|manager)\s+at\s+([A-Za-z&][A-Za-z& \t]*)`),
}

// ExtractExperience находит упоминания работодателей.
// Должность и длительность не извлекаются: подставляются заглушки с Heuristic=true.
func ExtractExperience(t nlp.Text) []ExperienceItem {
	items := []ExperienceItem{}
	for _, re := range experiencePatterns {
		for _, m := range re.FindAllStringSubmatch(t.Raw, -1) {
			company := strings.TrimSpace(m[1])
			if company == "" {
				continue
			}
			items = append(items, ExperienceItem{
				Company:   company,
				Position:  PlaceholderPosition,
				Duration:  PlaceholderDuration,
				Heuristic: true,
			})
		}
	}
	return items
}

// ExperienceYears is a fixed two years per experience entry, not a real duration sum.
func ExperienceYears(experience []ExperienceItem) int {
	return len(experience) * 2
}
