package analysis

import "github.com/artem13815/skillverge/pkg/nlp"

// ExtractSkills возвращает канонические метки навыков, найденные в тексте,
// без повторов и в порядке объявления таксономии.
func ExtractSkills(t nlp.Text) []string {
	skills := []string{}
	seen := make(map[string]struct{})
	for _, category := range nlp.Taxonomy {
		for _, label := range category.Labels {
			if _, ok := seen[label]; ok {
				continue
			}
			if nlp.ContainsFold(t, label) {
				seen[label] = struct{}{}
				skills = append(skills, label)
			}
		}
	}
	return skills
}
