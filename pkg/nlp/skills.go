package nlp

// Category groups canonical skill labels under a display heading.
type Category struct {
	Name   string
	Labels []string
}

// Taxonomy is the fixed category -> skill label table used for substring matching.
// Declaration order is the display order of matched skills.
var Taxonomy = []Category{
	{Name: "Programming", Labels: []string{"PHP", "JavaScript", "Python", "Java", "C++", "C#", "Ruby", "Go", "Rust", "Swift"}},
	{Name: "Web Technologies", Labels: []string{"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express", "Laravel", "Django"}},
	{Name: "Databases", Labels: []string{"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server"}},
	{Name: "Cloud", Labels: []string{"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Terraform"}},
	{Name: "Tools", Labels: []string{"Git", "Jenkins", "JIRA", "Slack", "Photoshop", "Figma"}},
}

// Labels returns every taxonomy label in declaration order.
func Labels() []string {
	var out []string
	for _, c := range Taxonomy {
		out = append(out, c.Labels...)
	}
	return out
}

// CategoryOf returns the category name a canonical label belongs to.
func CategoryOf(label string) (string, bool) {
	for _, c := range Taxonomy {
		for _, l := range c.Labels {
			if l == label {
				return c.Name, true
			}
		}
	}
	return "", false
}
