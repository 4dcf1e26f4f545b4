package analysis

import "math"

const (
	skillPoints      = 2.0
	skillCap         = 40.0
	experiencePoints = 10.0
	experienceCap    = 30.0
	educationPoints  = 20.0
	educationCap     = 20.0
	contactPoints    = 2.5
	MaxScore         = 10.0
)

// Диапазоны оценки для отображения.
const (
	BandStrong = "strong"
	BandFair   = "fair"
	BandWeak   = "weak"
)

// Score вычисляет итоговую оценку в диапазоне [0, 10] только по результатам экстракторов.
func Score(skills []string, experience []ExperienceItem, education []EducationItem, contact Contact) float64 {
	total := math.Min(float64(len(skills))*skillPoints, skillCap) +
		math.Min(float64(len(experience))*experiencePoints, experienceCap) +
		math.Min(float64(len(education))*educationPoints, educationCap) +
		float64(len(contact))*contactPoints
	return math.Min(total/10, MaxScore)
}

// Band maps a score to strong (>= 7), fair (>= 5) or weak.
func Band(score float64) string {
	switch {
	case score >= 7:
		return BandStrong
	case score >= 5:
		return BandFair
	default:
		return BandWeak
	}
}
