package nlp

import (
	"strings"
)

// ContainsFold проверяет вхождение метки в текст без учёта регистра.
// Сопоставление — чистая подстрока, без границ слов: "Java" найдётся внутри "JavaScript".
func ContainsFold(t Text, label string) bool {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return false
	}
	return strings.Contains(t.Lower, needle)
}
