package nlp

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Text — нормализованное представление извлечённого текста резюме.
// Raw хранится без изменений (именно он сохраняется в истории анализов),
// Lower используется для регистронезависимого сопоставления.
type Text struct {
	Raw   string
	Lower string
}

// Normalize приводит текст к виду для сопоставления:
// - Raw остаётся байт-в-байт исходным
// - Lower — нижний регистр исходного текста, без иных изменений
func Normalize(raw string) Text {
	return Text{Raw: raw, Lower: strings.ToLower(raw)}
}

// Empty reports whether the text has no visible content.
func (t Text) Empty() bool {
	return strings.TrimSpace(t.Raw) == ""
}

// CollapseSpaces схлопывает любые пробельные последовательности в один пробел и обрезает края.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
