package resume

import "fmt"

// ValidationError — отказ во входных данных (тип файла, размер, пустая загрузка).
// Это ошибка клиента, а не системы: обработчики отвечают 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
