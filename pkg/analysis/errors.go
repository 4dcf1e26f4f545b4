package analysis

import (
	"errors"

	"github.com/artem13815/skillverge/pkg/resume"
)

// ErrNotFound: у кандидата ещё нет ни одного анализа.
var ErrNotFound = errors.New("analysis not found")

// ValidationError — отказ во входных данных до начала анализа.
type ValidationError = resume.ValidationError
