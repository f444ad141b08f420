package search

import "fmt"

type SearchError struct {
	Code    string
	Message string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SearchError) Is(target error) bool {
	t, ok := target.(*SearchError)
	return ok && t.Code == e.Code
}

var (
	ErrPsychologistNotFound = &SearchError{Code: "psychologistNotFound", Message: "psychologist not indexed"}
	ErrInvalidCriteria      = &SearchError{Code: "invalidCriteria", Message: "invalid search criteria"}
)

func invalidCriteria(format string, args ...any) error {
	return &SearchError{Code: ErrInvalidCriteria.Code, Message: fmt.Sprintf(format, args...)}
}
