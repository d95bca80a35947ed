package domain

import "fmt"

// NotFoundError is returned when no todo exists for the requested id. The
// transport layer translates it to 404.
type NotFoundError struct {
	TodoID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the requested todo is not found (id=%d)", e.TodoID)
}

// BusinessRuleError signals a violated business rule: the unfinished-item cap
// at creation, or finishing an already finished todo. Translated to 409.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}
