package service

import "fmt"

const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeAlreadyExists = "ALREADY_EXISTS"
)

type RepoType string

const (
	UserResource RepoType = "user"
	TaskResource RepoType = "task"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

// сообщения уходят клиенту как есть, клиенты сверяют их текст
func NewNotFound(resource RepoType, id string, message string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: message,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(message string, fields ...string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: message,
		Details: map[string]any{
			"fields": fields,
		},
	}
}

func NewAlreadyExists(resource RepoType, id string, message string) *BusinessError {
	return &BusinessError{
		Code:    CodeAlreadyExists,
		Message: message,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}
