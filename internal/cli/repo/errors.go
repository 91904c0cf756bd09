package repo

import (
	"errors"
	"fmt"
)

// Describer — ошибка с текстом, пригодным для показа пользователю.
type Describer interface {
	error
	Description() string
}

type missingIDError struct{}

func (missingIDError) Error() string { return "medicine has no id" }

func (missingIDError) Description() string {
	return "cannot update this medicine (missing identifier)"
}

// ErrMissingID — операция требует сохранённый медикамент.
var ErrMissingID error = missingIDError{}

// NetworkError — любая ошибка хранилища или транспорта.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network: %v", e.Err)
	}
	return fmt.Sprintf("%s: network: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Description() string {
	return "server connection problem, try again later"
}

// Network заворачивает err в *NetworkError; nil остаётся nil.
func Network(op string, err error) error {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}

// UnexpectedError — ошибка без описания для пользователя; Message — запасной текст операции.
type UnexpectedError struct {
	Message string
	Err     error
}

func (e *UnexpectedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

func (e *UnexpectedError) Description() string { return e.Message }

// Normalize приводит любую ошибку к Describer: своё описание, если оно есть, иначе fallback.
func Normalize(err error, fallback string) Describer {
	if err == nil {
		return nil
	}
	var d Describer
	if errors.As(err, &d) {
		return d
	}
	return &UnexpectedError{Message: fallback, Err: err}
}
