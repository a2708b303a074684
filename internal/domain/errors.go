package domain

import (
	"errors"
	"strings"
)

var (
	ErrSessionNotFound      = errors.New("interview session not found")
	ErrSessionBusy          = errors.New("interview session is processing another turn")
	ErrInterviewComplete    = errors.New("interview already complete")
	ErrInterviewNotComplete = errors.New("interview not complete yet")
	ErrNoPendingQuestion    = errors.New("no pending question to answer")
	ErrStaleTurn            = errors.New("response does not match the current question")
	ErrEmptyResponse        = errors.New("response text is empty")
)

// ValidationError reporta los campos obligatorios ausentes o invalidos del perfil.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid candidate profile: " + strings.Join(e.Fields, ", ")
}
