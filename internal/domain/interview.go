package domain

import (
	"fmt"
	"time"
)

// TotalQuestions es la cantidad de preguntas que compone una entrevista completa.
const TotalQuestions = 10

type InterviewStatus string

const (
	StatusActive   InterviewStatus = "active"
	StatusComplete InterviewStatus = "complete"
)

// CandidateProfile es inmutable una vez creada la sesion. El CV se guarda completo;
// los prompts solo usan un prefijo.
type CandidateProfile struct {
	Name           string `json:"name" validate:"required"`
	CVText         string `json:"cv_text" validate:"required"`
	JobTitle       string `json:"job_title,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
}

// InterviewSession es la raiz del agregado de una entrevista.
// Invariantes: len(Responses) == len(STAREvaluations) y
// len(Responses) <= len(QuestionsAsked) <= len(Responses)+1.
type InterviewSession struct {
	ID              string           `json:"id"`
	Profile         CandidateProfile `json:"profile"`
	CurrentQuestion string           `json:"current_question,omitempty"`
	QuestionsAsked  []string         `json:"questions_asked"`
	Responses       []string         `json:"responses"`
	STAREvaluations []STAREvaluation `json:"star_evaluations"`
	Status          InterviewStatus  `json:"status"`
	Feedback        string           `json:"feedback,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewInterviewSession(id string, profile CandidateProfile, now time.Time) *InterviewSession {
	return &InterviewSession{
		ID:              id,
		Profile:         profile,
		QuestionsAsked:  []string{},
		Responses:       []string{},
		STAREvaluations: []STAREvaluation{},
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NextQuestionNumber es el numero (1-based) de la proxima pregunta a generar.
func (s *InterviewSession) NextQuestionNumber() int {
	return len(s.QuestionsAsked) + 1
}

// HasPendingQuestion indica si hay una pregunta emitida sin respuesta registrada.
func (s *InterviewSession) HasPendingQuestion() bool {
	return len(s.QuestionsAsked) > len(s.Responses)
}

// RecordQuestion agrega una pregunta al historial y la marca como actual.
func (s *InterviewSession) RecordQuestion(question string, now time.Time) error {
	if s.Status == StatusComplete {
		return ErrInterviewComplete
	}
	if s.HasPendingQuestion() {
		return fmt.Errorf("record question: question %d is still unanswered", len(s.QuestionsAsked))
	}
	if len(s.QuestionsAsked) >= TotalQuestions {
		return fmt.Errorf("record question: question budget of %d exhausted", TotalQuestions)
	}
	s.QuestionsAsked = append(s.QuestionsAsked, question)
	s.CurrentQuestion = question
	s.UpdatedAt = now
	return nil
}

// RecordResponse agrega la respuesta corregida junto con su evaluacion en un solo paso.
func (s *InterviewSession) RecordResponse(corrected string, eval STAREvaluation, now time.Time) error {
	if s.Status == StatusComplete {
		return ErrInterviewComplete
	}
	if !s.HasPendingQuestion() {
		return ErrNoPendingQuestion
	}
	s.Responses = append(s.Responses, corrected)
	s.STAREvaluations = append(s.STAREvaluations, eval)
	s.UpdatedAt = now
	return nil
}

// MarkComplete cierra la entrevista. La transicion ocurre una sola vez.
func (s *InterviewSession) MarkComplete(now time.Time) bool {
	if s.Status == StatusComplete {
		return false
	}
	s.Status = StatusComplete
	s.UpdatedAt = now
	return true
}

// AverageSTARScore devuelve la media de los puntajes registrados; 5 si no hay ninguno.
func (s *InterviewSession) AverageSTARScore() float64 {
	if len(s.STAREvaluations) == 0 {
		return DefaultSTARScore
	}
	total := 0
	for _, e := range s.STAREvaluations {
		total += e.Score
	}
	return float64(total) / float64(len(s.STAREvaluations))
}

// Clone devuelve una copia profunda, usada para snapshots y escrituras atomicas.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}
	out := *s
	out.QuestionsAsked = append([]string{}, s.QuestionsAsked...)
	out.Responses = append([]string{}, s.Responses...)
	out.STAREvaluations = make([]STAREvaluation, len(s.STAREvaluations))
	for i, e := range s.STAREvaluations {
		out.STAREvaluations[i] = e.Clone()
	}
	return &out
}

// Progress resume el avance de una entrevista.
type Progress struct {
	QuestionsAsked   int             `json:"questions_asked"`
	TotalQuestions   int             `json:"total_questions"`
	AverageSTARScore float64         `json:"average_star_score"`
	Status           InterviewStatus `json:"status"`
	Phase            Phase           `json:"phase"`
	STARGuide        bool            `json:"star_guide"`
}
