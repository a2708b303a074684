package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
)

const (
	feedbackMaxTokens   = 1500
	feedbackTemperature = 0.5
)

// IsComplete es verdadero cuando ya se emitieron todas las preguntas de la entrevista.
// Se consulta antes de generar una nueva pregunta.
func IsComplete(s *domain.InterviewSession) bool {
	return len(s.QuestionsAsked) >= domain.TotalQuestions
}

// FeedbackSynthesizer produce el reporte final de la entrevista.
type FeedbackSynthesizer struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

func NewFeedbackSynthesizer(gateway *llm.Gateway, logger *zap.Logger) *FeedbackSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackSynthesizer{gateway: gateway, logger: logger}
}

// Synthesize nunca devuelve un reporte vacio: si el LLM falla usa el reporte de respaldo.
func (f *FeedbackSynthesizer) Synthesize(ctx context.Context, s *domain.InterviewSession) string {
	avg := s.AverageSTARScore()
	text, err := f.gateway.GenerateText(ctx, buildFeedbackPrompt(s, avg), feedbackMaxTokens, feedbackTemperature)
	if err != nil {
		f.logger.Warn("feedback generation failed, using fallback report",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		return fallbackFeedback(s)
	}
	return text
}

func fallbackFeedback(s *domain.InterviewSession) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Interview Summary for %s\n\n", s.Profile.Name))
	sb.WriteString(fmt.Sprintf("Questions completed: %d\n", len(s.QuestionsAsked)))
	sb.WriteString(fmt.Sprintf("Responses given: %d\n\n", len(s.Responses)))
	sb.WriteString("Detailed feedback could not be generated right now. To keep improving, practice the STAR method:\n")
	sb.WriteString("- Situation: set the context and background briefly.\n")
	sb.WriteString("- Task: explain what you were responsible for.\n")
	sb.WriteString("- Action: describe the specific steps you took yourself.\n")
	sb.WriteString("- Result: share the outcome, ideally with numbers, and what you learned.\n\n")
	sb.WriteString("Rehearse a handful of stories that follow this structure and adapt them to the questions you are asked.")
	return sb.String()
}
