package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
	"interview-coach/internal/logger"
)

const questionMaxTokens = 200

// QuestionGenerator compone el prompt de la fase, llama al LLM y registra la pregunta.
type QuestionGenerator struct {
	gateway *llm.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewQuestionGenerator(gateway *llm.Gateway, logger *zap.Logger) *QuestionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionGenerator{
		gateway: gateway,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Generate agrega la siguiente pregunta a la sesion. Las fallas del LLM nunca se propagan:
// se usa una pregunta de respaldo que igual cuenta para el total de la entrevista.
// Solo devuelve error si la sesion no admite otra pregunta.
func (g *QuestionGenerator) Generate(ctx context.Context, session *domain.InterviewSession) (string, error) {
	number := session.NextQuestionNumber()
	if number > domain.TotalQuestions || session.Status == domain.StatusComplete {
		return "", domain.ErrInterviewComplete
	}
	if session.HasPendingQuestion() {
		return "", fmt.Errorf("generate question: question %d is still unanswered", number-1)
	}
	phase := domain.PhaseFor(number)

	prompt := buildQuestionPrompt(session, number, phase)
	question, err := g.gateway.GenerateText(ctx, prompt, questionMaxTokens, questionTemperature(number))
	if err == nil {
		question = cleanQuestionText(question)
		if question == "" {
			err = &llm.GenerationError{Op: "question", Err: errors.New("empty question after cleaning")}
		}
	}
	if err != nil {
		g.logger.Warn("question generation failed, using fallback",
			zap.String("session_id", session.ID),
			zap.Int("question_number", number),
			zap.String("phase", string(phase.Phase)),
			zap.Error(err),
		)
		question = fallbackQuestion(session.Profile, number)
	}

	if err := session.RecordQuestion(question, g.now()); err != nil {
		return "", err
	}
	g.logger.Info("question issued",
		zap.String("session_id", session.ID),
		zap.Int("question_number", number),
		zap.String("phase", string(phase.Phase)),
		zap.String("question", logger.TruncateForLog(question, 120)),
	)
	return question, nil
}

// questionTemperature: el primer contacto es el mas sobrio; behavioral y technical
// admiten mas variedad.
func questionTemperature(number int) float64 {
	if number == 1 {
		return 0.5
	}
	switch domain.PhaseFor(number).Phase {
	case domain.PhaseBehavioral:
		return 0.8
	case domain.PhaseTechnical:
		return 0.75
	default:
		return 0.6
	}
}

var fallbackTemplates = map[domain.Phase][]string{
	domain.PhaseOpening: {
		"Hi %[1]s, thanks for joining today. To get us started, could you walk me through your background and what draws you to %[2]s?",
		"%[1]s, what motivates you most about %[2]s, and how does it fit where you want your career to go?",
		"%[1]s, which parts of your experience make you a strong fit for %[2]s?",
	},
	domain.PhaseBehavioral: {
		"%[1]s, tell me about a time you faced a significant challenge at work that is relevant to %[2]s. What was the situation, what did you do, and what was the result?",
		"%[1]s, describe a situation where you had to work with a difficult stakeholder or teammate, the kind of collaboration %[2]s depends on. What was your task, how did you handle it, and what was the outcome?",
		"%[1]s, tell me about a time you had to deliver under a tight deadline, as often happens in %[2]s. Which actions did you take, and how did it turn out?",
	},
	domain.PhaseTechnical: {
		"%[1]s, which technical skills from your CV matter most for %[2]s, and how have you applied them recently?",
		"%[1]s, walk me through a complex problem you solved that required the kind of expertise %[2]s calls for. How did you approach it?",
	},
	domain.PhaseClosing: {
		"%[1]s, where do you see yourself growing over the next few years, and how would %[2]s support that?",
		"%[1]s, thinking about %[2]s, what would you bring to the team and its culture, and is there anything you would like to ask us?",
	},
}

var phaseFirstQuestion = map[domain.Phase]int{
	domain.PhaseOpening:    1,
	domain.PhaseBehavioral: 4,
	domain.PhaseTechnical:  7,
	domain.PhaseClosing:    9,
}

// fallbackQuestion es deterministica: depende solo del perfil y del numero de pregunta.
func fallbackQuestion(p domain.CandidateProfile, number int) string {
	phase := domain.PhaseFor(number).Phase
	templates, ok := fallbackTemplates[phase]
	if !ok {
		templates = fallbackTemplates[domain.PhaseClosing]
		phase = domain.PhaseClosing
	}
	idx := (number - phaseFirstQuestion[phase]) % len(templates)
	if idx < 0 {
		idx = 0
	}
	return fmt.Sprintf(templates[idx], p.Name, positionRef(p))
}

// positionRef: "the Backend Engineer position at Acme", "this position", etc.
func positionRef(p domain.CandidateProfile) string {
	ref := "this position"
	if p.JobTitle != "" {
		ref = "the " + p.JobTitle + " position"
	}
	if p.CompanyName != "" {
		ref += " at " + p.CompanyName
	}
	return ref
}
