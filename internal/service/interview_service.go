package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
	"interview-coach/internal/repository"
)

const reportSaveTimeout = 5 * time.Second

// InterviewService orquesta el ciclo de vida de una entrevista: fases, preguntas,
// procesamiento de respuestas y reporte final.
type InterviewService struct {
	store     repository.SessionStore
	questions *QuestionGenerator
	responses *ResponseProcessor
	feedback  *FeedbackSynthesizer
	reports   repository.ReportRepository
	logger    *zap.Logger
	now       func() time.Time

	feedbackFlight singleflight.Group
}

// NewInterviewService arma el orquestador. reports puede ser nil (sin persistencia).
func NewInterviewService(
	store repository.SessionStore,
	gateway *llm.Gateway,
	reports repository.ReportRepository,
	logger *zap.Logger,
) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{
		store:     store,
		questions: NewQuestionGenerator(gateway, logger),
		responses: NewResponseProcessor(gateway, logger),
		feedback:  NewFeedbackSynthesizer(gateway, logger),
		reports:   reports,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type StartResult struct {
	SessionID      string       `json:"session_id"`
	Question       string       `json:"question"`
	QuestionNumber int          `json:"question_number"`
	Phase          domain.Phase `json:"phase"`
}

// StartSession valida el perfil, crea la sesion y emite la primera pregunta.
func (s *InterviewService) StartSession(ctx context.Context, profile domain.CandidateProfile) (StartResult, error) {
	if err := profile.Validate(); err != nil {
		return StartResult{}, err
	}

	id, err := s.store.Create(ctx, profile)
	if err != nil {
		return StartResult{}, err
	}

	var question string
	err = s.store.Update(ctx, id, func(sess *domain.InterviewSession) error {
		q, err := s.questions.Generate(ctx, sess)
		question = q
		return err
	})
	if err != nil {
		return StartResult{}, err
	}

	s.logger.Info("interview started",
		zap.String("session_id", id),
		zap.String("job_title", profile.JobTitle),
		zap.Bool("has_company", profile.CompanyName != ""),
	)
	return StartResult{
		SessionID:      id,
		Question:       question,
		QuestionNumber: 1,
		Phase:          domain.PhaseFor(1).Phase,
	}, nil
}

type CurrentQuestion struct {
	Question       string       `json:"question"`
	QuestionNumber int          `json:"question_number"`
	Phase          domain.Phase `json:"phase"`
	STARGuide      bool         `json:"star_guide"`
	Complete       bool         `json:"complete"`
}

func (s *InterviewService) CurrentQuestion(ctx context.Context, sessionID string) (CurrentQuestion, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CurrentQuestion{}, err
	}
	number := len(sess.QuestionsAsked)
	phase := domain.PhaseFor(number)
	out := CurrentQuestion{
		Question:       sess.CurrentQuestion,
		QuestionNumber: number,
		Phase:          phase.Phase,
		STARGuide:      phase.STARGuide,
		Complete:       sess.Status == domain.StatusComplete,
	}
	if out.Complete {
		out.Phase = domain.PhaseTerminal
		out.STARGuide = false
	}
	return out, nil
}

type SubmitResult struct {
	CorrectedResponse string                `json:"corrected_response"`
	Evaluation        domain.STAREvaluation `json:"evaluation"`
	Complete          bool                  `json:"complete"`
	NextQuestion      string                `json:"next_question,omitempty"`
	QuestionNumber    int                   `json:"question_number,omitempty"`
	Phase             domain.Phase          `json:"phase,omitempty"`
	STARGuide         bool                  `json:"star_guide"`
}

// SubmitResponse procesa la respuesta a la pregunta pendiente y emite la siguiente,
// o cierra la entrevista si ya se hicieron todas las preguntas.
// expectedQuestion > 0 exige que la respuesta corresponda a esa pregunta.
func (s *InterviewService) SubmitResponse(ctx context.Context, sessionID, text string, expectedQuestion int) (SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return SubmitResult{}, domain.ErrEmptyResponse
	}

	var result SubmitResult
	err := s.store.Update(ctx, sessionID, func(sess *domain.InterviewSession) error {
		if sess.Status == domain.StatusComplete {
			return domain.ErrInterviewComplete
		}
		if expectedQuestion > 0 && expectedQuestion != len(sess.QuestionsAsked) {
			return domain.ErrStaleTurn
		}

		corrected, eval, err := s.responses.Process(ctx, sess, text)
		if err != nil {
			return err
		}
		result.CorrectedResponse = corrected
		result.Evaluation = eval

		if IsComplete(sess) {
			sess.MarkComplete(s.now())
			result.Complete = true
			return nil
		}

		next, err := s.questions.Generate(ctx, sess)
		if err != nil {
			return err
		}
		phase := domain.PhaseFor(len(sess.QuestionsAsked))
		result.NextQuestion = next
		result.QuestionNumber = len(sess.QuestionsAsked)
		result.Phase = phase.Phase
		result.STARGuide = phase.STARGuide
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if result.Complete {
		s.logger.Info("interview complete", zap.String("session_id", sessionID))
	}
	return result, nil
}

// Feedback devuelve el reporte final. Se genera una sola vez y queda guardado en la sesion.
func (s *InterviewService) Feedback(ctx context.Context, sessionID string) (string, error) {
	snapshot, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return s.archivedFeedback(ctx, sessionID)
	}
	if err != nil {
		return "", err
	}
	if snapshot.Status != domain.StatusComplete {
		return "", domain.ErrInterviewNotComplete
	}
	if snapshot.Feedback != "" {
		return snapshot.Feedback, nil
	}

	// Llamadas concurrentes para la misma sesion comparten una sola generacion.
	v, err, _ := s.feedbackFlight.Do(sessionID, func() (interface{}, error) {
		return s.generateFeedback(ctx, sessionID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// generateFeedback sintetiza el reporte fuera del turno y lo publica con UpdateWait.
// Si otra llamada ya lo guardo, devuelve ese.
func (s *InterviewService) generateFeedback(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess.Feedback != "" {
		return sess.Feedback, nil
	}
	text := s.feedback.Synthesize(ctx, sess)

	var (
		stored    string
		committed *domain.InterviewSession
	)
	err = s.store.UpdateWait(ctx, sessionID, func(cur *domain.InterviewSession) error {
		if cur.Feedback == "" {
			cur.Feedback = text
			committed = cur
		}
		stored = cur.Feedback
		return nil
	})
	if err != nil {
		return "", err
	}

	if committed != nil {
		s.saveReport(committed.Clone())
	}
	return stored, nil
}

// archivedFeedback busca el reporte persistido de una sesion que ya salio del store.
func (s *InterviewService) archivedFeedback(ctx context.Context, sessionID string) (string, error) {
	if s.reports == nil {
		return "", domain.ErrSessionNotFound
	}
	report, err := s.reports.GetBySessionID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrReportNotFound) {
			s.logger.Warn("report lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return "", domain.ErrSessionNotFound
	}
	return report.Feedback, nil
}

func (s *InterviewService) Progress(ctx context.Context, sessionID string) (domain.Progress, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Progress{}, err
	}
	phase := domain.PhaseFor(len(sess.QuestionsAsked))
	if sess.Status == domain.StatusComplete {
		phase = domain.PhaseFor(domain.TotalQuestions + 1)
	}
	return domain.Progress{
		QuestionsAsked:   len(sess.QuestionsAsked),
		TotalQuestions:   domain.TotalQuestions,
		AverageSTARScore: sess.AverageSTARScore(),
		Status:           sess.Status,
		Phase:            phase.Phase,
		STARGuide:        phase.STARGuide,
	}, nil
}

// Snapshot devuelve una copia de la sesion completa.
func (s *InterviewService) Snapshot(ctx context.Context, sessionID string) (*domain.InterviewSession, error) {
	return s.store.Get(ctx, sessionID)
}

// saveReport persiste el reporte; las fallas solo se registran en el log.
func (s *InterviewService) saveReport(sess *domain.InterviewSession) {
	if s.reports == nil {
		return
	}
	report := domain.InterviewReport{
		ID:               uuid.NewString(),
		SessionID:        sess.ID,
		CandidateName:    sess.Profile.Name,
		JobTitle:         sess.Profile.JobTitle,
		CompanyName:      sess.Profile.CompanyName,
		QuestionsAsked:   len(sess.QuestionsAsked),
		ResponsesGiven:   len(sess.Responses),
		AverageSTARScore: sess.AverageSTARScore(),
		Feedback:         sess.Feedback,
		Transcript:       sess.Transcript(),
		CreatedAt:        s.now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportSaveTimeout)
	defer cancel()
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Warn("report persist failed", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	s.logger.Info("report persisted", zap.String("session_id", sess.ID), zap.String("report_id", report.ID))
}
