package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
)

const (
	correctionMaxTokens   = 600
	correctionTemperature = 0.2
	starMaxTokens         = 500
	starTemperature       = 0.2
)

// ResponseProcessor corrige la respuesta, la puntua con la rubrica STAR y registra ambas cosas.
type ResponseProcessor struct {
	gateway *llm.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewResponseProcessor(gateway *llm.Gateway, logger *zap.Logger) *ResponseProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseProcessor{
		gateway: gateway,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Process registra exactamente una respuesta y una evaluacion por llamada.
// Ambos pasos son fail-soft: sin correccion se guarda el texto crudo y sin
// puntaje se guarda la evaluacion neutral.
func (p *ResponseProcessor) Process(ctx context.Context, session *domain.InterviewSession, raw string) (string, domain.STAREvaluation, error) {
	if strings.TrimSpace(raw) == "" {
		return "", domain.STAREvaluation{}, domain.ErrEmptyResponse
	}
	if !session.HasPendingQuestion() {
		return "", domain.STAREvaluation{}, domain.ErrNoPendingQuestion
	}
	question := session.QuestionsAsked[len(session.QuestionsAsked)-1]

	corrected := p.correct(ctx, session.ID, raw)
	eval := p.score(ctx, session.ID, question, corrected)

	if err := session.RecordResponse(corrected, eval, p.now()); err != nil {
		return "", domain.STAREvaluation{}, err
	}
	p.logger.Info("response recorded",
		zap.String("session_id", session.ID),
		zap.Int("question_number", len(session.Responses)),
		zap.Int("star_score", eval.Score),
		zap.Bool("star_fallback", eval.Fallback),
	)
	return corrected, eval, nil
}

func (p *ResponseProcessor) correct(ctx context.Context, sessionID, raw string) string {
	out, err := p.gateway.GenerateText(ctx, buildCorrectionPrompt(raw), correctionMaxTokens, correctionTemperature)
	if err != nil {
		p.logger.Warn("response correction failed, keeping raw text",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return raw
	}
	corrected := cleanCorrectionText(out)
	if corrected == "" || corrected == strings.TrimSpace(raw) {
		return raw
	}
	return corrected
}

func (p *ResponseProcessor) score(ctx context.Context, sessionID, question, answer string) domain.STAREvaluation {
	var schema starSchema
	err := p.gateway.GenerateStructured(ctx, buildSTARPrompt(question, answer), starMaxTokens, starTemperature, &schema)
	if err != nil {
		p.logger.Warn("star scoring failed, using neutral evaluation",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return domain.DefaultSTAREvaluation()
	}
	return schema.out
}
