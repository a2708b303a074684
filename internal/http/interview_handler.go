package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-coach/internal/domain"
	"interview-coach/internal/service"
)

// InterviewHandler expone la API de sesion de entrevista.
type InterviewHandler struct {
	logger     *zap.Logger
	interviews *service.InterviewService
	tokens     *service.SessionTokenService
	limiter    service.StartRateLimiter
}

// NewInterviewHandler crea el handler. limiter puede ser nil (sin limite).
func NewInterviewHandler(
	logger *zap.Logger,
	interviews *service.InterviewService,
	tokens *service.SessionTokenService,
	limiter service.StartRateLimiter,
) *InterviewHandler {
	return &InterviewHandler{
		logger:     logger,
		interviews: interviews,
		tokens:     tokens,
		limiter:    limiter,
	}
}

// StartInterview maneja POST /interviews.
func (h *InterviewHandler) StartInterview(c *gin.Context) {
	var req struct {
		Name           string `json:"name"`
		CVText         string `json:"cv_text"`
		JobTitle       string `json:"job_title"`
		JobDescription string `json:"job_description"`
		CompanyName    string `json:"company_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid start interview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	profile, err := domain.NewCandidateProfile(req.Name, req.CVText, req.JobTitle, req.JobDescription, req.CompanyName)
	if err != nil {
		h.writeError(c, err)
		return
	}

	started, err := h.interviews.StartSession(c.Request.Context(), profile)
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(started.SessionID)
	if err != nil {
		h.logger.Error("issue session token failed", zap.Error(err), zap.String("session_id", started.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id":       started.SessionID,
		"access_token":     token,
		"token_expires_at": expiresAt,
		"question":         started.Question,
		"question_number":  started.QuestionNumber,
		"phase":            started.Phase,
	})
}

// GetSession maneja GET /interviews/:id.
func (h *InterviewHandler) GetSession(c *gin.Context) {
	sess, err := h.interviews.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	// El CV completo no vuelve al cliente.
	sess.Profile.CVText = ""
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// GetCurrentQuestion maneja GET /interviews/:id/question.
func (h *InterviewHandler) GetCurrentQuestion(c *gin.Context) {
	q, err := h.interviews.CurrentQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// SubmitResponse maneja POST /interviews/:id/responses.
func (h *InterviewHandler) SubmitResponse(c *gin.Context) {
	var req struct {
		Text           string `json:"text" binding:"required"`
		QuestionNumber int    `json:"question_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit response request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.interviews.SubmitResponse(c.Request.Context(), c.Param("id"), req.Text, req.QuestionNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFeedback maneja GET /interviews/:id/feedback.
func (h *InterviewHandler) GetFeedback(c *gin.Context) {
	text, err := h.interviews.Feedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": text})
}

// GetProgress maneja GET /interviews/:id/progress.
func (h *InterviewHandler) GetProgress(c *gin.Context) {
	progress, err := h.interviews.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *InterviewHandler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile", "fields": verr.Fields})
	case errors.Is(err, domain.ErrEmptyResponse):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, domain.ErrSessionBusy),
		errors.Is(err, domain.ErrStaleTurn),
		errors.Is(err, domain.ErrInterviewComplete),
		errors.Is(err, domain.ErrInterviewNotComplete),
		errors.Is(err, domain.ErrNoPendingQuestion):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("interview request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
