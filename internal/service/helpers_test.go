package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
	"interview-coach/internal/repository"
)

const (
	validSTARJSON = `{"star_score": 8, "missing_elements": ["result"], "strengths": ["Clear context"], "suggestions": ["Quantify the outcome"], "breakdown": {"situation": "found", "task": "found", "action": "found", "result": "missing"}}`
)

var errLLMDown = errors.New("llm down")

func testProfile() domain.CandidateProfile {
	return domain.CandidateProfile{
		Name:        "Jane Doe",
		CVText:      "Backend developer with 5 years of Go, Postgres and Kubernetes.",
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
	}
}

func newTestGateway(client llm.LLMClient) *llm.Gateway {
	return llm.NewGateway(client, time.Second, nil)
}

type promptKind int

const (
	kindUnknown promptKind = iota
	kindQuestion
	kindCorrection
	kindSTAR
	kindFeedback
)

func classifyPrompt(prompt string) promptKind {
	switch {
	case strings.HasPrefix(prompt, "You are an experienced interviewer"):
		return kindQuestion
	case strings.HasPrefix(prompt, "Fix the grammar"):
		return kindCorrection
	case strings.HasPrefix(prompt, "You are an interview coach scoring"):
		return kindSTAR
	case strings.HasPrefix(prompt, "You are a senior interview coach"):
		return kindFeedback
	}
	return kindUnknown
}

// scriptedLLM responde segun el tipo de prompt y cuenta las llamadas por tipo.
func scriptedLLM() *llm.MockClient {
	var (
		mu        sync.Mutex
		questions int
	)
	return &llm.MockClient{Handler: func(prompt string, _ llm.Options) (string, error) {
		switch classifyPrompt(prompt) {
		case kindQuestion:
			mu.Lock()
			questions++
			n := questions
			mu.Unlock()
			return "Interviewer: Question number " + itoa(n) + "?", nil
		case kindCorrection:
			answer := prompt[strings.LastIndex(prompt, "Answer:\n")+len("Answer:\n"):]
			return "Corrected: " + strings.TrimSpace(answer) + " (polished)", nil
		case kindSTAR:
			return validSTARJSON, nil
		case kindFeedback:
			return "Great job overall, Jane Doe.", nil
		}
		return "", errors.New("unexpected prompt")
	}}
}

func itoa(n int) string {
	const digits = "0123456789"
	if n < 10 {
		return string(digits[n])
	}
	return itoa(n/10) + string(digits[n%10])
}

func countCalls(m *llm.MockClient, kind promptKind) int {
	n := 0
	for _, c := range m.Calls() {
		if classifyPrompt(c.Prompt) == kind {
			n++
		}
	}
	return n
}

// fakeReportRepo guarda reportes en memoria para los tests.
type fakeReportRepo struct {
	mu      sync.Mutex
	saved   []domain.InterviewReport
	saveErr error
}

func (r *fakeReportRepo) Save(_ context.Context, report domain.InterviewReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, report)
	return nil
}

func (r *fakeReportRepo) GetBySessionID(_ context.Context, sessionID string) (domain.InterviewReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.saved {
		if rep.SessionID == sessionID {
			return rep, nil
		}
	}
	return domain.InterviewReport{}, repository.ErrReportNotFound
}

func (r *fakeReportRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func sessionWithAnswers(n int) *domain.InterviewSession {
	s := domain.NewInterviewSession("s1", testProfile(), time.Now().UTC())
	for i := 0; i < n; i++ {
		_ = s.RecordQuestion("question "+itoa(i+1), time.Now().UTC())
		_ = s.RecordResponse("answer "+itoa(i+1), domain.STAREvaluation{Score: 6}, time.Now().UTC())
	}
	return s
}

func testNow() time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}
