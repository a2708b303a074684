package service

import (
	"context"
	"errors"
	"testing"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
)

func pendingSession() *domain.InterviewSession {
	s := domain.NewInterviewSession("s1", testProfile(), testNow())
	_ = s.RecordQuestion("Tell me about a time you fixed an outage.", testNow())
	return s
}

func TestResponseProcessor_CorrectsAndScores(t *testing.T) {
	mock := &llm.MockClient{Responses: []string{"Corrected: I led the incident response.", validSTARJSON}}
	p := NewResponseProcessor(newTestGateway(mock), nil)
	s := pendingSession()

	corrected, eval, err := p.Process(context.Background(), s, "i leaded the incident respons")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if corrected != "I led the incident response." {
		t.Fatalf("unexpected correction %q", corrected)
	}
	if eval.Score != 8 || eval.Fallback {
		t.Fatalf("unexpected evaluation %+v", eval)
	}
	if len(s.Responses) != 1 || s.Responses[0] != corrected || s.STAREvaluations[0].Score != 8 {
		t.Fatalf("response not recorded: %+v", s)
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 llm calls, got %d", len(calls))
	}
	if calls[0].Opts.MaxTokens != correctionMaxTokens || calls[0].Opts.Temperature != correctionTemperature {
		t.Fatalf("unexpected correction options %+v", calls[0].Opts)
	}
	if calls[1].Opts.MaxTokens != starMaxTokens || calls[1].Opts.Temperature != starTemperature {
		t.Fatalf("unexpected star options %+v", calls[1].Opts)
	}
}

func TestResponseProcessor_AllFailuresAreSoft(t *testing.T) {
	p := NewResponseProcessor(newTestGateway(&llm.MockClient{Err: errLLMDown}), nil)
	s := pendingSession()

	raw := "I restarted the service and wrote a postmortem"
	corrected, eval, err := p.Process(context.Background(), s, raw)
	if err != nil {
		t.Fatalf("failures must not surface: %v", err)
	}
	if corrected != raw {
		t.Fatalf("expected raw text kept, got %q", corrected)
	}
	if eval.Score != domain.DefaultSTARScore || !eval.Fallback {
		t.Fatalf("expected neutral evaluation, got %+v", eval)
	}
	if len(s.Responses) != 1 || len(s.STAREvaluations) != 1 {
		t.Fatalf("exactly one response and evaluation must be recorded")
	}
}

func TestResponseProcessor_UnparseableSTARUsesDefault(t *testing.T) {
	mock := &llm.MockClient{Responses: []string{"Fine answer.", "Score: eight out of ten"}}
	p := NewResponseProcessor(newTestGateway(mock), nil)

	_, eval, err := p.Process(context.Background(), pendingSession(), "fine answer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eval.Fallback || eval.Score != domain.DefaultSTARScore {
		t.Fatalf("expected default evaluation, got %+v", eval)
	}
}

func TestResponseProcessor_CleanAnswerIsKeptVerbatim(t *testing.T) {
	raw := "I migrated our billing service to Go and cut latency by 40%."
	mock := &llm.MockClient{Responses: []string{"\"" + raw + "\"", validSTARJSON}}
	p := NewResponseProcessor(newTestGateway(mock), nil)

	corrected, _, err := p.Process(context.Background(), pendingSession(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if corrected != raw {
		t.Fatalf("expected unchanged answer, got %q", corrected)
	}
}

func TestResponseProcessor_Rejections(t *testing.T) {
	p := NewResponseProcessor(newTestGateway(&llm.MockClient{Response: "x"}), nil)

	if _, _, err := p.Process(context.Background(), pendingSession(), "  \n "); !errors.Is(err, domain.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	s := domain.NewInterviewSession("s1", testProfile(), testNow())
	if _, _, err := p.Process(context.Background(), s, "answer"); !errors.Is(err, domain.ErrNoPendingQuestion) {
		t.Fatalf("expected ErrNoPendingQuestion, got %v", err)
	}
	if len(s.Responses) != 0 {
		t.Fatalf("nothing must be recorded on rejection")
	}
}
