package service

import (
	"context"
	"strings"
	"testing"

	"interview-coach/internal/domain"
	"interview-coach/internal/llm"
)

func TestIsComplete(t *testing.T) {
	if IsComplete(sessionWithAnswers(domain.TotalQuestions - 1)) {
		t.Fatalf("9 questions must not be complete")
	}
	if !IsComplete(sessionWithAnswers(domain.TotalQuestions)) {
		t.Fatalf("10 questions must be complete")
	}
}

func TestFeedbackSynthesizer_UsesLLM(t *testing.T) {
	mock := &llm.MockClient{Response: "  Overall performance: strong.  "}
	f := NewFeedbackSynthesizer(newTestGateway(mock), nil)

	text := f.Synthesize(context.Background(), sessionWithAnswers(domain.TotalQuestions))
	if text != "Overall performance: strong." {
		t.Fatalf("unexpected feedback %q", text)
	}
	call := mock.Calls()[0]
	if call.Opts.MaxTokens != feedbackMaxTokens || call.Opts.Temperature != feedbackTemperature {
		t.Fatalf("unexpected options %+v", call.Opts)
	}
	if !strings.Contains(call.Prompt, "Average STAR score: 6.0/10") {
		t.Fatalf("prompt must carry the average score")
	}
}

func TestFeedbackSynthesizer_FallbackReport(t *testing.T) {
	f := NewFeedbackSynthesizer(newTestGateway(&llm.MockClient{Err: errLLMDown}), nil)

	text := f.Synthesize(context.Background(), sessionWithAnswers(domain.TotalQuestions))
	for _, want := range []string{"Jane Doe", "Questions completed: 10", "Responses given: 10", "STAR"} {
		if !strings.Contains(text, want) {
			t.Fatalf("fallback report must contain %q:\n%s", want, text)
		}
	}
}
