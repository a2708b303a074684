package service

import (
	"fmt"
	"strings"

	"interview-coach/internal/domain"
)

const (
	firstQuestionCVPrefix = 1000
	cvPrefix              = 800
	jobDescriptionPrefix  = 600
)

// truncateRunes corta s a n runas sin partir caracteres multibyte.
func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func writeJobContext(sb *strings.Builder, p domain.CandidateProfile) {
	sb.WriteString("=== JOB ===\n")
	title := p.JobTitle
	if title == "" {
		title = "Not specified"
	}
	sb.WriteString(fmt.Sprintf("Position: %s\n", title))
	if p.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("Company: %s\n", p.CompanyName))
	}
	if p.JobDescription != "" {
		sb.WriteString(fmt.Sprintf("Job description: %s\n", truncateRunes(p.JobDescription, jobDescriptionPrefix)))
	}
	sb.WriteString("\n")
}

func writeCandidateContext(sb *strings.Builder, p domain.CandidateProfile, cvLimit int) {
	sb.WriteString("=== CANDIDATE ===\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", p.Name))
	sb.WriteString(fmt.Sprintf("CV: %s\n\n", truncateRunes(p.CVText, cvLimit)))
}

// transcriptText formatea los pares respondidos como "Q1: ... / A1: ...".
func transcriptText(s *domain.InterviewSession) string {
	var sb strings.Builder
	for i, q := range s.QuestionsAsked {
		if i >= len(s.Responses) {
			break
		}
		sb.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\n\n", i+1, q, i+1, s.Responses[i]))
	}
	return strings.TrimSpace(sb.String())
}

func buildQuestionPrompt(s *domain.InterviewSession, number int, phase domain.PhaseDescriptor) string {
	var sb strings.Builder

	sb.WriteString("You are an experienced interviewer conducting a live job interview. ")
	sb.WriteString("Speak directly to the candidate as if you were in the room. ")
	sb.WriteString("Do not prefix your words with a name or label such as \"Interviewer:\" and do not add stage directions.\n\n")

	writeJobContext(&sb, s.Profile)

	cvLimit := cvPrefix
	if number == 1 {
		cvLimit = firstQuestionCVPrefix
	}
	writeCandidateContext(&sb, s.Profile, cvLimit)

	if number > 1 {
		if history := transcriptText(s); history != "" {
			sb.WriteString("=== CONVERSATION SO FAR ===\n")
			sb.WriteString(history)
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("=== QUESTION %d OF %d (%s phase) ===\n", number, domain.TotalQuestions, phase.Phase))
	sb.WriteString(phase.Strategy)
	sb.WriteString("\n")
	if number == 1 {
		sb.WriteString("This is the first question: greet the candidate by name and help them feel comfortable.\n")
	} else {
		sb.WriteString("Build on what the candidate already said where it helps, and do not repeat earlier questions.\n")
	}
	sb.WriteString("Ask ONE question only. Be professional and friendly.")

	return sb.String()
}

func buildCorrectionPrompt(raw string) string {
	var sb strings.Builder
	sb.WriteString("Fix the grammar and clarity of the following interview answer, which may come from speech transcription. ")
	sb.WriteString("Preserve the meaning, the first-person voice and all concrete facts. Do not add new content. ")
	sb.WriteString("Return ONLY the corrected text, without quotes or commentary.\n\n")
	sb.WriteString("Answer:\n")
	sb.WriteString(strings.TrimSpace(raw))
	return sb.String()
}

func buildSTARPrompt(question, answer string) string {
	var sb strings.Builder
	sb.WriteString("You are an interview coach scoring an answer with the STAR method ")
	sb.WriteString("(Situation, Task, Action, Result).\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s\n", strings.TrimSpace(question)))
	sb.WriteString(fmt.Sprintf("Answer: %s\n\n", strings.TrimSpace(answer)))
	sb.WriteString("Return ONLY a JSON object with this exact schema:\n")
	sb.WriteString(`{
  "star_score": <integer 0-10>,
  "missing_elements": [<subset of "situation", "task", "action", "result">],
  "strengths": ["<short strength>", ...],
  "suggestions": ["<short actionable suggestion>", ...],
  "breakdown": {"situation": "found|missing", "task": "found|missing", "action": "found|missing", "result": "found|missing"}
}`)
	return sb.String()
}

func buildFeedbackPrompt(s *domain.InterviewSession, avgScore float64) string {
	var sb strings.Builder
	sb.WriteString("You are a senior interview coach. Write a comprehensive feedback report for the mock interview below.\n\n")

	writeJobContext(&sb, s.Profile)
	writeCandidateContext(&sb, s.Profile, cvPrefix)

	sb.WriteString("=== INTERVIEW TRANSCRIPT ===\n")
	if history := transcriptText(s); history != "" {
		sb.WriteString(history)
	} else {
		sb.WriteString("(no answers recorded)")
	}
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Questions asked: %d. Answers given: %d. Average STAR score: %.1f/10.\n\n",
		len(s.QuestionsAsked), len(s.Responses), avgScore))

	sb.WriteString("Structure the report with these sections:\n")
	sb.WriteString("1. Overall performance\n")
	sb.WriteString("2. Job fit assessment\n")
	sb.WriteString("3. STAR method analysis\n")
	sb.WriteString("4. Strengths\n")
	sb.WriteString("5. Areas for improvement\n")
	sb.WriteString("6. Action items\n")
	sb.WriteString("7. Closing remarks\n")
	sb.WriteString("Address the candidate by name. Keep it constructive, specific and grounded in the transcript.")
	return sb.String()
}
