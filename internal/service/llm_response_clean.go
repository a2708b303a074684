package service

import (
	"regexp"
	"strings"

	"interview-coach/internal/llm"
)

var speakerPrefix = regexp.MustCompile(`(?i)^\s*(?:\*\*)?(?:interviewer|question|q\d*)\s*(?:\d+)?\s*[:.)-]\s*(?:\*\*)?\s*`)

// cleanQuestionText quita fences, comillas envolventes y prefijos de hablante ("Interviewer:", "Q3:").
func cleanQuestionText(raw string) string {
	s := llm.CleanFences(raw)
	s = speakerPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(trimWrappingQuotes(s))
}

// cleanCorrectionText quita fences, comillas envolventes y un posible encabezado "Corrected:".
func cleanCorrectionText(raw string) string {
	s := llm.CleanFences(raw)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"corrected text:", "corrected answer:", "corrected:"} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(trimWrappingQuotes(strings.TrimSpace(s)))
}

func trimWrappingQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			inner := s[len(pair[0]) : len(s)-len(pair[1])]
			if !strings.Contains(inner, pair[0]) || pair[0] != pair[1] {
				return strings.TrimSpace(inner)
			}
		}
	}
	return s
}
