package domain

import "time"

// InterviewReport es el registro persistido de una entrevista terminada.
type InterviewReport struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	CandidateName    string    `json:"candidate_name"`
	JobTitle         string    `json:"job_title,omitempty"`
	CompanyName      string    `json:"company_name,omitempty"`
	QuestionsAsked   int       `json:"questions_asked"`
	ResponsesGiven   int       `json:"responses_given"`
	AverageSTARScore float64   `json:"average_star_score"`
	Feedback         string    `json:"feedback"`
	Transcript       []QA      `json:"transcript"`
	CreatedAt        time.Time `json:"created_at"`
}

// QA empareja una pregunta con su respuesta corregida y su evaluacion.
type QA struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer,omitempty"`
	Evaluation *STAREvaluation `json:"evaluation,omitempty"`
}

// Transcript arma los pares pregunta/respuesta en orden; la ultima pregunta puede no tener respuesta.
func (s *InterviewSession) Transcript() []QA {
	out := make([]QA, 0, len(s.QuestionsAsked))
	for i, q := range s.QuestionsAsked {
		item := QA{Question: q}
		if i < len(s.Responses) {
			item.Answer = s.Responses[i]
			eval := s.STAREvaluations[i].Clone()
			item.Evaluation = &eval
		}
		out = append(out, item)
	}
	return out
}
