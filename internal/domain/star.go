package domain

import "strings"

// DefaultSTARScore es el puntaje neutral usado cuando no hay evaluacion real.
const DefaultSTARScore = 5

type STARElement string

const (
	STARSituation STARElement = "situation"
	STARTask      STARElement = "task"
	STARAction    STARElement = "action"
	STARResult    STARElement = "result"
)

// STARElements en el orden canonico de la rubrica.
var STARElements = []STARElement{STARSituation, STARTask, STARAction, STARResult}

// ParseSTARElement normaliza una etiqueta de la rubrica.
func ParseSTARElement(raw string) (STARElement, bool) {
	switch STARElement(strings.ToLower(strings.TrimSpace(raw))) {
	case STARSituation:
		return STARSituation, true
	case STARTask:
		return STARTask, true
	case STARAction:
		return STARAction, true
	case STARResult:
		return STARResult, true
	}
	return "", false
}

type ElementStatus string

const (
	ElementFound   ElementStatus = "found"
	ElementMissing ElementStatus = "missing"
	ElementUnknown ElementStatus = "unknown"
)

// STARBreakdown detalla si cada elemento de la rubrica aparece en la respuesta.
type STARBreakdown struct {
	Situation ElementStatus `json:"situation"`
	Task      ElementStatus `json:"task"`
	Action    ElementStatus `json:"action"`
	Result    ElementStatus `json:"result"`
}

func UnknownBreakdown() STARBreakdown {
	return STARBreakdown{
		Situation: ElementUnknown,
		Task:      ElementUnknown,
		Action:    ElementUnknown,
		Result:    ElementUnknown,
	}
}

func (b STARBreakdown) Get(e STARElement) ElementStatus {
	switch e {
	case STARSituation:
		return b.Situation
	case STARTask:
		return b.Task
	case STARAction:
		return b.Action
	case STARResult:
		return b.Result
	}
	return ElementUnknown
}

func (b *STARBreakdown) Set(e STARElement, status ElementStatus) {
	switch e {
	case STARSituation:
		b.Situation = status
	case STARTask:
		b.Task = status
	case STARAction:
		b.Action = status
	case STARResult:
		b.Result = status
	}
}

// STAREvaluation es el resultado de puntuar una respuesta contra la rubrica STAR.
type STAREvaluation struct {
	Score           int           `json:"star_score"`
	MissingElements []STARElement `json:"missing_elements"`
	Strengths       []string      `json:"strengths"`
	Suggestions     []string      `json:"suggestions"`
	Breakdown       STARBreakdown `json:"breakdown"`
	// Fallback marca evaluaciones neutrales sustituidas por falla del LLM.
	Fallback bool `json:"fallback"`
}

// DefaultSTAREvaluation es la evaluacion neutral que reemplaza a una evaluacion fallida.
func DefaultSTAREvaluation() STAREvaluation {
	return STAREvaluation{
		Score:           DefaultSTARScore,
		MissingElements: []STARElement{},
		Strengths:       []string{"Response recorded; detailed evaluation was unavailable."},
		Suggestions:     []string{"Structure answers with Situation, Task, Action and Result, and close with a measurable outcome."},
		Breakdown:       UnknownBreakdown(),
		Fallback:        true,
	}
}

func (e STAREvaluation) Clone() STAREvaluation {
	out := e
	out.MissingElements = append([]STARElement{}, e.MissingElements...)
	out.Strengths = append([]string{}, e.Strengths...)
	out.Suggestions = append([]string{}, e.Suggestions...)
	return out
}
