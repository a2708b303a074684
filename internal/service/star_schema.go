package service

import (
	"errors"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"interview-coach/internal/domain"
)

// starSchema es el esquema estricto de la evaluacion STAR devuelta por el LLM.
// Campos requeridos: star_score (numero), missing_elements, strengths y suggestions (arrays).
// breakdown es opcional y se reconcilia con missing_elements.
type starSchema struct {
	out domain.STAREvaluation
}

func (s *starSchema) Decode(obj gjson.Result) error {
	if !obj.IsObject() {
		return errors.New("star evaluation must be a json object")
	}

	score := obj.Get("star_score")
	if score.Type != gjson.Number {
		return errors.New("star_score missing or not a number")
	}
	missingRaw := obj.Get("missing_elements")
	if !missingRaw.IsArray() {
		return errors.New("missing_elements must be an array")
	}
	strengthsRaw := obj.Get("strengths")
	if !strengthsRaw.IsArray() {
		return errors.New("strengths must be an array")
	}
	suggestionsRaw := obj.Get("suggestions")
	if !suggestionsRaw.IsArray() {
		return errors.New("suggestions must be an array")
	}

	missing := make(map[domain.STARElement]bool)
	for _, item := range missingRaw.Array() {
		if el, ok := domain.ParseSTARElement(item.String()); ok {
			missing[el] = true
		}
	}

	breakdown := domain.UnknownBreakdown()
	breakdownRaw := obj.Get("breakdown")
	for _, el := range domain.STARElements {
		status := domain.ElementFound
		if breakdownRaw.IsObject() {
			switch strings.ToLower(strings.TrimSpace(breakdownRaw.Get(string(el)).String())) {
			case string(domain.ElementFound):
				status = domain.ElementFound
			case string(domain.ElementMissing):
				status = domain.ElementMissing
			default:
				status = domain.ElementUnknown
			}
		}
		if missing[el] {
			status = domain.ElementMissing
		}
		if status == domain.ElementMissing {
			missing[el] = true
		}
		breakdown.Set(el, status)
	}

	missingList := make([]domain.STARElement, 0, len(missing))
	for _, el := range domain.STARElements {
		if missing[el] {
			missingList = append(missingList, el)
		}
	}

	s.out = domain.STAREvaluation{
		Score:           clampScore(score.Float()),
		MissingElements: missingList,
		Strengths:       nonEmptyStrings(strengthsRaw),
		Suggestions:     nonEmptyStrings(suggestionsRaw),
		Breakdown:       breakdown,
	}
	return nil
}

// clampScore acota antes de convertir: int() de un float fuera de rango no esta definido.
func clampScore(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 10:
		return 10
	}
	return int(math.Round(v))
}

func nonEmptyStrings(arr gjson.Result) []string {
	out := []string{}
	for _, item := range arr.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
