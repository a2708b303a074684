package domain

type Phase string

const (
	PhaseOpening    Phase = "opening"
	PhaseBehavioral Phase = "behavioral"
	PhaseTechnical  Phase = "technical"
	PhaseClosing    Phase = "closing"
	PhaseTerminal   Phase = "terminal"
)

// PhaseDescriptor asocia una fase con su estrategia de generacion de preguntas.
type PhaseDescriptor struct {
	Phase    Phase  `json:"phase"`
	Strategy string `json:"strategy"`
	// STARGuide indica si el front debe mostrar la guia del metodo STAR.
	STARGuide bool `json:"star_guide"`
}

var phaseTable = map[Phase]PhaseDescriptor{
	PhaseOpening: {
		Phase:    PhaseOpening,
		Strategy: "Build rapport. Ask about the candidate's background, motivation for this role and overall fit with the position and company.",
	},
	PhaseBehavioral: {
		Phase:     PhaseBehavioral,
		Strategy:  "Ask a behavioral question that elicits a STAR answer (Situation, Task, Action, Result), e.g. \"Tell me about a time when...\". Ground it in experience listed in the CV.",
		STARGuide: true,
	},
	PhaseTechnical: {
		Phase:    PhaseTechnical,
		Strategy: "Explore role-specific skills and technical depth required by the job, referencing tools or projects from the CV.",
	},
	PhaseClosing: {
		Phase:    PhaseClosing,
		Strategy: "Ask a forward-looking question about career goals, culture fit, or what the candidate would bring to the team.",
	},
	PhaseTerminal: {
		Phase:    PhaseTerminal,
		Strategy: "",
	},
}

// PhaseFor mapea el numero de pregunta (1-based) a su fase:
// 1-3 opening, 4-6 behavioral, 7-8 technical, 9-10 closing, >10 terminal.
func PhaseFor(questionNumber int) PhaseDescriptor {
	switch {
	case questionNumber <= 3:
		return phaseTable[PhaseOpening]
	case questionNumber <= 6:
		return phaseTable[PhaseBehavioral]
	case questionNumber <= 8:
		return phaseTable[PhaseTechnical]
	case questionNumber <= TotalQuestions:
		return phaseTable[PhaseClosing]
	default:
		return phaseTable[PhaseTerminal]
	}
}
