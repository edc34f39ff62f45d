package store

// Step is the position inside a subtask's fixed build sequence.
// The zero value is the entry step for every fresh subtask.
type Step int

const (
	StepCollectParts Step = iota
	StepSubassembly
	StepReceiveHandover
	StepFinalAssembly
	StepGiveHandover
	// StepCompleted is terminal: the team has finished its last subtask.
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepCollectParts:
		return "collect_parts"
	case StepSubassembly:
		return "subassembly"
	case StepReceiveHandover:
		return "receive_handover"
	case StepFinalAssembly:
		return "final_assembly"
	case StepGiveHandover:
		return "give_handover"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session represents the active participant state in memory.
// It is owned by exactly one request/response cycle at a time and is
// mutated only through workflow.Machine transitions.
type Session struct {
	ID          string `json:"id"`
	StudentName string `json:"student_name"`
	TeamNumber  int    `json:"team_number"`

	// TaskIndex points into the team's filtered subtask list.
	TaskIndex int  `json:"task_index"`
	Step      Step `json:"step"`

	// Confirmation trackers for the current subtask. Cleared on every
	// advance to the next subtask.
	CollectedPartsConfirmed bool         `json:"collected_parts_confirmed"`
	SubassemblyConfirmed    map[int]bool `json:"subassembly_confirmed"`
	FinalAssemblyConfirmed  map[int]bool `json:"final_assembly_confirmed"`
	PreviousStepConfirmed   bool         `json:"previous_step_confirmed"`
}

// NewSession returns a session positioned at the first subtask, first step.
func NewSession(id, studentName string, teamNumber int) *Session {
	return &Session{
		ID:                     id,
		StudentName:            studentName,
		TeamNumber:             teamNumber,
		SubassemblyConfirmed:   make(map[int]bool),
		FinalAssemblyConfirmed: make(map[int]bool),
	}
}

// ResetProgress clears every confirmation tracker and rewinds the step.
// Called exactly once per subtask transition.
func (s *Session) ResetProgress() {
	s.Step = StepCollectParts
	s.CollectedPartsConfirmed = false
	s.SubassemblyConfirmed = make(map[int]bool)
	s.FinalAssemblyConfirmed = make(map[int]bool)
	s.PreviousStepConfirmed = false
}
