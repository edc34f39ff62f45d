package dto

// StateResponse is the full render model for the client: one synchronous
// state transition is always followed by a re-render from this payload.
type StateResponse struct {
	StudentName string        `json:"student_name"`
	TeamNumber  int           `json:"team_number"`
	Step        string        `json:"step"`
	StepTitle   string        `json:"step_title"`
	Progress    ProgressView  `json:"progress"`
	Subtask     *SubtaskView  `json:"subtask,omitempty"`
	Handover    *HandoverView `json:"handover,omitempty"`
}

type ProgressView struct {
	TaskIndex int  `json:"task_index"`
	TaskCount int  `json:"task_count"`
	Completed bool `json:"completed"`
}

type SubtaskView struct {
	Name               string     `json:"name"`
	Bag                string     `json:"bag"`
	Position           int        `json:"position"`
	PartsConfirmed     bool       `json:"parts_confirmed"`
	PartsImageUrl      string     `json:"parts_image_url,omitempty"`
	SubassemblyPages   []PageView `json:"subassembly_pages"`
	FinalAssemblyPages []PageView `json:"final_assembly_pages"`
}

type PageView struct {
	Page      int    `json:"page"`
	Confirmed bool   `json:"confirmed"`
	ImageUrl  string `json:"image_url,omitempty"`
}

// HandoverView describes both handover directions for the current subtask.
// Nil team pointers mark the edges of the build order; Message carries the
// terminal text ("first team receives nothing", "final team").
type HandoverView struct {
	GiverTeam       *int   `json:"giver_team,omitempty"`
	ReceiverTeam    *int   `json:"receiver_team,omitempty"`
	ReceiveImageUrl string `json:"receive_image_url,omitempty"`
	GiveImageUrl    string `json:"give_image_url,omitempty"`
	ReceiveMessage  string `json:"receive_message,omitempty"`
	GiveMessage     string `json:"give_message,omitempty"`
	Received        bool   `json:"received"`
}

type ConfirmPageRequest struct {
	Phase string `json:"phase" validate:"required,oneof=subassembly final"`
	Page  int    `json:"page" validate:"required,min=1"`
}

type AdvanceResponse struct {
	Advanced bool   `json:"advanced"`
	Step     string `json:"step"`
	Reason   string `json:"reason,omitempty"`
}
