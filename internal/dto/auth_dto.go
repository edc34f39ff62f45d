package dto

type LoginRequest struct {
	StudentName string `json:"student_name" validate:"required"`
	TeamNumber  int    `json:"team_number" validate:"required,min=1"`
	Password    string `json:"password" validate:"required"`
}

type LoginResponse struct {
	SessionId   string `json:"session_id"`
	StudentName string `json:"student_name"`
	TeamNumber  int    `json:"team_number"`
	TaskCount   int    `json:"task_count"`
}

type TeamsResponse struct {
	Teams []int `json:"teams"`
}
