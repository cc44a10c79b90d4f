package domain

// InterviewQuestion is a row of the interview question list.
type InterviewQuestion struct {
	QuestionID        string `json:"questionId"`
	InterviewQuestion string `json:"interviewQuestion"`
	CreatedAt         string `json:"createdAt"`
	OrderPosition     int    `json:"orderPosition"`
	DBID              int    `json:"dbId"`
	IsActive          bool   `json:"isActive"`
}

// SwapDirection moves a question one slot up or down in the mobile order.
type SwapDirection string

const (
	SwapUp   SwapDirection = "up"
	SwapDown SwapDirection = "down"
)
