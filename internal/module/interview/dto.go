package interview

import "github.com/talentatalk/talentatalk-admin/internal/domain"

// QuestionForm creates or edits a question.
type QuestionForm struct {
	Question string `form:"interview_question" binding:"required,max=1000"`
}

// SwapForm moves a question in the mobile order.
type SwapForm struct {
	Direction domain.SwapDirection `form:"direction" binding:"required,oneof=up down"`
}
