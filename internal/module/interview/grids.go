package interview

import (
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
)

const listKey = "interviewQuestions"

func status(q domain.InterviewQuestion) string {
	if q.IsActive {
		return "Active"
	}
	return "Inactive"
}

func buildList(api *backend.API) (*grid.Grid[domain.InterviewQuestion], error) {
	return grid.New(grid.Category[domain.InterviewQuestion]{
		Key:   "questions",
		Label: "Interview Questions",
		Fetch: api.Interviews.List,
		Columns: []grid.Column[domain.InterviewQuestion]{
			{Key: "orderPosition", Title: "Order", Value: func(q domain.InterviewQuestion) string { return strconv.Itoa(q.OrderPosition) }},
			{Key: "interviewQuestion", Title: "Question", Value: func(q domain.InterviewQuestion) string { return q.InterviewQuestion }},
			{Key: "isActive", Title: "Status", Value: status},
			{Key: "createdAt", Title: "Created", Value: func(q domain.InterviewQuestion) string { return q.CreatedAt }},
		},
		Import: domain.MaterialInterview,
	})
}

func questionID(q domain.InterviewQuestion) string {
	return strconv.Itoa(q.DBID)
}
