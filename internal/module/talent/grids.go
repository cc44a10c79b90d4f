package talent

import (
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
)

const listKey = "talents"

func buildList(api *backend.API) (*grid.Grid[domain.Talent], error) {
	return grid.New(grid.Category[domain.Talent]{
		Key:   "talents",
		Label: "Talents",
		Fetch: api.Talents.List,
		Columns: []grid.Column[domain.Talent]{
			{Key: "talentName", Title: "Talent Name", Value: func(t domain.Talent) string { return t.TalentName }},
			{Key: "email", Title: "Email", Value: func(t domain.Talent) string { return t.Email }},
			{Key: "role", Title: "Role", Value: func(t domain.Talent) string { return t.Role }},
			{Key: "pretest", Title: "Pretest", Value: func(t domain.Talent) string { return t.Pretest }},
			{Key: "highestExam", Title: "Highest Exam", Value: func(t domain.Talent) string { return t.HighestExam }},
			{Key: "progress", Title: "Progress", Value: func(t domain.Talent) string { return t.Progress }},
		},
		AddURL: "/talents/new",
		Import: domain.MaterialTalent,
	})
}

func talentID(t domain.Talent) string { return strconv.Itoa(t.ID) }

var progressLabels = map[domain.ProgressCategory]string{
	domain.ProgressPhonemeMaterial: "Phoneme Material",
	domain.ProgressPhonemeExercise: "Phoneme Exercise",
	domain.ProgressPhonemeExam:     "Phoneme Exam",
	domain.ProgressConversation:    "Conversation",
	domain.ProgressInterview:       "Interview",
}

var progressColumns = map[domain.ProgressCategory][]string{
	domain.ProgressPhonemeMaterial: {"phonemeCategory", "Category", "wordsAttempted", "Words Attempted", "averageAccuracy", "Avg. Accuracy"},
	domain.ProgressPhonemeExercise: {"phonemeCategory", "Category", "sentenceAttempted", "Sentences Attempted", "averageAccuracy", "Avg. Accuracy"},
	domain.ProgressPhonemeExam:     {"phonemeCategory", "Category", "bestScore", "Best Score", "latestScore", "Latest Score"},
	domain.ProgressConversation:    {"topic", "Topic", "wpm", "WPM", "grammarIssue", "Grammar Issues", "date", "Date"},
	domain.ProgressInterview:       {"attempt", "Attempt", "wordProducePerMinute", "WPM", "feedback", "Feedback", "date", "Date"},
}

func progressKey(id int) string { return "talents/" + strconv.Itoa(id) + "/progress" }

// buildProgress lays out one tab per progress category of talent id.
func buildProgress(id int) func(*backend.API) (*grid.Grid[domain.Record], error) {
	return func(api *backend.API) (*grid.Grid[domain.Record], error) {
		cats := make([]grid.Category[domain.Record], 0, len(domain.ProgressCategories))
		for _, pc := range domain.ProgressCategories {
			cats = append(cats, grid.Category[domain.Record]{
				Key:     string(pc),
				Label:   progressLabels[pc],
				Fetch:   api.Talents.ProgressFetcher(id, pc),
				Columns: page.RecordColumns(progressColumns[pc]...),
			})
		}
		return grid.New(cats...)
	}
}
