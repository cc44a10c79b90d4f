package dashboard

import (
	"context"
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
	"github.com/talentatalk/talentatalk-admin/internal/module/page"
)

// Learner ranking views.
const (
	ViewTopActive      = "top-active"
	ViewHighestScoring = "highest-scoring"
)

const (
	topActiveKey      = "learners:top-active"
	highestScoringKey = "learners:highest-scoring"
)

var scoreLabels = map[domain.ScoreCategory]string{
	domain.ScorePhonemeMaterial: "Phoneme Material",
	domain.ScorePhonemeExercise: "Phoneme Exercise",
	domain.ScorePhonemeExam:     "Phoneme Exam",
	domain.ScoreConversation:    "Conversation",
	domain.ScoreInterview:       "Interview",
}

// scoreColumns follow the fields each ranking returns.
var scoreColumns = map[domain.ScoreCategory][]string{
	domain.ScorePhonemeMaterial: {"overallCompletion", "Words Attempted", "overallPercentage", "Avg Score"},
	domain.ScorePhonemeExercise: {"overallCompletion", "Sentences Attempted", "overallPercentage", "Avg Score"},
	domain.ScorePhonemeExam:     {"overallCompletion", "Categories Attempted", "overallPercentage", "Avg Score"},
	domain.ScoreConversation:    {"wpm", "Avg WPM", "grammer", "Grammar Status", "date", "Latest Session", "totalAttempts", "Total Sessions"},
	domain.ScoreInterview:       {"wpm", "Avg WPM", "feedback", "Latest Feedback", "date", "Latest Session", "totalAttempts", "Total Sessions"},
}

func buildTopActive(api *backend.API) (*grid.Grid[domain.ActiveLearner], error) {
	itoa := strconv.Itoa
	return grid.New(grid.Category[domain.ActiveLearner]{
		Key:   ViewTopActive,
		Label: "Top Active Learners",
		Fetch: api.Dashboard.TopActiveLearners,
		Columns: []grid.Column[domain.ActiveLearner]{
			{Key: "no", Title: "Rank", Value: func(l domain.ActiveLearner) string { return itoa(l.No) }},
			{Key: "talentName", Title: "Talent Name", Value: func(l domain.ActiveLearner) string { return l.TalentName }},
			{Key: "email", Title: "Email", Value: func(l domain.ActiveLearner) string { return l.Email }},
			{Key: "highestStreak", Title: "Highest Streak", Value: func(l domain.ActiveLearner) string { return itoa(l.HighestStreak) }},
			{Key: "currentStreak", Title: "Current Streak", Value: func(l domain.ActiveLearner) string { return itoa(l.CurrentStreak) }},
		},
	})
}

func buildHighestScoring(api *backend.API) (*grid.Grid[domain.Record], error) {
	cats := make([]grid.Category[domain.Record], 0, len(domain.ScoreCategories))
	for _, sc := range domain.ScoreCategories {
		pairs := append([]string{"no", "Rank", "talentName", "Talent Name"}, scoreColumns[sc]...)
		cats = append(cats, grid.Category[domain.Record]{
			Key:   string(sc),
			Label: scoreLabels[sc],
			Fetch: func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.Record], error) {
				return api.Dashboard.HighestScoringLearners(ctx, sc, q)
			},
			Columns: page.RecordColumns(pairs...),
		})
	}
	return grid.New(cats...)
}

func learnerID(l domain.ActiveLearner) string { return strconv.Itoa(l.ID) }

func recordID(r domain.Record) string { return page.Field(r, "id") }
