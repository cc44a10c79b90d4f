package material

import (
	"context"
	"net/url"
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/backend"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/grid"
)

// Tabs of the materials page.
const (
	TabPhoneme  = "phoneme"
	TabExercise = "exercise"
	TabExam     = "exam"
)

// summary is one category row of any material tab.
type summary struct {
	Category   string
	Phoneme    string
	Total      int
	LastUpdate string
}

// adapt converts a typed category list into summary rows so the three
// tabs can share one grid.
func adapt[S any](fetch func(context.Context, domain.PageQuery) (*domain.PageResult[S], error), conv func(S) summary) grid.Fetcher[summary] {
	return func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[summary], error) {
		res, err := fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		out := &domain.PageResult[summary]{Records: make([]summary, 0, len(res.Records)), TotalRecords: res.TotalRecords}
		for _, r := range res.Records {
			out.Records = append(out.Records, conv(r))
		}
		return out, nil
	}
}

func summaryColumns(totalTitle string, withPhoneme bool) []grid.Column[summary] {
	cols := []grid.Column[summary]{
		{Key: "phonemeCategory", Title: "Phoneme Category", Value: func(s summary) string { return s.Category }},
	}
	if withPhoneme {
		cols = append(cols, grid.Column[summary]{Key: "phoneme", Title: "Phoneme", Value: func(s summary) string { return s.Phoneme }})
	}
	return append(cols,
		grid.Column[summary]{Key: "total", Title: totalTitle, Value: func(s summary) string { return strconv.Itoa(s.Total) }},
		grid.Column[summary]{Key: "lastUpdate", Title: "Last Update", Value: func(s summary) string { return s.LastUpdate }},
	)
}

const listKey = "materials"

func buildList(api *backend.API) (*grid.Grid[summary], error) {
	m := api.Materials
	return grid.New(
		grid.Category[summary]{
			Key:   TabPhoneme,
			Label: "Phoneme Words",
			Fetch: adapt(m.PhonemeCategories, func(s domain.PhonemeWordSummary) summary {
				return summary{Category: s.PhonemeCategory, Phoneme: s.Phoneme, Total: s.TotalWords, LastUpdate: s.LastUpdate}
			}),
			Columns: summaryColumns("Total Words", true),
			Import:  domain.MaterialPhoneme,
		},
		grid.Category[summary]{
			Key:   TabExercise,
			Label: "Exercise Sentences",
			Fetch: adapt(m.ExerciseCategories, func(s domain.ExerciseSummary) summary {
				return summary{Category: s.PhonemeCategory, Total: s.TotalSentence, LastUpdate: s.LastUpdate}
			}),
			Columns: summaryColumns("Total Sentences", false),
			Import:  domain.MaterialExercise,
		},
		grid.Category[summary]{
			Key:   TabExam,
			Label: "Exams",
			Fetch: adapt(m.ExamCategories, func(s domain.ExamSummary) summary {
				return summary{Category: s.PhonemeCategory, Total: s.TotalExam, LastUpdate: s.LastUpdate}
			}),
			Columns: summaryColumns("Total Exams", false),
			Import:  domain.MaterialExam,
		},
	)
}

// detailURL is the page listing the items of one category.
func detailURL(tab, category string) string {
	return "/materials/" + tab + "/" + url.PathEscape(category)
}

func wordsGrid(category string) func(*backend.API) (*grid.Grid[domain.PhonemeWord], error) {
	return func(api *backend.API) (*grid.Grid[domain.PhonemeWord], error) {
		return grid.New(grid.Category[domain.PhonemeWord]{
			Key:   "words",
			Label: "Words",
			Fetch: func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.PhonemeWord], error) {
				return api.Materials.Words(ctx, category, q)
			},
			Columns: []grid.Column[domain.PhonemeWord]{
				{Key: "word", Title: "Word", Value: func(w domain.PhonemeWord) string { return w.Word }},
				{Key: "phoneme", Title: "Phoneme", Value: func(w domain.PhonemeWord) string { return w.Phoneme }},
				{Key: "meaning", Title: "Meaning", Value: func(w domain.PhonemeWord) string { return w.Meaning }},
				{Key: "definition", Title: "Definition", Value: func(w domain.PhonemeWord) string { return w.Definition }},
			},
		})
	}
}

func sentencesGrid(category string) func(*backend.API) (*grid.Grid[domain.ExerciseSentence], error) {
	return func(api *backend.API) (*grid.Grid[domain.ExerciseSentence], error) {
		return grid.New(grid.Category[domain.ExerciseSentence]{
			Key:   "sentences",
			Label: "Sentences",
			Fetch: func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.ExerciseSentence], error) {
				return api.Materials.Sentences(ctx, category, q)
			},
			Columns: []grid.Column[domain.ExerciseSentence]{
				{Key: "sentence", Title: "Sentence", Value: func(s domain.ExerciseSentence) string { return s.Sentence }},
				{Key: "phoneme", Title: "Phoneme", Value: func(s domain.ExerciseSentence) string { return s.Phoneme }},
			},
		})
	}
}

func examsGrid(category string) func(*backend.API) (*grid.Grid[domain.ExamSet], error) {
	return func(api *backend.API) (*grid.Grid[domain.ExamSet], error) {
		return grid.New(grid.Category[domain.ExamSet]{
			Key:   "exams",
			Label: "Exams",
			Fetch: func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.ExamSet], error) {
				return api.Materials.Exams(ctx, category, q)
			},
			Columns: []grid.Column[domain.ExamSet]{
				{Key: "test_number", Title: "Test", Value: func(e domain.ExamSet) string { return e.TestNumber }},
				{Key: "total_sentence", Title: "Sentences", Value: func(e domain.ExamSet) string { return strconv.Itoa(e.TotalSentence) }},
				{Key: "last_update", Title: "Last Update", Value: func(e domain.ExamSet) string { return e.LastUpdate }},
			},
			AddURL: detailURL(TabExam, category) + "/new",
		})
	}
}

// examSentenceColumns are searched by the exam detail quick filter.
var examSentenceColumns = []grid.Column[domain.ExamSentence]{
	{Key: "sentence", Title: "Sentence", Value: func(s domain.ExamSentence) string { return s.Sentence }},
	{Key: "phoneme", Title: "Phoneme", Value: func(s domain.ExamSentence) string { return s.Phoneme }},
}
