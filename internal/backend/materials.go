package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// MaterialService manages pronunciation material: phoneme words, exercise
// sentences, and exam sets.
type MaterialService struct {
	c *apiclient.Client
}

var (
	phonemeList  = apiclient.ListEndpoint{Path: endpoint("phoneme-material"), RecordsKey: "phonemeMaterials"}
	exerciseList = apiclient.ListEndpoint{Path: endpoint("exercise-phoneme"), RecordsKey: "exercisePhonemes"}
	examList     = apiclient.ListEndpoint{Path: endpoint("exam-phoneme"), RecordsKey: "examPhonemes"}
)

// PhonemeCategories lists the phoneme word categories.
func (s *MaterialService) PhonemeCategories(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.PhonemeWordSummary], error) {
	return apiclient.GetPage[domain.PhonemeWordSummary](ctx, s.c, phonemeList, q)
}

// ExerciseCategories lists the exercise sentence categories.
func (s *MaterialService) ExerciseCategories(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.ExerciseSummary], error) {
	return apiclient.GetPage[domain.ExerciseSummary](ctx, s.c, exerciseList, q)
}

// ExamCategories lists the exam categories.
func (s *MaterialService) ExamCategories(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.ExamSummary], error) {
	return apiclient.GetPage[domain.ExamSummary](ctx, s.c, examList, q)
}

// Words returns one page of a phoneme category's words.
func (s *MaterialService) Words(ctx context.Context, category string, q domain.PageQuery) (*domain.PageResult[domain.PhonemeWord], error) {
	ep := apiclient.ListEndpoint{Path: endpoint("phoneme-material", category, "detail"), RecordsKey: "data"}
	return apiclient.GetPage[domain.PhonemeWord](ctx, s.c, ep, q)
}

// Sentences returns one page of an exercise category's sentences.
func (s *MaterialService) Sentences(ctx context.Context, category string, q domain.PageQuery) (*domain.PageResult[domain.ExerciseSentence], error) {
	ep := apiclient.ListEndpoint{Path: endpoint("exercise-phoneme", category, "detail"), RecordsKey: "data"}
	return apiclient.GetPage[domain.ExerciseSentence](ctx, s.c, ep, q)
}

type examPage struct {
	Category   string           `json:"category"`
	Exams      []domain.ExamSet `json:"exams"`
	TotalItems int              `json:"total_items"`
}

// Exams returns one page of an exam category's sets. This endpoint reports
// its total as total_items rather than a pagination block.
func (s *MaterialService) Exams(ctx context.Context, category string, q domain.PageQuery) (*domain.PageResult[domain.ExamSet], error) {
	ep := apiclient.ListEndpoint{Path: endpoint("exam-phoneme", category, "detail")}
	var page examPage
	if err := s.c.Get(ctx, ep.Path, ep.Query(q), &page); err != nil {
		return nil, err
	}
	res := &domain.PageResult[domain.ExamSet]{Records: page.Exams, TotalRecords: page.TotalItems}
	if res.Records == nil {
		res.Records = []domain.ExamSet{}
	}
	if res.TotalRecords < len(res.Records) {
		res.TotalRecords = len(res.Records)
	}
	return res, nil
}

// ExamDetail returns the sentences of one exam set.
func (s *MaterialService) ExamDetail(ctx context.Context, category string, examID int) (*domain.ExamDetail, error) {
	var d domain.ExamDetail
	if err := s.c.Get(ctx, endpoint("exam-phoneme", category, "tests", itoa(examID), "sentences"), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddWord adds a word to a phoneme category.
func (s *MaterialService) AddWord(ctx context.Context, in domain.PhonemeWordInput) (string, error) {
	return s.c.Send(ctx, http.MethodPost, endpoint("phoneme-material"), in, nil)
}

// UpdateWord edits a word of a phoneme category.
func (s *MaterialService) UpdateWord(ctx context.Context, category string, id int, in domain.PhonemeWordUpdate) (string, error) {
	if strings.TrimSpace(in.Word) == "" || strings.TrimSpace(in.Meaning) == "" || strings.TrimSpace(in.Definition) == "" {
		return "", domain.NewAppError(domain.CodeValidation, "Word, meaning and definition are required", nil)
	}
	return s.c.Send(ctx, http.MethodPut, endpoint("phoneme-material", category, "words", itoa(id)), in, nil)
}

// DeleteWord removes a word.
func (s *MaterialService) DeleteWord(ctx context.Context, id int) (string, error) {
	return del(ctx, s.c, endpoint("phoneme-material", "words", itoa(id)))
}

// AddSentence adds a sentence to an exercise category. The backend rejects
// sentences shorter than four words; the check is repeated here so the form
// fails before the round trip.
func (s *MaterialService) AddSentence(ctx context.Context, in domain.ExerciseSentenceInput) (string, error) {
	if len(strings.Fields(in.Sentence)) < 4 {
		return "", domain.NewAppError(domain.CodeValidation, "Sentence must contain at least 4 words", nil)
	}
	return s.c.Send(ctx, http.MethodPost, endpoint("exercise-phoneme", "sentences"), in, nil)
}

// UpdateSentence edits an exercise sentence. The four word minimum of
// AddSentence applies.
func (s *MaterialService) UpdateSentence(ctx context.Context, id int, in domain.ExerciseSentenceUpdate) (string, error) {
	if len(strings.Fields(in.Sentence)) < 4 {
		return "", domain.NewAppError(domain.CodeValidation, "Sentence must contain at least 4 words", nil)
	}
	if strings.TrimSpace(in.Phoneme) == "" {
		return "", domain.NewAppError(domain.CodeValidation, "Phoneme is required", nil)
	}
	in.ID = id
	return s.c.Send(ctx, http.MethodPut, endpoint("exercise-phoneme", "sentences", itoa(id)), in, nil)
}

// DeleteSentence removes an exercise sentence.
func (s *MaterialService) DeleteSentence(ctx context.Context, id int) (string, error) {
	return del(ctx, s.c, endpoint("exercise-phoneme", "sentences", itoa(id)))
}

// AddExam creates an exam set of exactly ExamSentencesPerSet sentences.
func (s *MaterialService) AddExam(ctx context.Context, in domain.ExamSetInput) (string, error) {
	if err := checkExamSentences(in.Items); err != nil {
		return "", err
	}
	return s.c.Send(ctx, http.MethodPost, endpoint("exam-phoneme", "bulk-sentences"), in, nil)
}

// UpdateExam replaces the sentences of an exam set. A sentence without an
// id is sent with its one-based position, which is how the backend numbers
// the sentences of a set.
func (s *MaterialService) UpdateExam(ctx context.Context, category string, examID int, in domain.ExamSetUpdate) (string, error) {
	if err := checkExamSentences(in.Sentences); err != nil {
		return "", err
	}
	out := domain.ExamSetUpdate{Sentences: make([]domain.ExamSentence, len(in.Sentences))}
	for i, it := range in.Sentences {
		if it.ID <= 0 {
			it.ID = i + 1
		}
		out.Sentences[i] = it
	}
	return s.c.Send(ctx, http.MethodPut, endpoint("exam-phoneme", category, "tests", itoa(examID)), out, nil)
}

// UpdateExamSentence edits one sentence of an exam set.
func (s *MaterialService) UpdateExamSentence(ctx context.Context, sentenceID int, in domain.ExamSentence) (string, error) {
	if strings.TrimSpace(in.Sentence) == "" || strings.TrimSpace(in.Phoneme) == "" {
		return "", domain.NewAppError(domain.CodeValidation, "Every exam sentence needs a sentence and its phoneme", nil)
	}
	in.ID = sentenceID
	return s.c.Send(ctx, http.MethodPut, endpoint("exam-phoneme", "sentences", itoa(sentenceID)), in, nil)
}

// DeleteExam removes an exam set from a category.
func (s *MaterialService) DeleteExam(ctx context.Context, category string, examID int) (string, error) {
	return del(ctx, s.c, endpoint("exam-phoneme", category, "tests", itoa(examID)))
}

// Template downloads the import template of a pronunciation material type.
func (s *MaterialService) Template(ctx context.Context, m domain.MaterialType) (*domain.Blob, error) {
	if !isPronunciation(m) {
		return nil, domain.NewAppError(domain.CodeValidation, "unknown material type", nil)
	}
	return s.c.Download(ctx, endpoint(string(m), "import-template"))
}

// Import uploads a pronunciation material spreadsheet.
func (s *MaterialService) Import(ctx context.Context, m domain.MaterialType, fileName string, data []byte) (*domain.ImportReport, error) {
	if !isPronunciation(m) {
		return nil, domain.NewAppError(domain.CodeValidation, "unknown material type", nil)
	}
	return upload(ctx, s.c, endpoint(string(m), "import"), fileName, data)
}

func checkExamSentences(items []domain.ExamSentence) error {
	if len(items) != domain.ExamSentencesPerSet {
		return domain.NewAppError(domain.CodeValidation, "Each exam must have exactly 10 sentences", nil)
	}
	for _, it := range items {
		if strings.TrimSpace(it.Sentence) == "" || strings.TrimSpace(it.Phoneme) == "" {
			return domain.NewAppError(domain.CodeValidation, "Every exam sentence needs a sentence and its phoneme", nil)
		}
	}
	return nil
}

func isPronunciation(m domain.MaterialType) bool {
	return m == domain.MaterialPhoneme || m == domain.MaterialExercise || m == domain.MaterialExam
}
