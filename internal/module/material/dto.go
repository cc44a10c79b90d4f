package material

import (
	"strconv"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// WordForm adds a word to the phoneme category in the URL.
type WordForm struct {
	Word       string `form:"word" binding:"required,max=100"`
	Meaning    string `form:"meaning" binding:"required,max=255"`
	Definition string `form:"definition" binding:"required"`
	Phoneme    string `form:"phoneme" binding:"required,max=100"`
}

func (f WordForm) input(category string) domain.PhonemeWordInput {
	return domain.PhonemeWordInput{
		Category:   category,
		Word:       strings.TrimSpace(f.Word),
		Meaning:    strings.TrimSpace(f.Meaning),
		Definition: strings.TrimSpace(f.Definition),
		Phoneme:    strings.TrimSpace(f.Phoneme),
	}
}

func (f WordForm) update() domain.PhonemeWordUpdate {
	in := f.input("")
	return domain.PhonemeWordUpdate{Word: in.Word, Meaning: in.Meaning, Definition: in.Definition, Phoneme: in.Phoneme}
}

// SentenceForm adds a sentence to the exercise category in the URL.
type SentenceForm struct {
	Sentence string `form:"sentence" binding:"required"`
	Phoneme  string `form:"phoneme" binding:"required"`
}

func (f SentenceForm) input(category string) domain.ExerciseSentenceInput {
	return domain.ExerciseSentenceInput{
		Category: category,
		Sentence: strings.TrimSpace(f.Sentence),
		Phoneme:  strings.TrimSpace(f.Phoneme),
	}
}

func (f SentenceForm) update() domain.ExerciseSentenceUpdate {
	return domain.ExerciseSentenceUpdate{Sentence: strings.TrimSpace(f.Sentence), Phoneme: strings.TrimSpace(f.Phoneme)}
}

func (f SentenceForm) examSentence() domain.ExamSentence {
	return domain.ExamSentence{Sentence: strings.TrimSpace(f.Sentence), Phoneme: strings.TrimSpace(f.Phoneme)}
}

// ExamForm carries the repeated fields of the exam form, matched by
// position. IDs is only posted when editing an existing set.
type ExamForm struct {
	IDs       []string `form:"id_sentence"`
	Sentences []string `form:"sentence"`
	Phonemes  []string `form:"phoneme"`
}

// items pairs the fields and always returns ExamSentencesPerSet entries so
// the form can be re-rendered with every row.
func (f ExamForm) items() []domain.ExamSentence {
	out := make([]domain.ExamSentence, domain.ExamSentencesPerSet)
	for i := range out {
		if i < len(f.Sentences) {
			out[i].Sentence = strings.TrimSpace(f.Sentences[i])
		}
		if i < len(f.Phonemes) {
			out[i].Phoneme = strings.TrimSpace(f.Phonemes[i])
		}
		if i < len(f.IDs) {
			if id, err := strconv.Atoi(strings.TrimSpace(f.IDs[i])); err == nil && id > 0 {
				out[i].ID = id
			}
		}
	}
	return out
}

// examFormItems fills a stored set up to ExamSentencesPerSet rows.
func examFormItems(sentences []domain.ExamSentence) []domain.ExamSentence {
	out := make([]domain.ExamSentence, domain.ExamSentencesPerSet)
	copy(out, sentences)
	return out
}
