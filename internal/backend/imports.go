package backend

import (
	"context"
	"fmt"

	"github.com/talentatalk/talentatalk-admin/internal/domain"
	"github.com/talentatalk/talentatalk-admin/internal/importer"
)

// ImportLimits are the file constraints applied to every import.
type ImportLimits struct {
	MaxFileSizeBytes   int64
	AcceptedExtensions []string
}

// importSpec is the material-specific half of an import config.
type importSpec struct {
	title       string
	description string
	columns     []string
	rules       []string
	fileName    string
	samples     [][]string
}

var importSpecs = map[domain.MaterialType]importSpec{
	domain.MaterialTalent: {
		title:       "Import Talents",
		description: "Register learner accounts in bulk.",
		columns:     []string{"nama", "email", "role", "password"},
		rules: []string{
			"Every column is required",
			"Email must be unique",
			"Password must be at least 6 characters",
		},
		fileName: "talent_import_template.xlsx",
		samples: [][]string{
			{"Brahmantya", "brahmantya@example.com", "Mobile Developer", "Brahmantya987"},
			{"Hafidzon", "hafidzon@example.com", "Backend Developer", "Hafidzon987"},
		},
	},
	domain.MaterialPhoneme: {
		title:       "Import Phoneme Words",
		description: "Import individual words with phoneme categories and transcriptions.",
		columns:     []string{"kategori", "kata", "fonem", "arti", "definisi"},
		rules: []string{
			"Use single phoneme categories such as i, ɪ, p, b",
			"The transcription must contain the category phoneme",
			"All columns are required",
		},
		fileName: "phoneme_material_template.xlsx",
		samples: [][]string{
			{"i", "believe", "bɪliv", "percaya", "Menerima sesuatu sebagai kebenaran."},
			{"ɪ", "with", "wɪð", "dengan", "Ditemani oleh; bersama."},
			{"p", "push", "pʊʃ", "mendorong", "Memberi tekanan agar bergerak maju."},
		},
	},
	domain.MaterialExercise: {
		title:       "Import Exercise Sentences",
		description: "Import practice sentences for similar phoneme training.",
		columns:     []string{"kategori", "kalimat", "fonem"},
		rules: []string{
			"Use similar phoneme categories such as i-ɪ or p-b",
			"The transcription must contain every category phoneme",
		},
		fileName: "exercise_phoneme_template.xlsx",
		samples: [][]string{
			{"i-ɪ", "He did see if this big team is really in it.", "hi dɪd si ɪf ðɪs bɪg tim ɪz rɪəli ɪn ɪt"},
			{"p-b", "The big problem is people buy poor quality baby products.", "ðə bɪg prɔbləm ɪz pipəl baɪ pʊər kwɔləti beɪbi prɔdʌkts"},
		},
	},
	domain.MaterialExam: {
		title:       "Import Exam Sets",
		description: "Import exam sets of ten sentences per row.",
		columns:     examColumns(),
		rules: []string{
			"Use similar phoneme categories such as i-ɪ or p-b",
			"Each exam must have exactly 10 sentences",
		},
		fileName: "exam_phoneme_template.xlsx",
		samples:  [][]string{examSample()},
	},
	domain.MaterialInterview: {
		title:       "Import Interview Questions",
		description: "Append interview questions to the end of the mobile order.",
		columns:     []string{"pertanyaan"},
		rules:       []string{"One question per row"},
		fileName:    "interview_questions_template.xlsx",
		samples: [][]string{
			{"Tell me about yourself."},
			{"Why do you want to work with our company?"},
		},
	},
}

func examColumns() []string {
	cols := []string{"kategori"}
	for i := 1; i <= domain.ExamSentencesPerSet; i++ {
		cols = append(cols, fmt.Sprintf("kalimat_%d", i))
	}
	for i := 1; i <= domain.ExamSentencesPerSet; i++ {
		cols = append(cols, fmt.Sprintf("fonem_%d", i))
	}
	return cols
}

func examSample() []string {
	row := []string{"i-ɪ"}
	for i := 1; i <= domain.ExamSentencesPerSet; i++ {
		row = append(row, fmt.Sprintf("Sample sentence number %d for this exam.", i))
	}
	for i := 1; i <= domain.ExamSentencesPerSet; i++ {
		row = append(row, fmt.Sprintf("sæmpəl ˈsɛntəns %d", i))
	}
	return row
}

// ImportConfig wires the importer for material m to this session's
// backend endpoints.
func (a *API) ImportConfig(m domain.MaterialType, limits ImportLimits) (*importer.Config, error) {
	spec, ok := importSpecs[m]
	if !ok {
		return nil, domain.NewAppError(domain.CodeNotFound, "unknown import type", nil)
	}

	var (
		tpl importer.TemplateFetcher
		imp importer.ImportFetcher
	)
	switch m {
	case domain.MaterialTalent:
		tpl = a.Talents.Template
		imp = func(ctx context.Context, f importer.File) (*domain.ImportReport, error) {
			return a.Talents.Import(ctx, f.Name, f.Data)
		}
	case domain.MaterialInterview:
		tpl = a.Interviews.Template
		imp = func(ctx context.Context, f importer.File) (*domain.ImportReport, error) {
			return a.Interviews.Import(ctx, f.Name, f.Data)
		}
	default:
		tpl = func(ctx context.Context) (*domain.Blob, error) {
			return a.Materials.Template(ctx, m)
		}
		imp = func(ctx context.Context, f importer.File) (*domain.ImportReport, error) {
			return a.Materials.Import(ctx, m, f.Name, f.Data)
		}
	}

	cfg := &importer.Config{
		Material:           m,
		Title:              spec.title,
		Description:        spec.description,
		TemplateFetcher:    tpl,
		ImportFetcher:      imp,
		AcceptedExtensions: append([]string(nil), limits.AcceptedExtensions...),
		MaxFileSizeBytes:   limits.MaxFileSizeBytes,
		RequiredColumns:    spec.columns,
		Rules:              spec.rules,
		DefaultFileName:    spec.fileName,
		SampleRows:         spec.samples,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
