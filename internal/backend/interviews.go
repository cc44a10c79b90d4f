package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// InterviewService manages the interview question bank and its order.
type InterviewService struct {
	c *apiclient.Client
}

var interviewList = apiclient.ListEndpoint{
	Path:       endpoint("interview-questions"),
	RecordsKey: "interviewQuestions",
	SizeParam:  "size",
}

// List returns one page of questions in mobile order.
func (s *InterviewService) List(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.InterviewQuestion], error) {
	return apiclient.GetPage[domain.InterviewQuestion](ctx, s.c, interviewList, q)
}

func questionBody(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "Interview question is required", nil)
	}
	return map[string]string{"interview_question": text}, nil
}

// Create adds a question at the end of the order.
func (s *InterviewService) Create(ctx context.Context, text string) (string, error) {
	body, err := questionBody(text)
	if err != nil {
		return "", err
	}
	return s.c.Send(ctx, http.MethodPost, endpoint("interview-questions"), body, nil)
}

// Update rewrites a question.
func (s *InterviewService) Update(ctx context.Context, id int, text string) (string, error) {
	body, err := questionBody(text)
	if err != nil {
		return "", err
	}
	return s.c.Send(ctx, http.MethodPut, endpoint("interview-questions", itoa(id)), body, nil)
}

// Delete removes a question.
func (s *InterviewService) Delete(ctx context.Context, id int) (string, error) {
	return del(ctx, s.c, endpoint("interview-questions", itoa(id)))
}

// Toggle flips whether a question is served to learners.
func (s *InterviewService) Toggle(ctx context.Context, id int) (string, error) {
	return s.c.Send(ctx, http.MethodPost, endpoint("interview-questions", itoa(id), "toggle"), nil, nil)
}

// Swap moves a question one position up or down.
func (s *InterviewService) Swap(ctx context.Context, id int, dir domain.SwapDirection) (string, error) {
	if dir != domain.SwapUp && dir != domain.SwapDown {
		return "", domain.NewAppError(domain.CodeValidation, "direction must be up or down", nil)
	}
	body := map[string]string{"direction": string(dir)}
	return s.c.Send(ctx, http.MethodPost, endpoint("interview-questions", itoa(id), "swap"), body, nil)
}

// Template downloads the question import template.
func (s *InterviewService) Template(ctx context.Context) (*domain.Blob, error) {
	return s.c.Download(ctx, endpoint("interview-questions", "import-template"))
}

// Import uploads a question spreadsheet.
func (s *InterviewService) Import(ctx context.Context, fileName string, data []byte) (*domain.ImportReport, error) {
	return upload(ctx, s.c, endpoint("interview-questions", "import"), fileName, data)
}
