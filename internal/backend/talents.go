package backend

import (
	"bytes"
	"context"
	"net/http"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

// TalentService manages learner accounts and reads their progress.
type TalentService struct {
	c *apiclient.Client
}

var talentList = apiclient.ListEndpoint{
	Path:        endpoint("talents"),
	RecordsKey:  "talents",
	SearchParam: "searchQuery",
}

// List returns one page of talents.
func (s *TalentService) List(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.Talent], error) {
	return apiclient.GetPage[domain.Talent](ctx, s.c, talentList, q)
}

// Get returns a talent's editable fields.
func (s *TalentService) Get(ctx context.Context, id int) (*domain.TalentDetail, error) {
	var t domain.TalentDetail
	if err := s.c.Get(ctx, endpoint("talents", itoa(id)), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create adds a talent. The password is required and sent once.
func (s *TalentService) Create(ctx context.Context, in domain.TalentInput) (string, error) {
	if len(in.Password) < MinPasswordLength {
		return "", domain.NewAppError(domain.CodeValidation, "Password must be at least 6 characters", nil)
	}
	return s.c.Send(ctx, http.MethodPost, endpoint("talents"), in, nil)
}

// Update changes a talent's name, email, and role.
func (s *TalentService) Update(ctx context.Context, id int, in domain.TalentInput) (string, error) {
	in.Password = ""
	return s.c.Send(ctx, http.MethodPut, endpoint("talents", itoa(id)), in, nil)
}

// Delete removes a talent.
func (s *TalentService) Delete(ctx context.Context, id int) (string, error) {
	return del(ctx, s.c, endpoint("talents", itoa(id)))
}

// ChangePassword sets a talent's password.
func (s *TalentService) ChangePassword(ctx context.Context, id int, newPassword string) (string, error) {
	if len(newPassword) < MinPasswordLength {
		return "", domain.NewAppError(domain.CodeValidation, "Password must be at least 6 characters", nil)
	}
	body := map[string]string{"new_password": newPassword}
	return s.c.Send(ctx, http.MethodPut, endpoint("talents", itoa(id), "change-password"), body, nil)
}

// Progress returns one page of a talent's activity in category.
func (s *TalentService) Progress(ctx context.Context, id int, category domain.ProgressCategory, q domain.PageQuery) (*domain.PageResult[domain.Record], error) {
	if !category.Valid() {
		return nil, domain.NewAppError(domain.CodeValidation, "unknown progress category", nil)
	}
	ep := apiclient.ListEndpoint{
		Path:       endpoint("talents", itoa(id), string(category)),
		RecordsKey: category.RecordsKey(),
	}
	return apiclient.GetPage[domain.Record](ctx, s.c, ep, q)
}

// ProgressFetcher binds Progress to one talent and category.
func (s *TalentService) ProgressFetcher(id int, category domain.ProgressCategory) func(context.Context, domain.PageQuery) (*domain.PageResult[domain.Record], error) {
	return func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[domain.Record], error) {
		return s.Progress(ctx, id, category, q)
	}
}

// Template downloads the talent import template.
func (s *TalentService) Template(ctx context.Context) (*domain.Blob, error) {
	return s.c.Download(ctx, endpoint("talents", "import-template"))
}

// Import uploads a talent roster.
func (s *TalentService) Import(ctx context.Context, fileName string, data []byte) (*domain.ImportReport, error) {
	return upload(ctx, s.c, endpoint("talents", "import"), fileName, data)
}

func upload(ctx context.Context, c *apiclient.Client, p, fileName string, data []byte) (*domain.ImportReport, error) {
	var report domain.ImportReport
	msg, err := c.Upload(ctx, p, fileName, bytes.NewReader(data), &report)
	if err != nil {
		return nil, err
	}
	if report.Message == "" {
		report.Message = msg
	}
	return &report, nil
}
