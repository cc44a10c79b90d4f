// Package backend exposes the TalentaTalk admin REST API as typed services
// over one session's apiclient.Client.
package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/talentatalk/talentatalk-admin/internal/apiclient"
	"github.com/talentatalk/talentatalk-admin/internal/domain"
)

const prefix = "/web/admin"

// API groups the backend services of one admin session.
type API struct {
	Auth       *AuthService
	Talents    *TalentService
	Materials  *MaterialService
	Interviews *InterviewService
	Dashboard  *DashboardService

	client *apiclient.Client
}

// New builds the services on top of c.
func New(c *apiclient.Client) *API {
	return &API{
		Auth:       &AuthService{c: c},
		Talents:    &TalentService{c: c},
		Materials:  &MaterialService{c: c},
		Interviews: &InterviewService{c: c},
		Dashboard:  &DashboardService{c: c},
		client:     c,
	}
}

// Client returns the underlying adapter.
func (a *API) Client() *apiclient.Client {
	return a.client
}

func endpoint(parts ...string) string {
	p := prefix
	for _, s := range parts {
		p += "/" + s
	}
	return p
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// fetchList adapts a list endpoint to a grid fetcher signature.
func fetchList[T any](c *apiclient.Client, ep apiclient.ListEndpoint) func(context.Context, domain.PageQuery) (*domain.PageResult[T], error) {
	return func(ctx context.Context, q domain.PageQuery) (*domain.PageResult[T], error) {
		return apiclient.GetPage[T](ctx, c, ep, q)
	}
}

func del(ctx context.Context, c *apiclient.Client, p string) (string, error) {
	return c.Send(ctx, http.MethodDelete, p, nil, nil)
}

func values(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}
