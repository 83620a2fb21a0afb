package spoadmin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spokit/go-spoadmin/internal/api"
)

// TemplateService lists the web templates available to the tenant.
type TemplateService interface {
	// List returns the web templates available for the given locale.
	// Passing lcid 0 uses the tenant default locale.
	List(ctx context.Context, lcid uint32, opts ...RequestOption) ([]*WebTemplate, error)
}

// templateService implements TemplateService.
type templateService struct {
	transport *api.Transport
}

func newTemplateService(transport *api.Transport) *templateService {
	return &templateService{transport: transport}
}

// List returns the web templates available for the given locale.
func (s *templateService) List(ctx context.Context, lcid uint32, opts ...RequestOption) ([]*WebTemplate, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	query := url.Values{}
	if lcid != 0 {
		query.Set("lcid", strconv.FormatUint(uint64(lcid), 10))
	}

	var result struct {
		Value []*WebTemplate `json:"value"`
	}
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/webtemplates",
		Query:   query,
		Headers: reqCfg.headers,
	}, &result)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return result.Value, nil
}
