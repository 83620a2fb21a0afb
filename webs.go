package spoadmin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spokit/go-spoadmin/internal/api"
)

// WebService provides sub-web operations within a site collection.
type WebService interface {
	// Open fetches a sub-web by its path relative to the site collection
	// root.
	Open(ctx context.Context, siteURL, relativePath string, opts ...RequestOption) (*Web, error)
}

// webService implements WebService.
type webService struct {
	transport *api.Transport
}

func newWebService(transport *api.Transport) *webService {
	return &webService{transport: transport}
}

// Open fetches a sub-web by its relative path.
func (s *webService) Open(ctx context.Context, siteURL, relativePath string, opts ...RequestOption) (*Web, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}
	if relativePath == "" {
		return nil, &ValidationError{
			APIError: APIError{Message: "web relative path cannot be empty"},
		}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var web Web
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/webs",
		Query:   url.Values{"site": {siteURL}, "path": {relativePath}},
		Headers: reqCfg.headers,
	}, &web)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeWebNotFound, Message: "web not found"},
			ResourceType: "web",
			ResourceURL:  relativePath,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &web, nil
}
