package spoadmin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spokit/go-spoadmin/internal/api"
)

// RecycleBinService provides access to the tenant recycle bin, the
// soft-delete holding area for removed site collections.
//
//go:generate mockery --name=RecycleBinService --output=mocks --outpkg=mocks --filename=recycle_bin_service.go
type RecycleBinService interface {
	// List enumerates the site collections currently held in the bin.
	List(ctx context.Context, opts ...RequestOption) ([]*DeletedSiteProperties, error)

	// Restore puts a recycled site collection back into service.
	Restore(ctx context.Context, siteURL string, opts ...RequestOption) (*Operation, error)

	// Purge permanently removes a site collection from the bin.
	Purge(ctx context.Context, siteURL string, opts ...RequestOption) (*Operation, error)
}

// recycleBinService implements RecycleBinService.
type recycleBinService struct {
	transport *api.Transport
}

func newRecycleBinService(transport *api.Transport) *recycleBinService {
	return &recycleBinService{transport: transport}
}

// List enumerates the site collections currently held in the bin.
func (s *recycleBinService) List(ctx context.Context, opts ...RequestOption) ([]*DeletedSiteProperties, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var result struct {
		Value []*DeletedSiteProperties `json:"value"`
	}
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/recyclebin",
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

// Restore puts a recycled site collection back into service.
func (s *recycleBinService) Restore(ctx context.Context, siteURL string, opts ...RequestOption) (*Operation, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var op Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodPost,
		Path:    "/_admin/recyclebin/restore",
		Query:   url.Values{"url": {siteURL}},
		Headers: reqCfg.headers,
	}, &op)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "deleted site not found"},
			ResourceType: "deleted site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &op, nil
}

// Purge permanently removes a site collection from the bin.
func (s *recycleBinService) Purge(ctx context.Context, siteURL string, opts ...RequestOption) (*Operation, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var op Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodDelete,
		Path:    "/_admin/recyclebin",
		Query:   url.Values{"url": {siteURL}},
		Headers: reqCfg.headers,
	}, &op)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "deleted site not found"},
			ResourceType: "deleted site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &op, nil
}
