package spoadmin

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spokit/go-spoadmin/internal/api"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// SiteService provides site collection lifecycle operations.
//
//go:generate mockery --name=SiteService --output=mocks --outpkg=mocks --filename=site_service.go
type SiteService interface {
	// Create issues a provisioning request for a new site collection and
	// returns the server's operation handle without waiting on it.
	Create(ctx context.Context, req *CreateSiteRequest, opts ...RequestOption) (*Operation, error)

	// CreateAndWait provisions a site collection and polls the returned
	// operation to completion, then reports the new site collection ID.
	CreateAndWait(ctx context.Context, req *CreateSiteRequest, opts ...RequestOption) (uuid.UUID, error)

	// Get retrieves a site collection by URL.
	Get(ctx context.Context, siteURL string, opts ...RequestOption) (*Site, error)

	// Properties retrieves the tenant-level descriptor of a site collection.
	Properties(ctx context.Context, siteURL string, opts ...RequestOption) (*SiteProperties, error)

	// List returns an iterator over all site collections matching the
	// filter. Pages are fetched lazily as you iterate.
	List(ctx context.Context, filter *SiteFilter, opts ...RequestOption) iter.Seq2[*SiteProperties, error]

	// ListPage returns a single page of site collections.
	// Use this for manual pagination control.
	ListPage(ctx context.Context, filter *SiteFilter, page *PageOptions, opts ...RequestOption) (*SitePropertiesPage, error)

	// Update sends the set fields of the update record to the server and
	// returns the operation tracking the change.
	Update(ctx context.Context, siteURL string, update *SitePropertiesUpdate, opts ...RequestOption) (*Operation, error)

	// Delete removes a site collection, into the tenant recycle bin by
	// default or permanently when DeleteSiteOptions says so.
	Delete(ctx context.Context, siteURL string, del *DeleteSiteOptions, opts ...RequestOption) (*Operation, error)

	// Status reports the lifecycle state of the addressed site. For a
	// site collection URL this is the server-reported status; for a
	// deeper URL only sub-web presence is checked and StatusActive is
	// reported when the web exists. Absence surfaces as *NotFoundError.
	Status(ctx context.Context, rawURL string, opts ...RequestOption) (SiteStatus, error)

	// Exists reports whether the addressed site or sub-web is present,
	// flattening *NotFoundError into false.
	Exists(ctx context.Context, rawURL string, opts ...RequestOption) (bool, error)
}

// siteService implements SiteService.
type siteService struct {
	transport *api.Transport
	ops       OperationService
}

func newSiteService(transport *api.Transport, ops OperationService) *siteService {
	return &siteService{transport: transport, ops: ops}
}

// validateSiteURL checks that a site URL is not empty.
func validateSiteURL(siteURL string) error {
	if siteURL == "" {
		return &ValidationError{
			APIError: APIError{Message: "site URL cannot be empty"},
		}
	}
	return nil
}

// validateCreateRequest validates the provisioning request.
func validateCreateRequest(req *CreateSiteRequest) error {
	if req == nil {
		return &ValidationError{
			APIError: APIError{Message: "create request cannot be nil"},
		}
	}
	if req.URL == "" {
		return &ValidationError{
			APIError: APIError{Message: "site URL is required"},
		}
	}
	if req.Owner == "" {
		return &ValidationError{
			APIError: APIError{Message: "site owner is required"},
		}
	}
	if req.Template == "" {
		return &ValidationError{
			APIError: APIError{Message: "web template is required"},
		}
	}
	return nil
}

// Create issues a provisioning request for a new site collection.
func (s *siteService) Create(ctx context.Context, req *CreateSiteRequest, opts ...RequestOption) (*Operation, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var op Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodPost,
		Path:    "/_admin/sites",
		Body:    req,
		Headers: reqCfg.headers,
	}, &op)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &op, nil
}

// CreateAndWait provisions a site collection and blocks until done.
func (s *siteService) CreateAndWait(ctx context.Context, req *CreateSiteRequest, opts ...RequestOption) (uuid.UUID, error) {
	op, err := s.Create(ctx, req, opts...)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.ops.Wait(ctx, op); err != nil {
		return uuid.Nil, err
	}

	if op.SiteID != uuid.Nil {
		return op.SiteID, nil
	}

	// Some provisioning paths complete without stamping the handle; the
	// descriptor carries the authoritative ID.
	props, err := s.Properties(ctx, req.URL, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	return props.SiteID, nil
}

// Get retrieves a site collection by URL.
func (s *siteService) Get(ctx context.Context, siteURL string, opts ...RequestOption) (*Site, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var site Site
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/sites",
		Query:   url.Values{"url": {siteURL}},
		Headers: reqCfg.headers,
	}, &site)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "site not found"},
			ResourceType: "site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &site, nil
}

// Properties retrieves the tenant-level descriptor of a site collection.
func (s *siteService) Properties(ctx context.Context, siteURL string, opts ...RequestOption) (*SiteProperties, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	var props SiteProperties
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/sites/properties",
		Query:   url.Values{"url": {siteURL}},
		Headers: reqCfg.headers,
	}, &props)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "site not found"},
			ResourceType: "site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &props, nil
}

// List returns an iterator over all site collections matching the filter.
func (s *siteService) List(ctx context.Context, filter *SiteFilter, opts ...RequestOption) iter.Seq2[*SiteProperties, error] {
	return func(yield func(*SiteProperties, error) bool) {
		offset := 0

		for {
			page, err := s.ListPage(ctx, filter, &PageOptions{
				Offset: offset,
				Limit:  defaultPageSize,
			}, opts...)

			if err != nil {
				yield(nil, err)
				return
			}

			if !s.yieldPageItems(ctx, page, yield) {
				return
			}

			if !page.HasMore() {
				return
			}

			offset = page.NextOffset()
		}
	}
}

// yieldPageItems yields each descriptor from the page to the iterator.
// Returns false if iteration should stop (context cancelled or yield
// returned false).
func (s *siteService) yieldPageItems(ctx context.Context, page *SitePropertiesPage, yield func(*SiteProperties, error) bool) bool {
	for _, props := range page.Data {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		if !yield(props, nil) {
			return false
		}
	}
	return true
}

// ListPage returns a single page of site collections.
func (s *siteService) ListPage(ctx context.Context, filter *SiteFilter, page *PageOptions, opts ...RequestOption) (*SitePropertiesPage, error) {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	if page == nil {
		page = &PageOptions{}
	}
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}

	query := url.Values{
		"offset": {strconv.Itoa(page.Offset)},
		"limit":  {strconv.Itoa(page.Limit)},
	}
	if filter != nil {
		if filter.URLStartsWith != "" {
			query.Set("filter", filter.URLStartsWith)
		}
		if filter.Template != "" {
			query.Set("template", filter.Template)
		}
		if filter.IncludePersonalSites {
			query.Set("personal", "true")
		}
	}

	var result SitePropertiesPage
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/sites/list",
		Query:   query,
		Headers: reqCfg.headers,
	}, &result)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &result, nil
}

// Update sends the set fields of the update record to the server.
func (s *siteService) Update(ctx context.Context, siteURL string, update *SitePropertiesUpdate, opts ...RequestOption) (*Operation, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}
	if update.isEmpty() {
		return nil, &ValidationError{
			APIError: APIError{Message: "no properties to update"},
		}
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	// Only fields the caller set travel over the wire; a nil field is
	// "leave unchanged", not "clear".
	body := map[string]any{}
	if update.Title != nil {
		body["title"] = *update.Title
	}
	if update.Owner != nil {
		body["owner"] = *update.Owner
	}
	if update.LockState != nil {
		body["lockState"] = *update.LockState
	}
	if update.StorageQuota != nil {
		body["storageQuota"] = *update.StorageQuota
	}
	if update.StorageQuotaWarning != nil {
		body["storageQuotaWarning"] = *update.StorageQuotaWarning
	}
	if update.UserCodeMaximum != nil {
		body["userCodeMaximum"] = *update.UserCodeMaximum
	}
	if update.UserCodeWarning != nil {
		body["userCodeWarning"] = *update.UserCodeWarning
	}
	if update.AllowSelfServiceUpgrade != nil {
		body["allowSelfServiceUpgrade"] = *update.AllowSelfServiceUpgrade
	}

	var op Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodPatch,
		Path:    "/_admin/sites/properties",
		Query:   url.Values{"url": {siteURL}},
		Body:    body,
		Headers: reqCfg.headers,
	}, &op)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "site not found"},
			ResourceType: "site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &op, nil
}

// Delete removes a site collection.
func (s *siteService) Delete(ctx context.Context, siteURL string, del *DeleteSiteOptions, opts ...RequestOption) (*Operation, error) {
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}

	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	query := url.Values{"url": {siteURL}}
	if del != nil && del.SkipRecycleBin {
		query.Set("permanent", "true")
	}

	var op Operation
	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodDelete,
		Path:    "/_admin/sites",
		Query:   query,
		Headers: reqCfg.headers,
	}, &op)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeSiteNotFound, Message: "site not found"},
			ResourceType: "site",
			ResourceURL:  siteURL,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return &op, nil
}

// Status reports the lifecycle state of the addressed site.
func (s *siteService) Status(ctx context.Context, rawURL string, opts ...RequestOption) (SiteStatus, error) {
	siteURL, webPath, err := SplitSiteURL(rawURL)
	if err != nil {
		return "", err
	}

	if webPath == "" {
		props, err := s.Properties(ctx, siteURL, opts...)
		if err != nil {
			return "", err
		}
		return props.Status, nil
	}

	// A sub-web has no tenant-level status; presence is all that can be
	// checked.
	if err := s.probeWeb(ctx, siteURL, webPath, opts...); err != nil {
		return "", err
	}
	return StatusActive, nil
}

// Exists reports whether the addressed site or sub-web is present.
func (s *siteService) Exists(ctx context.Context, rawURL string, opts ...RequestOption) (bool, error) {
	_, err := s.Status(ctx, rawURL, opts...)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// probeWeb opens a sub-web purely for its presence check.
func (s *siteService) probeWeb(ctx context.Context, siteURL, webPath string, opts ...RequestOption) error {
	reqCfg := newRequestConfig()
	reqCfg.apply(opts...)

	resp, err := s.transport.DoJSON(ctx, &api.Request{
		Method:  http.MethodGet,
		Path:    "/_admin/webs",
		Query:   url.Values{"site": {siteURL}, "path": {webPath}},
		Headers: reqCfg.headers,
	}, nil)

	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{
			APIError:     APIError{StatusCode: http.StatusNotFound, Code: errCodeWebNotFound, Message: "web not found"},
			ResourceType: "web",
			ResourceURL:  webPath,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(resp.StatusCode, resp.Body, resp.Headers)
	}

	return nil
}

// managedPaths are the tenant path roots under which site collections are
// provisioned one level deep.
var managedPaths = map[string]bool{
	"sites": true,
	"teams": true,
}

// SplitSiteURL splits an absolute URL into the site collection URL and the
// sub-web relative path beneath it. Under a managed path root the site
// collection spans two path segments (/sites/demo); otherwise the first
// segment after the host addresses the site collection. Anything deeper is
// the sub-web relative path.
func SplitSiteURL(rawURL string) (siteURL, webPath string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", &ValidationError{
			APIError: APIError{Message: fmt.Sprintf("invalid site URL: %s", rawURL)},
		}
	}

	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		// Root site collection.
		return u.Scheme + "://" + u.Host, "", nil
	}

	segments := strings.Split(trimmed, "/")
	siteDepth := 1
	if managedPaths[segments[0]] && len(segments) >= 2 {
		siteDepth = 2
	}

	siteURL = u.Scheme + "://" + u.Host + "/" + strings.Join(segments[:siteDepth], "/")
	webPath = strings.Join(segments[siteDepth:], "/")
	return siteURL, webPath, nil
}
