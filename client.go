// Package spoadmin provides a Go client for the SharePoint Online tenant
// administration API.
//
// Basic usage:
//
//	client, err := spoadmin.NewClient(
//	    spoadmin.WithAdminURL("https://tenant-admin.example.com"),
//	    spoadmin.WithAccessToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Provision a site collection and wait for the server to finish
//	siteID, err := client.Sites.CreateAndWait(ctx, &spoadmin.CreateSiteRequest{
//	    URL:      "https://tenant.example/sites/demo",
//	    Owner:    "owner@tenant.example",
//	    Template: "STS#3",
//	})
package spoadmin

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spokit/go-spoadmin/internal/api"
	"github.com/spokit/go-spoadmin/internal/auth"
)

// Default configuration values.
const defaultTimeout = 60 * time.Second

// Client is the tenant administration API client.
type Client struct {
	// Sites provides site collection lifecycle operations.
	Sites SiteService

	// RecycleBin provides access to the tenant recycle bin.
	RecycleBin RecycleBinService

	// Templates lists the web templates available to the tenant.
	Templates TemplateService

	// Webs provides sub-web operations within a site collection.
	Webs WebService

	// Operations refreshes and waits on long-running operation handles.
	Operations OperationService

	transport *api.Transport
}

// NewClient creates a new tenant admin client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.adminURL == "" {
		return nil, ErrNoAdminURL
	}

	if cfg.accessToken == "" {
		return nil, ErrNoCredentials
	}

	creds := &auth.Credentials{
		AccessToken: cfg.accessToken,
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	transport, err := api.NewTransport(cfg.adminURL, creds, httpClient)
	if err != nil {
		return nil, err
	}

	if cfg.userAgent != "" {
		transport.UserAgent = cfg.userAgent
	}

	logger := cfg.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := &Client{
		transport: transport,
	}

	// Initialize services
	ops := newOperationService(transport, logger)
	client.Operations = ops
	client.Sites = newSiteService(transport, ops)
	client.RecycleBin = newRecycleBinService(transport)
	client.Templates = newTemplateService(transport)
	client.Webs = newWebService(transport)

	return client, nil
}

// AdminURL returns the configured tenant administration endpoint.
func (c *Client) AdminURL() string {
	return c.transport.BaseURL.String()
}
