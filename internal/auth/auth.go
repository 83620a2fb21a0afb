// Package auth provides SharePoint Online tenant admin authentication.
package auth

import "net/http"

// Credentials holds the bearer token presented to the tenant admin endpoint.
// Tokens are acquired out of band (app-only AAD flow) and treated as opaque.
type Credentials struct {
	AccessToken string
}

// Apply adds authentication headers to an HTTP request.
func (c *Credentials) Apply(req *http.Request) {
	if c == nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
}

// Valid reports whether credentials are configured.
func (c *Credentials) Valid() bool {
	return c != nil && c.AccessToken != ""
}
