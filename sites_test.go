package spoadmin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spokit/go-spoadmin"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *spoadmin.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := spoadmin.NewClient(
		spoadmin.WithAdminURL(server.URL),
		spoadmin.WithAccessToken("test-token"),
	)
	require.NoError(t, err)

	return client
}

func TestSiteService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/_admin/sites", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var reqBody spoadmin.CreateSiteRequest
			err := json.NewDecoder(r.Body).Decode(&reqBody)
			assert.NoError(t, err)
			assert.Equal(t, "https://tenant.example/sites/demo", reqBody.URL)
			assert.Equal(t, "owner@tenant.example", reqBody.Owner)
			assert.Equal(t, "STS#3", reqBody.Template)

			w.WriteHeader(http.StatusAccepted)
			err = json.NewEncoder(w).Encode(spoadmin.Operation{
				ID:              "op-1",
				IsComplete:      false,
				PollingInterval: 5000,
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		op, err := client.Sites.Create(ctx, &spoadmin.CreateSiteRequest{
			URL:      "https://tenant.example/sites/demo",
			Title:    "Demo",
			Owner:    "owner@tenant.example",
			Template: "STS#3",
		})
		require.NoError(t, err)

		assert.Equal(t, "op-1", op.ID)
		assert.False(t, op.IsComplete)
		assert.Equal(t, 5000, op.PollingInterval)
	})

	t.Run("nil request returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with nil request")
		})

		ctx := context.Background()
		_, err := client.Sites.Create(ctx, nil)
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing owner returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call without an owner")
		})

		ctx := context.Background()
		_, err := client.Sites.Create(ctx, &spoadmin.CreateSiteRequest{
			URL:      "https://tenant.example/sites/demo",
			Template: "STS#3",
		})
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("missing template returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call without a template")
		})

		ctx := context.Background()
		_, err := client.Sites.Create(ctx, &spoadmin.CreateSiteRequest{
			URL:   "https://tenant.example/sites/demo",
			Owner: "owner@tenant.example",
		})
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("server validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, err := w.Write([]byte(`{"code":"SiteAlreadyExists","message":"a site already exists at this URL"}`))
			assert.NoError(t, err)
		})

		ctx := context.Background()
		_, err := client.Sites.Create(ctx, &spoadmin.CreateSiteRequest{
			URL:      "https://tenant.example/sites/demo",
			Owner:    "owner@tenant.example",
			Template: "STS#3",
		})
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "SiteAlreadyExists", validationErr.Code)
	})
}

func TestSiteService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		siteID := uuid.New()
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/_admin/sites", r.URL.Path)
			assert.Equal(t, "https://tenant.example/sites/demo", r.URL.Query().Get("url"))

			err := json.NewEncoder(w).Encode(spoadmin.Site{
				ID:    siteID,
				URL:   "https://tenant.example/sites/demo",
				Title: "Demo",
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		site, err := client.Sites.Get(ctx, "https://tenant.example/sites/demo")
		require.NoError(t, err)

		assert.Equal(t, siteID, site.ID)
		assert.Equal(t, "Demo", site.Title)
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		ctx := context.Background()
		_, err := client.Sites.Get(ctx, "https://tenant.example/sites/missing")
		require.Error(t, err)

		var notFoundErr *spoadmin.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "site", notFoundErr.ResourceType)
		assert.Equal(t, "https://tenant.example/sites/missing", notFoundErr.ResourceURL)
	})

	t.Run("empty URL returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with empty URL")
		})

		ctx := context.Background()
		_, err := client.Sites.Get(ctx, "")
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestSiteService_Properties(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/_admin/sites/properties", r.URL.Path)

			err := json.NewEncoder(w).Encode(spoadmin.SiteProperties{
				URL:          "https://tenant.example/sites/demo",
				Title:        "Demo",
				Owner:        "owner@tenant.example",
				Status:       spoadmin.StatusActive,
				Template:     "STS#3",
				StorageQuota: 1024,
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		props, err := client.Sites.Properties(ctx, "https://tenant.example/sites/demo")
		require.NoError(t, err)

		assert.Equal(t, spoadmin.StatusActive, props.Status)
		assert.Equal(t, int64(1024), props.StorageQuota)
	})
}

func TestSiteService_ListPage(t *testing.T) {
	t.Run("success with filter", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/_admin/sites/list", r.URL.Path)
			assert.Equal(t, "https://tenant.example/sites/", r.URL.Query().Get("filter"))
			assert.Equal(t, "STS#3", r.URL.Query().Get("template"))
			assert.Equal(t, "0", r.URL.Query().Get("offset"))
			assert.Equal(t, "100", r.URL.Query().Get("limit"))

			err := json.NewEncoder(w).Encode(spoadmin.SitePropertiesPage{
				Data: []*spoadmin.SiteProperties{
					{URL: "https://tenant.example/sites/a", Status: spoadmin.StatusActive},
					{URL: "https://tenant.example/sites/b", Status: spoadmin.StatusCreating},
				},
				Total:  2,
				Offset: 0,
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		page, err := client.Sites.ListPage(ctx, &spoadmin.SiteFilter{
			URLStartsWith: "https://tenant.example/sites/",
			Template:      "STS#3",
		}, nil)
		require.NoError(t, err)

		assert.Len(t, page.Data, 2)
		assert.False(t, page.HasMore())
	})
}

func TestSiteService_List(t *testing.T) {
	t.Run("iterates all pages", func(t *testing.T) {
		callCount := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			callCount++

			var response spoadmin.SitePropertiesPage
			switch r.URL.Query().Get("offset") {
			case "0":
				response = spoadmin.SitePropertiesPage{
					Data: []*spoadmin.SiteProperties{
						{URL: "https://tenant.example/sites/a"},
						{URL: "https://tenant.example/sites/b"},
					},
					Total:  3,
					Offset: 0,
				}
			case "2":
				response = spoadmin.SitePropertiesPage{
					Data: []*spoadmin.SiteProperties{
						{URL: "https://tenant.example/sites/c"},
					},
					Total:  3,
					Offset: 2,
				}
			}
			err := json.NewEncoder(w).Encode(response)
			assert.NoError(t, err)
		})

		ctx := context.Background()
		sites, err := spoadmin.Collect(client.Sites.List(ctx, nil))
		require.NoError(t, err)

		assert.Len(t, sites, 3)
		assert.Equal(t, "https://tenant.example/sites/a", sites[0].URL)
		assert.Equal(t, "https://tenant.example/sites/c", sites[2].URL)
		assert.Equal(t, 2, callCount)
	})

	t.Run("stops on error", func(t *testing.T) {
		callCount := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			callCount++
			if callCount == 2 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			err := json.NewEncoder(w).Encode(spoadmin.SitePropertiesPage{
				Data:   []*spoadmin.SiteProperties{{URL: "https://tenant.example/sites/a"}},
				Total:  10,
				Offset: 0,
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		sites, err := spoadmin.Collect(client.Sites.List(ctx, nil))
		require.Error(t, err)

		assert.Len(t, sites, 1)
	})

	t.Run("respects context cancellation between items", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(spoadmin.SitePropertiesPage{
				Data: []*spoadmin.SiteProperties{
					{URL: "https://tenant.example/sites/a"},
					{URL: "https://tenant.example/sites/b"},
					{URL: "https://tenant.example/sites/c"},
				},
				Total:  3,
				Offset: 0,
			})
			assert.NoError(t, err)
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var collected []*spoadmin.SiteProperties
		var iterErr error

		for props, err := range client.Sites.List(ctx, nil) {
			if err != nil {
				iterErr = err
				break
			}
			collected = append(collected, props)
			if len(collected) == 1 {
				cancel()
			}
		}

		require.Error(t, iterErr)
		require.ErrorIs(t, iterErr, context.Canceled)
		assert.Len(t, collected, 1)
	})
}

func TestSiteService_Update(t *testing.T) {
	t.Run("serializes only set fields", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/_admin/sites/properties", r.URL.Path)
			assert.Equal(t, "https://tenant.example/sites/demo", r.URL.Query().Get("url"))

			var reqBody map[string]any
			err := json.NewDecoder(r.Body).Decode(&reqBody)
			assert.NoError(t, err)

			assert.Equal(t, "Renamed", reqBody["title"])
			storageQuota, ok := reqBody["storageQuota"].(float64)
			assert.True(t, ok, "storageQuota should be a number")
			assert.InDelta(t, float64(2048), storageQuota, 0.001)

			assert.NotContains(t, reqBody, "owner")
			assert.NotContains(t, reqBody, "lockState")

			err = json.NewEncoder(w).Encode(spoadmin.Operation{ID: "op-7", IsComplete: true})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		title := "Renamed"
		quota := int64(2048)
		op, err := client.Sites.Update(ctx, "https://tenant.example/sites/demo", &spoadmin.SitePropertiesUpdate{
			Title:        &title,
			StorageQuota: &quota,
		})
		require.NoError(t, err)
		assert.Equal(t, "op-7", op.ID)
	})

	t.Run("explicit clear is sent", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			var reqBody map[string]any
			err := json.NewDecoder(r.Body).Decode(&reqBody)
			assert.NoError(t, err)

			// A pointer to the zero value still travels over the wire.
			title, ok := reqBody["title"]
			assert.True(t, ok, "cleared title should be present")
			assert.Equal(t, "", title)

			err = json.NewEncoder(w).Encode(spoadmin.Operation{ID: "op-8", IsComplete: true})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		empty := ""
		_, err := client.Sites.Update(ctx, "https://tenant.example/sites/demo", &spoadmin.SitePropertiesUpdate{
			Title: &empty,
		})
		require.NoError(t, err)
	})

	t.Run("empty update returns validation error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with no fields set")
		})

		ctx := context.Background()
		_, err := client.Sites.Update(ctx, "https://tenant.example/sites/demo", &spoadmin.SitePropertiesUpdate{})
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestSiteService_Delete(t *testing.T) {
	t.Run("to recycle bin by default", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/_admin/sites", r.URL.Path)
			assert.Equal(t, "https://tenant.example/sites/demo", r.URL.Query().Get("url"))
			assert.Empty(t, r.URL.Query().Get("permanent"))

			w.WriteHeader(http.StatusAccepted)
			err := json.NewEncoder(w).Encode(spoadmin.Operation{ID: "op-9", IsComplete: false, PollingInterval: 5000})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		op, err := client.Sites.Delete(ctx, "https://tenant.example/sites/demo", nil)
		require.NoError(t, err)
		assert.Equal(t, "op-9", op.ID)
	})

	t.Run("permanent removal", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("permanent"))

			w.WriteHeader(http.StatusAccepted)
			err := json.NewEncoder(w).Encode(spoadmin.Operation{ID: "op-10", IsComplete: false})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		_, err := client.Sites.Delete(ctx, "https://tenant.example/sites/demo", &spoadmin.DeleteSiteOptions{
			SkipRecycleBin: true,
		})
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		ctx := context.Background()
		_, err := client.Sites.Delete(ctx, "https://tenant.example/sites/missing", nil)
		require.Error(t, err)

		var notFoundErr *spoadmin.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestSiteService_Status(t *testing.T) {
	t.Run("site collection performs one properties lookup", func(t *testing.T) {
		propertiesCalls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/_admin/sites/properties":
				propertiesCalls++
				assert.Equal(t, "https://tenant.example/sites/foo", r.URL.Query().Get("url"))
				err := json.NewEncoder(w).Encode(spoadmin.SiteProperties{
					URL:    "https://tenant.example/sites/foo",
					Status: spoadmin.StatusActive,
				})
				assert.NoError(t, err)
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
			}
		})

		ctx := context.Background()
		status, err := client.Sites.Status(ctx, "https://tenant.example/sites/foo")
		require.NoError(t, err)

		assert.Equal(t, spoadmin.StatusActive, status)
		assert.Equal(t, 1, propertiesCalls)
	})

	t.Run("recycled site collection", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(spoadmin.SiteProperties{
				URL:    "https://tenant.example/sites/foo",
				Status: spoadmin.StatusRecycled,
			})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		status, err := client.Sites.Status(ctx, "https://tenant.example/sites/foo")
		require.NoError(t, err)
		assert.Equal(t, spoadmin.StatusRecycled, status)
	})

	t.Run("sub-web performs a web open instead", func(t *testing.T) {
		webCalls := 0
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/_admin/webs":
				webCalls++
				assert.Equal(t, "https://tenant.example/sites/foo", r.URL.Query().Get("site"))
				assert.Equal(t, "subweb", r.URL.Query().Get("path"))
				err := json.NewEncoder(w).Encode(spoadmin.Web{URL: "subweb", Title: "Sub"})
				assert.NoError(t, err)
			default:
				t.Errorf("unexpected request to %s", r.URL.Path)
			}
		})

		ctx := context.Background()
		status, err := client.Sites.Status(ctx, "https://tenant.example/sites/foo/subweb")
		require.NoError(t, err)

		assert.Equal(t, spoadmin.StatusActive, status)
		assert.Equal(t, 1, webCalls)
	})

	t.Run("missing sub-web", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		ctx := context.Background()
		_, err := client.Sites.Status(ctx, "https://tenant.example/sites/foo/missing")
		require.Error(t, err)

		var notFoundErr *spoadmin.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "web", notFoundErr.ResourceType)
	})

	t.Run("invalid URL", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not make API call with an invalid URL")
		})

		ctx := context.Background()
		_, err := client.Sites.Status(ctx, "not a url")
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestSiteService_Exists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(spoadmin.SiteProperties{Status: spoadmin.StatusActive})
			assert.NoError(t, err)
		})

		ctx := context.Background()
		exists, err := client.Sites.Exists(ctx, "https://tenant.example/sites/foo")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("absent flattens NotFoundError", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		ctx := context.Background()
		exists, err := client.Sites.Exists(ctx, "https://tenant.example/sites/missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other errors propagate", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte(`{"code":"InternalError","message":"boom"}`))
			assert.NoError(t, err)
		})

		ctx := context.Background()
		_, err := client.Sites.Exists(ctx, "https://tenant.example/sites/foo")
		require.Error(t, err)

		var serverErr *spoadmin.ServerError
		require.ErrorAs(t, err, &serverErr)
	})
}

func TestSplitSiteURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		siteURL  string
		webPath  string
	}{
		{"root site collection", "https://tenant.example", "https://tenant.example", ""},
		{"managed path site", "https://tenant.example/sites/foo", "https://tenant.example/sites/foo", ""},
		{"managed path sub-web", "https://tenant.example/sites/foo/subweb", "https://tenant.example/sites/foo", "subweb"},
		{"managed path nested sub-web", "https://tenant.example/sites/foo/a/b", "https://tenant.example/sites/foo", "a/b"},
		{"teams managed path", "https://tenant.example/teams/eng", "https://tenant.example/teams/eng", ""},
		{"first segment site", "https://tenant.example/custom", "https://tenant.example/custom", ""},
		{"first segment sub-web", "https://tenant.example/custom/sub", "https://tenant.example/custom", "sub"},
		{"trailing slash", "https://tenant.example/sites/foo/", "https://tenant.example/sites/foo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			siteURL, webPath, err := spoadmin.SplitSiteURL(tt.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tt.siteURL, siteURL)
			assert.Equal(t, tt.webPath, webPath)
		})
	}

	t.Run("invalid URL", func(t *testing.T) {
		_, _, err := spoadmin.SplitSiteURL("://bad")
		require.Error(t, err)

		var validationErr *spoadmin.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}
