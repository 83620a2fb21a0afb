package spoadmin_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spokit/go-spoadmin"
)

func TestSiteStatus(t *testing.T) {
	assert.Equal(t, spoadmin.StatusActive, spoadmin.SiteStatus("Active"))
	assert.Equal(t, spoadmin.StatusCreating, spoadmin.SiteStatus("Creating"))
	assert.Equal(t, spoadmin.StatusRecycled, spoadmin.SiteStatus("Recycled"))
}

func TestOperationInterval(t *testing.T) {
	t.Run("converts milliseconds", func(t *testing.T) {
		op := &spoadmin.Operation{PollingInterval: 5000}
		assert.Equal(t, 5*time.Second, op.Interval())
	})

	t.Run("zero interval", func(t *testing.T) {
		op := &spoadmin.Operation{}
		assert.Equal(t, time.Duration(0), op.Interval())
	})
}

func TestOperationJSON(t *testing.T) {
	t.Run("unmarshal from admin response", func(t *testing.T) {
		jsonData := `{
			"id": "op-42",
			"isComplete": false,
			"pollingIntervalMs": 5000,
			"siteId": "8f9a6f71-2d4e-4c08-a97d-0be1bd4a2c11"
		}`

		var op spoadmin.Operation
		err := json.Unmarshal([]byte(jsonData), &op)
		require.NoError(t, err)

		assert.Equal(t, "op-42", op.ID)
		assert.False(t, op.IsComplete)
		assert.Equal(t, 5000, op.PollingInterval)
		assert.Equal(t, uuid.MustParse("8f9a6f71-2d4e-4c08-a97d-0be1bd4a2c11"), op.SiteID)
	})

	t.Run("siteId is omitted until the server assigns it", func(t *testing.T) {
		data, err := json.Marshal(&spoadmin.Operation{ID: "op-1", PollingInterval: 5000})
		require.NoError(t, err)

		var result map[string]any
		err = json.Unmarshal(data, &result)
		require.NoError(t, err)
		assert.NotContains(t, result, "siteId")
	})
}

func TestSitePropertiesJSON(t *testing.T) {
	jsonData := `{
		"url": "https://tenant.example/sites/demo",
		"title": "Demo",
		"owner": "owner@tenant.example",
		"status": "Creating",
		"siteId": "8f9a6f71-2d4e-4c08-a97d-0be1bd4a2c11",
		"template": "STS#3",
		"lcid": 1033,
		"storageQuota": 1024,
		"storageQuotaWarning": 900,
		"lastModified": "2024-03-01T10:30:00Z"
	}`

	var props spoadmin.SiteProperties
	err := json.Unmarshal([]byte(jsonData), &props)
	require.NoError(t, err)

	assert.Equal(t, spoadmin.StatusCreating, props.Status)
	assert.Equal(t, "STS#3", props.Template)
	assert.Equal(t, uint32(1033), props.Lcid)
	assert.Equal(t, int64(1024), props.StorageQuota)
	assert.Equal(t, "owner@tenant.example", props.Owner)
	assert.NotEqual(t, uuid.Nil, props.SiteID)
}

func TestSitePropertiesPage(t *testing.T) {
	t.Run("HasMore true", func(t *testing.T) {
		page := &spoadmin.SitePropertiesPage{
			Data:   make([]*spoadmin.SiteProperties, 100),
			Total:  250,
			Offset: 0,
		}
		assert.True(t, page.HasMore())
		assert.Equal(t, 100, page.NextOffset())
	})

	t.Run("HasMore false at end", func(t *testing.T) {
		page := &spoadmin.SitePropertiesPage{
			Data:   make([]*spoadmin.SiteProperties, 50),
			Total:  250,
			Offset: 200,
		}
		assert.False(t, page.HasMore())
	})

	t.Run("HasMore false exact fit", func(t *testing.T) {
		page := &spoadmin.SitePropertiesPage{
			Data:   make([]*spoadmin.SiteProperties, 100),
			Total:  100,
			Offset: 0,
		}
		assert.False(t, page.HasMore())
	})
}

func TestDeletedSitePropertiesJSON(t *testing.T) {
	jsonData := `{
		"url": "https://tenant.example/sites/gone",
		"siteId": "8f9a6f71-2d4e-4c08-a97d-0be1bd4a2c11",
		"deletedAt": "2024-02-20T08:00:00Z",
		"daysRemaining": 77
	}`

	var deleted spoadmin.DeletedSiteProperties
	err := json.Unmarshal([]byte(jsonData), &deleted)
	require.NoError(t, err)

	assert.Equal(t, "https://tenant.example/sites/gone", deleted.URL)
	assert.Equal(t, 77, deleted.DaysRemaining)
	assert.Equal(t, 2024, deleted.DeletedAt.Year())
}
