package spoadmin

import (
	"time"

	"github.com/google/uuid"
)

// SiteStatus represents the server-reported lifecycle state of a site
// collection.
type SiteStatus string

const (
	// StatusActive means the site collection is provisioned and serving.
	StatusActive SiteStatus = "Active"
	// StatusCreating means provisioning is still in flight.
	StatusCreating SiteStatus = "Creating"
	// StatusRecycled means the site collection sits in the tenant recycle
	// bin awaiting restore or permanent removal.
	StatusRecycled SiteStatus = "Recycled"
)

// LockState controls user access to a site collection.
type LockState string

const (
	LockStateUnlock   LockState = "Unlock"
	LockStateReadOnly LockState = "ReadOnly"
	LockStateNoAccess LockState = "NoAccess"
)

// Operation is a server-tracked handle to a long-running provisioning or
// deprovisioning action. IsComplete is authoritative and server-sourced
// only; the client never infers completion locally. The handle is mutated
// solely by OperationService.Refresh.
type Operation struct {
	ID string `json:"id"`

	// IsComplete is the server-reported completion flag.
	IsComplete bool `json:"isComplete"`

	// PollingInterval is the server-suggested wait between polls, in
	// milliseconds.
	PollingInterval int `json:"pollingIntervalMs"`

	// SiteID identifies the affected site collection once the server has
	// assigned it.
	SiteID uuid.UUID `json:"siteId,omitzero"`
}

// Interval returns the server-suggested polling interval as a duration.
func (o *Operation) Interval() time.Duration {
	return time.Duration(o.PollingInterval) * time.Millisecond
}

// Site represents a provisioned site collection.
type Site struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Created time.Time `json:"created,omitzero"`
}

// SiteProperties is the full tenant-level descriptor of a site collection.
type SiteProperties struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Owner        string     `json:"owner,omitempty"`
	Status       SiteStatus `json:"status"`
	SiteID       uuid.UUID  `json:"siteId,omitzero"`
	Template     string     `json:"template,omitempty"`
	Lcid         uint32     `json:"lcid,omitempty"`
	TimeZoneID   int        `json:"timeZoneId,omitempty"`
	LockState    LockState  `json:"lockState,omitempty"`
	WebsCount    int        `json:"websCount,omitempty"`
	LastModified time.Time  `json:"lastModified,omitzero"`

	// Storage quota and warning level, in megabytes.
	StorageQuota        int64 `json:"storageQuota,omitempty"`
	StorageQuotaWarning int64 `json:"storageQuotaWarning,omitempty"`

	// Sandboxed-solution resource quota and warning level, in points.
	UserCodeMaximum float64 `json:"userCodeMaximum,omitempty"`
	UserCodeWarning float64 `json:"userCodeWarning,omitempty"`
}

// SitePropertiesUpdate is a record of optional field updates. A nil field
// means "leave unchanged"; a non-nil field is sent to the server even when
// it points at the zero value, so clearing a title is distinct from not
// mentioning it.
type SitePropertiesUpdate struct {
	Title                   *string
	Owner                   *string
	LockState               *LockState
	StorageQuota            *int64
	StorageQuotaWarning     *int64
	UserCodeMaximum         *float64
	UserCodeWarning         *float64
	AllowSelfServiceUpgrade *bool
}

// isEmpty reports whether no field is set.
func (u *SitePropertiesUpdate) isEmpty() bool {
	return u == nil || (u.Title == nil && u.Owner == nil && u.LockState == nil &&
		u.StorageQuota == nil && u.StorageQuotaWarning == nil &&
		u.UserCodeMaximum == nil && u.UserCodeWarning == nil &&
		u.AllowSelfServiceUpgrade == nil)
}

// CreateSiteRequest contains data for provisioning a new site collection.
type CreateSiteRequest struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	Owner      string `json:"owner"`
	Template   string `json:"template"`
	Lcid       uint32 `json:"lcid,omitempty"`
	TimeZoneID int    `json:"timeZoneId,omitempty"`

	StorageQuota        int64   `json:"storageQuota,omitempty"`
	StorageQuotaWarning int64   `json:"storageQuotaWarning,omitempty"`
	UserCodeMaximum     float64 `json:"userCodeMaximum,omitempty"`
	UserCodeWarning     float64 `json:"userCodeWarning,omitempty"`
}

// DeleteSiteOptions configures site collection removal.
type DeleteSiteOptions struct {
	// SkipRecycleBin removes the site collection permanently instead of
	// moving it to the tenant recycle bin.
	SkipRecycleBin bool
}

// DeletedSiteProperties describes a site collection held in the tenant
// recycle bin.
type DeletedSiteProperties struct {
	URL           string    `json:"url"`
	SiteID        uuid.UUID `json:"siteId,omitzero"`
	DeletedAt     time.Time `json:"deletedAt"`
	DaysRemaining int       `json:"daysRemaining"`
	StorageQuota  int64     `json:"storageQuota,omitempty"`
}

// WebTemplate describes a site template available to the tenant, such as
// STS#3.
type WebTemplate struct {
	Name               string `json:"name"`
	Title              string `json:"title"`
	Lcid               uint32 `json:"lcid"`
	CompatibilityLevel int    `json:"compatibilityLevel,omitempty"`
	Description        string `json:"description,omitempty"`
}

// Web represents a sub-web within a site collection.
type Web struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Created time.Time `json:"created,omitzero"`
}

// SiteFilter defines criteria for enumerating site collections.
type SiteFilter struct {
	// URLStartsWith restricts results to site collections whose URL has
	// the given prefix.
	URLStartsWith string

	// Template restricts results to a template name, e.g. "STS#3".
	Template string

	// IncludePersonalSites includes OneDrive personal site collections.
	IncludePersonalSites bool
}

// PageOptions configures pagination for enumeration requests.
type PageOptions struct {
	Offset int
	Limit  int
}

// SitePropertiesPage represents a page of enumeration results.
type SitePropertiesPage struct {
	Data     []*SiteProperties `json:"data"`
	Total    int               `json:"total"`
	Offset   int               `json:"offset"`
	PageSize int               `json:"pageSize"`
}

// HasMore returns true if there are more pages available.
func (p *SitePropertiesPage) HasMore() bool {
	return p.Offset+len(p.Data) < p.Total
}

// NextOffset returns the offset for the next page.
func (p *SitePropertiesPage) NextOffset() int {
	return p.Offset + len(p.Data)
}
