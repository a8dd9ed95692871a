package models

import (
	"errors"
	"time"
)

// Platform identifies the ad network a metric row came from.
type Platform string

const (
	PlatformGoogle Platform = "google"
	PlatformMeta   Platform = "meta"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	return p == PlatformGoogle || p == PlatformMeta
}

// MetricRecord is one day of advertising performance for one ad account.
// Uniqueness is (ClientID, Platform, AccountName, Date); re-importing the
// same key replaces the row, never duplicates it.
type MetricRecord struct {
	ClientID    string   `json:"client_id"`
	Platform    Platform `json:"platform"`
	AccountName string   `json:"account_name"`

	// Date is the ISO day, YYYY-MM-DD.
	Date string `json:"date"`

	Spend           float64 `json:"spend"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	Leads           float64 `json:"leads"`
	ConversionValue float64 `json:"conversion_value"`
}

// Validate checks the identity fields of a record.
func (r *MetricRecord) Validate() error {
	if r.ClientID == "" {
		return errors.New("metric record: client_id is required")
	}
	if !r.Platform.Valid() {
		return errors.New("metric record: platform must be google or meta")
	}
	if len(r.Date) != 10 {
		return errors.New("metric record: date must be YYYY-MM-DD")
	}
	return nil
}

// Key returns the uniqueness tuple of the record. Unassigned account
// labels collapse to one bucket so an upsert for "Default" overwrites a
// row stored with an empty account name.
func (r *MetricRecord) Key() string {
	name := r.AccountName
	if IsUnassignedAccount(name) {
		name = ""
	}
	return r.ClientID + "|" + string(r.Platform) + "|" + name + "|" + r.Date
}

// IsUnassignedAccount reports whether a free-text account label means "no
// account". Historic imports stored the unassigned bucket variously as an
// empty string, the literal "Default", or the string "null"; all of them
// (and SQL NULL at the storage layer) are the same logical bucket.
func IsUnassignedAccount(name string) bool {
	switch name {
	case "", "Default", "null":
		return true
	}
	return false
}

// SameAccount compares two account labels under the unassigned
// equivalence class.
func SameAccount(a, b string) bool {
	if IsUnassignedAccount(a) {
		return IsUnassignedAccount(b)
	}
	return a == b
}

// Client is an agency-managed client account. Admin users manage clients;
// a client-role login only sees its own records.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Currency  string    `json:"currency"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required client fields.
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("client: name is required")
	}
	return nil
}
