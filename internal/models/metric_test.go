package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnassignedAccount(t *testing.T) {
	assert.True(t, IsUnassignedAccount(""))
	assert.True(t, IsUnassignedAccount("Default"))
	assert.True(t, IsUnassignedAccount("null"))
	assert.False(t, IsUnassignedAccount("default"))
	assert.False(t, IsUnassignedAccount("Brand"))
}

func TestSameAccount(t *testing.T) {
	assert.True(t, SameAccount("", "Default"))
	assert.True(t, SameAccount("null", ""))
	assert.True(t, SameAccount("Brand", "Brand"))
	assert.False(t, SameAccount("Brand", "Default"))
	assert.False(t, SameAccount("Brand", "Other"))
}

func TestMetricRecordKey(t *testing.T) {
	a := MetricRecord{ClientID: "c1", Platform: PlatformGoogle, AccountName: "Default", Date: "2024-01-01"}
	b := MetricRecord{ClientID: "c1", Platform: PlatformGoogle, AccountName: "null", Date: "2024-01-01"}
	c := MetricRecord{ClientID: "c1", Platform: PlatformGoogle, AccountName: "Brand", Date: "2024-01-01"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestMetricRecordValidate(t *testing.T) {
	r := MetricRecord{ClientID: "c1", Platform: PlatformMeta, Date: "2024-01-01"}
	assert.NoError(t, r.Validate())

	assert.Error(t, (&MetricRecord{Platform: PlatformMeta, Date: "2024-01-01"}).Validate())
	assert.Error(t, (&MetricRecord{ClientID: "c1", Platform: "tiktok", Date: "2024-01-01"}).Validate())
	assert.Error(t, (&MetricRecord{ClientID: "c1", Platform: PlatformMeta, Date: "1/1/2024"}).Validate())
}
