package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adverto/adreport/internal/models"
)

func seedStore(t *testing.T) *InMemoryMetricStore {
	t.Helper()
	store := NewInMemoryMetricStore()
	err := store.BatchUpsert(context.Background(), []models.MetricRecord{
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "Brand", Spend: 10},
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-02", AccountName: "Brand", Spend: 20},
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-03", AccountName: "", Spend: 5},
		{ClientID: "c1", Platform: models.PlatformMeta, Date: "2024-01-01", AccountName: "Default", Spend: 7},
		{ClientID: "c2", Platform: models.PlatformMeta, Date: "2024-01-01", AccountName: "null", Spend: 9},
	})
	require.NoError(t, err)
	return store
}

func TestInMemoryMetricStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryMetricStore()

	r := models.MetricRecord{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "Brand", Spend: 10}
	require.NoError(t, store.BatchUpsert(ctx, []models.MetricRecord{r}))
	r.Spend = 99
	require.NoError(t, store.BatchUpsert(ctx, []models.MetricRecord{r}))

	assert.Equal(t, 1, store.Len())
	records, err := store.Query(ctx, Filter{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 99, records[0].Spend, 0.001)
}

func TestInMemoryMetricStoreUpsertCollapsesUnassigned(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryMetricStore()

	// Same (client, platform, date) under two unassigned spellings is one
	// logical row.
	require.NoError(t, store.BatchUpsert(ctx, []models.MetricRecord{
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "Default", Spend: 10},
		{ClientID: "c1", Platform: models.PlatformGoogle, Date: "2024-01-01", AccountName: "", Spend: 20},
	}))
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryMetricStoreQuery(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	t.Run("filters by client and platform", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1", Platform: models.PlatformGoogle})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1", StartDate: "2024-01-02", EndDate: "2024-01-03"})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("sorted by date then platform", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1"})
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "2024-01-01", records[0].Date)
		assert.Equal(t, models.PlatformGoogle, records[0].Platform)
		assert.Equal(t, models.PlatformMeta, records[1].Platform)
	})

	t.Run("unassigned variants match each other", func(t *testing.T) {
		for _, label := range []string{"", "Default", "null"} {
			records, err := store.Query(ctx, Filter{ClientID: "c1", Account: label, HasAccount: true})
			require.NoError(t, err)
			// The "" google row and the "Default" meta row both belong to
			// the unassigned bucket.
			assert.Len(t, records, 2, "label %q", label)
		}
	})

	t.Run("named account matches only itself", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1", Account: "Brand", HasAccount: true})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("account set restricts to the listed labels", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1", Accounts: []string{"Brand"}})
		require.NoError(t, err)
		assert.Len(t, records, 2)

		// Unassigned labels in the set pull in every variant.
		records, err = store.Query(ctx, Filter{ClientID: "c1", Accounts: []string{"Brand", "Default"}})
		require.NoError(t, err)
		assert.Len(t, records, 4)

		records, err = store.Query(ctx, Filter{ClientID: "c1", Accounts: []string{"Other"}})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("absent account filter matches everything", func(t *testing.T) {
		records, err := store.Query(ctx, Filter{ClientID: "c1"})
		require.NoError(t, err)
		assert.Len(t, records, 4)
	})
}

func TestInMemoryMetricStoreDeleteByFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the unassigned bucket across variants", func(t *testing.T) {
		store := seedStore(t)
		n, err := store.DeleteByFilter(ctx, Filter{ClientID: "c1", Account: "Default", HasAccount: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, 3, store.Len())
	})

	t.Run("deletes by client scope", func(t *testing.T) {
		store := seedStore(t)
		n, err := store.DeleteByFilter(ctx, Filter{ClientID: "c2"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestInMemoryMetricStoreListAccounts(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	t.Run("collapses unassigned variants", func(t *testing.T) {
		accounts, err := store.ListAccounts(ctx, "c1", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"", "Brand"}, accounts)
	})

	t.Run("scopes to platform", func(t *testing.T) {
		accounts, err := store.ListAccounts(ctx, "c1", models.PlatformMeta)
		require.NoError(t, err)
		assert.Equal(t, []string{""}, accounts)
	})
}

func TestInMemoryClientRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryClientRepo()

	c := &models.Client{ID: "c1", Name: "Acme", Email: "ops@acme.test", Currency: "EUR", Active: true}
	require.NoError(t, repo.UpsertClient(ctx, c))

	got, err := repo.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Name)

	// Returned copies do not alias the stored value.
	got.Name = "mutated"
	again, err := repo.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Name)

	missing, err := repo.GetClient(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.DeleteClient(ctx, "c1"))
	list, err := repo.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemoryReportRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReportRepo()

	s := &models.ReportSnapshot{ID: "r1", ClientID: "c1", GeneratedAt: time.Now().UTC()}
	require.NoError(t, repo.SaveSnapshot(ctx, s))

	require.NoError(t, repo.MarkSent(ctx, "r1"))
	got, err := repo.GetSnapshot(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.SentAt)

	assert.Error(t, repo.MarkSent(ctx, "missing"))

	list, err := repo.ListSnapshots(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
