package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/models"
	"github.com/adverto/adreport/internal/storage"
)

// failOnChunk wraps a metric store and fails the nth BatchUpsert call.
type failOnChunk struct {
	storage.MetricStore
	calls   int
	failAt  int
	lastErr error
}

func (f *failOnChunk) BatchUpsert(ctx context.Context, records []models.MetricRecord) error {
	f.calls++
	if f.calls == f.failAt {
		f.lastErr = errors.New("connection reset")
		return f.lastErr
	}
	return f.MetricStore.BatchUpsert(ctx, records)
}

func newTestService(store storage.MetricStore) *Service {
	return NewService(store, zap.NewNop(), nil)
}

func buildCSV(days int) string {
	var b strings.Builder
	b.WriteString("Day,Cost (EUR)\n")
	for i := 0; i < days; i++ {
		fmt.Fprintf(&b, "2024-%02d-%02d,10\n", i/28+1, i%28+1)
	}
	return b.String()
}

func TestServicePreviewCSV(t *testing.T) {
	svc := newTestService(storage.NewInMemoryMetricStore())

	t.Run("detects mapping and samples rows", func(t *testing.T) {
		preview, err := svc.PreviewCSV(buildCSV(12))
		require.NoError(t, err)
		assert.Equal(t, []string{"Day", "Cost (EUR)"}, preview.Headers)
		assert.Equal(t, "Day", preview.Mapping.Date)
		assert.Equal(t, "Cost (EUR)", preview.Mapping.Spend)
		assert.Equal(t, 12, preview.RowCount)
		assert.Len(t, preview.SampleRows, 5)
	})

	t.Run("header-only file errors", func(t *testing.T) {
		_, err := svc.PreviewCSV("Day,Cost (EUR)\n")
		assert.Error(t, err)
	})
}

func TestServiceCommitCSVIdempotent(t *testing.T) {
	store := storage.NewInMemoryMetricStore()
	svc := newTestService(store)
	ctx := context.Background()

	text := buildCSV(30)
	mapping := models.ColumnMapping{Date: "Day", Spend: "Cost (EUR)"}

	n, err := svc.CommitCSV(ctx, text, mapping, testScope())
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, 30, store.Len())

	// Re-importing the same file replaces the same rows.
	n, err = svc.CommitCSV(ctx, text, mapping, testScope())
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, 30, store.Len())

	records, err := store.Query(ctx, storage.Filter{ClientID: "client-1"})
	require.NoError(t, err)
	total := 0.0
	for _, r := range records {
		total += r.Spend
	}
	assert.InDelta(t, 300, total, 0.001)
}

func TestServiceCommitChunking(t *testing.T) {
	ctx := context.Background()

	makeRecords := func(n int) []models.MetricRecord {
		records := make([]models.MetricRecord, n)
		for i := range records {
			records[i] = models.MetricRecord{
				ClientID: "client-1",
				Platform: models.PlatformGoogle,
				Date:     fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
				Spend:    1,
			}
		}
		return records
	}

	t.Run("large import splits into chunks of one hundred", func(t *testing.T) {
		inner := storage.NewInMemoryMetricStore()
		probe := &failOnChunk{MetricStore: inner, failAt: -1}
		svc := newTestService(probe)

		n, err := svc.Commit(ctx, makeRecords(250), "csv")
		require.NoError(t, err)
		assert.Equal(t, 250, n)
		assert.Equal(t, 3, probe.calls)
	})

	t.Run("failing chunk stops the batch and keeps earlier chunks", func(t *testing.T) {
		inner := storage.NewInMemoryMetricStore()
		probe := &failOnChunk{MetricStore: inner, failAt: 2}
		svc := newTestService(probe)

		n, err := svc.Commit(ctx, makeRecords(250), "csv")
		require.Error(t, err)
		assert.ErrorIs(t, err, probe.lastErr)
		assert.Contains(t, err.Error(), "chunk 2")
		assert.Equal(t, 100, n)
		// The first chunk stays written; the third is never attempted.
		assert.Equal(t, 100, inner.Len())
		assert.Equal(t, 2, probe.calls)
	})

	t.Run("empty record set errors", func(t *testing.T) {
		svc := newTestService(storage.NewInMemoryMetricStore())
		_, err := svc.Commit(ctx, nil, "csv")
		assert.Error(t, err)
	})
}
