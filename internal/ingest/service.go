package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/metrics"
	"github.com/adverto/adreport/internal/models"
	"github.com/adverto/adreport/internal/storage"
)

// ChunkSize is how many records go into one upsert call. The backend
// accepts batches of at least this size; larger imports are split.
const ChunkSize = 100

// Preview is what an uploaded file looks like before commit: the parsed
// headers, the auto-detected mapping the user may override, and a sample
// of rows for the mapping UI.
type Preview struct {
	Headers    []string             `json:"headers"`
	Mapping    models.ColumnMapping `json:"mapping"`
	RowCount   int                  `json:"row_count"`
	SampleRows []map[string]string  `json:"sample_rows"`
}

// Service runs the ingestion pipeline end to end: parse, normalize,
// chunked idempotent commit.
type Service struct {
	store   storage.MetricStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService constructs an ingestion service. metrics may be nil in
// tests.
func NewService(store storage.MetricStore, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

// PreviewCSV parses raw delimited text and auto-detects the column
// mapping. An empty or header-only file yields a validation error before
// anything else happens.
func (s *Service) PreviewCSV(text string) (*Preview, error) {
	headers, rows := ParseDelimitedText(text)
	if len(headers) == 0 || len(rows) == 0 {
		return nil, errors.New("file is empty or has no data rows")
	}
	sample := rows
	if len(sample) > 5 {
		sample = sample[:5]
	}
	return &Preview{
		Headers:    headers,
		Mapping:    AutoDetectMapping(headers),
		RowCount:   len(rows),
		SampleRows: sample,
	}, nil
}

// CommitCSV parses the text under the given mapping and scope and
// commits the resulting records. Returns the number of records written.
func (s *Service) CommitCSV(ctx context.Context, text string, mapping models.ColumnMapping, scope Scope) (int, error) {
	_, rows := ParseDelimitedText(text)
	if len(rows) == 0 {
		return 0, errors.New("file is empty or has no data rows")
	}
	records, err := BuildRecords(rows, mapping, scope)
	if err != nil {
		return 0, err
	}
	if dropped := len(rows) - len(records); dropped > 0 {
		s.logger.Info("dropped rows with invalid dates",
			zap.Int("dropped", dropped),
			zap.String("client_id", scope.ClientID),
		)
		if s.metrics != nil {
			s.metrics.RowsDropped.WithLabelValues(string(scope.Platform), "invalid_date").Add(float64(dropped))
		}
	}
	return s.Commit(ctx, records, "csv")
}

// CommitDaily commits manually entered daily rows.
func (s *Service) CommitDaily(ctx context.Context, entries []DailyEntry, scope Scope) (int, error) {
	records, err := DailyRecords(entries, scope)
	if err != nil {
		return 0, err
	}
	return s.Commit(ctx, records, "daily")
}

// CommitRange spreads a period total across its days and commits the
// result.
func (s *Service) CommitRange(ctx context.Context, entry RangeEntry, scope Scope) (int, error) {
	records, err := SpreadRange(entry, scope)
	if err != nil {
		return 0, err
	}
	return s.Commit(ctx, records, "range")
}

// Commit writes records in chunks of ChunkSize, sequentially. Each chunk
// is an idempotent upsert, so re-running the same import replaces rows
// instead of duplicating them. On a chunk failure the batch stops and
// the storage error surfaces; chunks already written stay written. There
// is no cross-chunk transaction.
func (s *Service) Commit(ctx context.Context, records []models.MetricRecord, source string) (int, error) {
	if len(records) == 0 {
		return 0, errors.New("no valid records to import")
	}
	platform := string(records[0].Platform)
	start := time.Now()

	written := 0
	chunks := 0
	for offset := 0; offset < len(records); offset += ChunkSize {
		end := offset + ChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]
		if err := s.store.BatchUpsert(ctx, chunk); err != nil {
			if s.metrics != nil {
				s.metrics.RecordImportFailure(platform)
			}
			s.logger.Error("import aborted on failing chunk",
				zap.Int("chunk", chunks+1),
				zap.Int("written", written),
				zap.Error(err),
			)
			return written, fmt.Errorf("chunk %d failed after %d records: %w", chunks+1, written, err)
		}
		written += len(chunk)
		chunks++
	}

	if s.metrics != nil {
		s.metrics.RecordImport(platform, source, written, chunks, time.Since(start))
	}
	s.logger.Info("import committed",
		zap.Int("records", written),
		zap.Int("chunks", chunks),
		zap.String("source", source),
		zap.String("client_id", records[0].ClientID),
	)
	return written, nil
}
