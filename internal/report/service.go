package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/mailer"
	"github.com/adverto/adreport/internal/metrics"
	"github.com/adverto/adreport/internal/models"
	"github.com/adverto/adreport/internal/storage"
)

// Summary is the live dashboard payload: fresh aggregates over the
// requested window plus the comparison against the preceding window.
// Nothing here is cached; every request recomputes from the record set.
type Summary struct {
	StartDate  string                                     `json:"start_date"`
	EndDate    string                                     `json:"end_date"`
	Totals     models.AggregateTotals                     `json:"totals"`
	ByPlatform map[models.Platform]models.AggregateTotals `json:"by_platform"`
	ByDate     []models.DailyPoint                        `json:"by_date"`
	Deltas     map[string]*models.Delta                   `json:"deltas"`
	Split      models.ConversionSplit                     `json:"conversion_split"`
}

// Service computes dashboard aggregates and frozen report snapshots.
type Service struct {
	store   storage.MetricStore
	reports storage.ReportRepo
	clients storage.ClientRepo
	mail    mailer.Mailer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService constructs a reporting service. metrics may be nil in
// tests.
func NewService(
	store storage.MetricStore,
	reports storage.ReportRepo,
	clients storage.ClientRepo,
	mail mailer.Mailer,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:   store,
		reports: reports,
		clients: clients,
		mail:    mail,
		logger:  logger,
		metrics: m,
	}
}

// Summary aggregates the filtered record set and compares it against the
// immediately preceding window of identical length. Empty record sets
// degrade to zero totals, never an error.
func (s *Service) Summary(ctx context.Context, f storage.Filter) (*Summary, error) {
	if f.StartDate == "" || f.EndDate == "" {
		return nil, errors.New("summary: start and end dates are required")
	}

	records, err := s.store.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	totals := Totals(records)

	prevStart, prevEnd, err := PreviousPeriod(f.StartDate, f.EndDate)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	prevFilter := f
	prevFilter.StartDate = prevStart
	prevFilter.EndDate = prevEnd
	prevRecords, err := s.store.Query(ctx, prevFilter)
	if err != nil {
		return nil, err
	}

	return &Summary{
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Totals:     totals,
		ByPlatform: ByPlatform(records),
		ByDate:     ByDate(records),
		Deltas:     Deltas(totals, Totals(prevRecords)),
		Split:      ConversionSplit(totals.Conversions),
	}, nil
}

// SnapshotRequest names what a generated report covers.
type SnapshotRequest struct {
	ClientID         string   `json:"client_id"`
	Name             string   `json:"name"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	SelectedMetrics  []string `json:"selected_metrics,omitempty"`
	SelectedAccounts []string `json:"selected_accounts,omitempty"`
}

// GenerateSnapshot runs the aggregation once over the request window and
// persists the frozen result. The snapshot is never recomputed; later
// reads render exactly what was captured here.
func (s *Service) GenerateSnapshot(ctx context.Context, req SnapshotRequest) (*models.ReportSnapshot, error) {
	if req.ClientID == "" {
		return nil, errors.New("report: client_id is required")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return nil, errors.New("report: start and end dates are required")
	}
	if req.StartDate > req.EndDate {
		return nil, errors.New("report: start date is after end date")
	}

	f := storage.Filter{
		ClientID:  req.ClientID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Accounts:  req.SelectedAccounts,
	}
	summary, err := s.Summary(ctx, f)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Report %s - %s", req.StartDate, req.EndDate)
	}

	snapshot := &models.ReportSnapshot{
		ID:               uuid.New().String(),
		ClientID:         req.ClientID,
		Name:             name,
		SchemaVersion:    models.SnapshotSchemaVersion,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		SelectedMetrics:  req.SelectedMetrics,
		SelectedAccounts: req.SelectedAccounts,
		Totals:           summary.Totals,
		ByPlatform:       summary.ByPlatform,
		ByDate:           summary.ByDate,
		Deltas:           summary.Deltas,
		Split:            summary.Split,
		GeneratedAt:      time.Now().UTC(),
	}

	if err := s.reports.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReportsGenerated.WithLabelValues(req.ClientID).Inc()
	}
	s.logger.Info("report snapshot generated",
		zap.String("report_id", snapshot.ID),
		zap.String("client_id", snapshot.ClientID),
		zap.String("range", snapshot.StartDate+".."+snapshot.EndDate),
	)
	return snapshot, nil
}

// ExportSnapshot renders a stored snapshot's tables as delimited text
// for download, using the client's display currency.
func (s *Service) ExportSnapshot(ctx context.Context, id string) (string, error) {
	snapshot, err := s.reports.GetSnapshot(ctx, id)
	if err != nil {
		return "", err
	}
	if snapshot == nil {
		return "", fmt.Errorf("report %s not found", id)
	}

	symbol := s.currencySymbol(ctx, snapshot.ClientID)

	rows := []TotalsRow{{Label: "Total", Totals: snapshot.Totals}}
	for _, p := range []models.Platform{models.PlatformGoogle, models.PlatformMeta} {
		if t, ok := snapshot.ByPlatform[p]; ok {
			rows = append(rows, TotalsRow{Label: string(p), Totals: t})
		}
	}
	return ExportTotalsCSV(rows, symbol), nil
}

// DeliverReport hands a generated snapshot to the email provider and
// marks it sent. Rendering is a plain summary document; templating lives
// with the provider.
func (s *Service) DeliverReport(ctx context.Context, id string, recipients []string) error {
	snapshot, err := s.reports.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("report %s not found", id)
	}
	if len(recipients) == 0 {
		client, err := s.clients.GetClient(ctx, snapshot.ClientID)
		if err != nil {
			return err
		}
		if client == nil || client.Email == "" {
			return errors.New("report: no recipients and client has no email")
		}
		recipients = []string{client.Email}
	}

	symbol := s.currencySymbol(ctx, snapshot.ClientID)
	msg := mailer.Message{
		To:      recipients,
		Subject: snapshot.Name,
		HTML:    renderSnapshotHTML(snapshot, symbol),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return err
	}
	if err := s.reports.MarkSent(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ReportsSent.WithLabelValues(snapshot.ClientID).Inc()
	}
	return nil
}

func (s *Service) currencySymbol(ctx context.Context, clientID string) string {
	symbol := "€"
	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil || client == nil {
		return symbol
	}
	switch client.Currency {
	case "USD":
		symbol = "$"
	case "GBP":
		symbol = "£"
	}
	return symbol
}

// renderSnapshotHTML produces the minimal document handed to the
// provider. Proper report templates are the provider's job.
func renderSnapshotHTML(s *models.ReportSnapshot, symbol string) string {
	return fmt.Sprintf(
		"<h1>%s</h1><p>%s to %s</p><p>Spend: %s, Conversions: %s, ROAS: %.2f</p>",
		s.Name, s.StartDate, s.EndDate,
		FormatMoney(symbol, s.Totals.Spend),
		FormatCount(s.Totals.Conversions),
		s.Totals.ROAS,
	)
}
