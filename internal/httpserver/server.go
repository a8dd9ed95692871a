package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/config"
	"github.com/adverto/adreport/internal/database"
	"github.com/adverto/adreport/internal/ingest"
	"github.com/adverto/adreport/internal/mailer"
	"github.com/adverto/adreport/internal/metrics"
	"github.com/adverto/adreport/internal/middleware"
	"github.com/adverto/adreport/internal/models"
	"github.com/adverto/adreport/internal/report"
	"github.com/adverto/adreport/internal/storage"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB      *database.PostgresDB
	Redis   *database.RedisDB
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Server wraps HTTP handlers and the ingestion/reporting services.
type Server struct {
	ingestService *ingest.Service
	reportService *report.Service
	metricStore   storage.MetricStore
	clientRepo    storage.ClientRepo
	reportRepo    storage.ReportRepo
	scheduleRepo  storage.ScheduleRepo
	logger        *zap.Logger
	config        *config.Config
	metrics       *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	// Initialize repositories. In-memory fallbacks keep the service
	// runnable without a database for local development.
	var metricStore storage.MetricStore
	var clientRepo storage.ClientRepo
	var reportRepo storage.ReportRepo
	var scheduleRepo storage.ScheduleRepo

	if deps.DB != nil {
		metricStore = storage.NewPostgresMetricStore(deps.DB.Pool)
		clientRepo = storage.NewPostgresClientRepo(deps.DB.Pool)
		reportRepo = storage.NewPostgresReportRepo(deps.DB.Pool)
		scheduleRepo = storage.NewPostgresScheduleRepo(deps.DB.Pool)
	} else {
		metricStore = storage.NewInMemoryMetricStore()
		clientRepo = storage.NewInMemoryClientRepo()
		reportRepo = storage.NewInMemoryReportRepo()
		scheduleRepo = storage.NewInMemoryScheduleRepo()
	}

	var mail mailer.Mailer
	if deps.Config.Mail.Endpoint != "" {
		mail = mailer.NewHTTPMailer(deps.Config.Mail.Endpoint, deps.Config.Mail.APIKey, deps.Logger)
	} else {
		mail = mailer.NewNopMailer(deps.Logger)
	}

	s := &Server{
		ingestService: ingest.NewService(metricStore, deps.Logger, deps.Metrics),
		reportService: report.NewService(metricStore, reportRepo, clientRepo, mail, deps.Logger, deps.Metrics),
		metricStore:   metricStore,
		clientRepo:    clientRepo,
		reportRepo:    reportRepo,
		scheduleRepo:  scheduleRepo,
		logger:        deps.Logger,
		config:        deps.Config,
		metrics:       deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Client management
	mux.HandleFunc("/clients", s.handleClients)
	mux.HandleFunc("/clients/", s.handleClientByID)

	// CSV import
	mux.HandleFunc("/import/preview", s.handleImportPreview)
	mux.HandleFunc("/import/commit", s.handleImportCommit)

	// Manual entry
	mux.HandleFunc("/entries/daily", s.handleEntriesDaily)
	mux.HandleFunc("/entries/range", s.handleEntriesRange)

	// Metric records
	mux.HandleFunc("/records", s.handleRecords)
	mux.HandleFunc("/records/export", s.handleRecordsExport)
	mux.HandleFunc("/accounts", s.handleAccounts)

	// Dashboard
	mux.HandleFunc("/dashboard/summary", s.handleDashboardSummary)
	mux.HandleFunc("/dashboard/platforms", s.handleDashboardPlatforms)
	mux.HandleFunc("/dashboard/timeseries", s.handleDashboardTimeseries)

	// Reports
	mux.HandleFunc("/reports", s.handleReports)
	mux.HandleFunc("/reports/", s.handleReportByID)

	// Schedules
	mux.HandleFunc("/schedules", s.handleSchedules)
	mux.HandleFunc("/schedules/", s.handleScheduleByID)

	return mux
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Access helpers ----

// principal returns the request identity, or an admin stand-in when
// auth is disabled.
func (s *Server) principal(r *http.Request) *middleware.Principal {
	if p := middleware.PrincipalFromContext(r.Context()); p != nil {
		return p
	}
	if !s.config.Auth.Enabled {
		return &middleware.Principal{Role: middleware.RoleAdmin}
	}
	return nil
}

// requireAdmin writes a 403 and returns false unless the caller is an
// admin.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.principal(r).IsAdmin() {
		return true
	}
	s.errorResponse(w, "admin role required", http.StatusForbidden)
	return false
}

// requireClientAccess writes a 403 and returns false unless the caller
// may see the given client's data.
func (s *Server) requireClientAccess(w http.ResponseWriter, r *http.Request, clientID string) bool {
	if clientID == "" {
		s.errorResponse(w, "client_id is required", http.StatusBadRequest)
		return false
	}
	if s.principal(r).CanAccessClient(clientID) {
		return true
	}
	s.errorResponse(w, "forbidden", http.StatusForbidden)
	return false
}

// filterFromQuery builds a record filter from URL parameters. The
// presence of an "account" parameter (even empty) turns on account
// matching so the unassigned bucket stays addressable.
func filterFromQuery(r *http.Request) storage.Filter {
	q := r.URL.Query()
	f := storage.Filter{
		ClientID:  q.Get("client_id"),
		Platform:  models.Platform(q.Get("platform")),
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
	}
	if q.Has("account") {
		f.Account = q.Get("account")
		f.HasAccount = true
	}
	return f
}

// ---- Clients CRUD ----

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		list, err := s.clientRepo.ListClients(r.Context())
		if err != nil {
			s.logger.Error("failed to list clients", zap.Error(err))
			s.errorResponse(w, "failed to list", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var c models.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := c.Validate(); err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		now := time.Now().UTC()
		if c.ID == "" {
			c.ID = newID()
			c.CreatedAt = now
			c.Active = true
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		if err := s.clientRepo.UpsertClient(r.Context(), &c); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, c)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleClientByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/clients/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !s.requireClientAccess(w, r, id) {
			return
		}
		c, err := s.clientRepo.GetClient(r.Context(), id)
		if err != nil {
			s.logger.Error("failed to get client", zap.Error(err))
			s.errorResponse(w, "error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if c == nil {
			http.NotFound(w, r)
			return
		}
		s.jsonResponse(w, c)

	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		existing, err := s.clientRepo.GetClient(r.Context(), id)
		if err != nil {
			s.errorResponse(w, "error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if existing == nil {
			http.NotFound(w, r)
			return
		}
		var update models.Client
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		update.ID = id
		update.CreatedAt = existing.CreatedAt
		update.UpdatedAt = time.Now().UTC()
		if err := update.Validate(); err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.clientRepo.UpsertClient(r.Context(), &update); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, update)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		// Best effort: clear the client's metric rows first so a
		// failed client delete doesn't strand orphans behind a
		// dropped foreign key.
		if _, err := s.metricStore.DeleteByFilter(r.Context(), storage.Filter{ClientID: id}); err != nil {
			s.logger.Warn("failed to clear client records before delete", zap.Error(err))
		}
		if err := s.clientRepo.DeleteClient(r.Context(), id); err != nil {
			s.errorResponse(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, map[string]string{"deleted": id})

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- CSV import ----

type importPreviewRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req importPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	preview, err := s.ingestService.PreviewCSV(req.Text)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, preview)
}

type importCommitRequest struct {
	Text    string               `json:"text"`
	Mapping models.ColumnMapping `json:"mapping"`
	Scope   ingest.Scope         `json:"scope"`
}

func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req importCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	count, err := s.ingestService.CommitCSV(r.Context(), req.Text, req.Mapping, req.Scope)
	if err != nil {
		// Partial writes are possible: chunks before the failure stay
		// committed. The count tells the caller how far it got.
		s.jsonError(w, err.Error(), http.StatusBadGateway, map[string]interface{}{"written": count})
		return
	}
	s.jsonResponse(w, map[string]int{"written": count})
}

// ---- Manual entry ----

type dailyEntriesRequest struct {
	Entries []ingest.DailyEntry `json:"entries"`
	Scope   ingest.Scope        `json:"scope"`
}

func (s *Server) handleEntriesDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req dailyEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	count, err := s.ingestService.CommitDaily(r.Context(), req.Entries, req.Scope)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, map[string]int{"written": count})
}

type rangeEntryRequest struct {
	Entry ingest.RangeEntry `json:"entry"`
	Scope ingest.Scope      `json:"scope"`
}

func (s *Server) handleEntriesRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	var req rangeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}
	count, err := s.ingestService.CommitRange(r.Context(), req.Entry, req.Scope)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, map[string]int{"written": count})
}

// ---- Metric records ----

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	switch r.Method {
	case http.MethodGet:
		if !s.requireClientAccess(w, r, f.ClientID) {
			return
		}
		records, err := s.metricStore.Query(r.Context(), f)
		if err != nil {
			s.logger.Error("failed to query records", zap.Error(err))
			s.errorResponse(w, "failed to query", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, records)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if f.ClientID == "" {
			s.errorResponse(w, "client_id is required", http.StatusBadRequest)
			return
		}
		n, err := s.metricStore.DeleteByFilter(r.Context(), f)
		if err != nil {
			s.errorResponse(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordsDeleted.WithLabelValues(string(f.Platform)).Add(float64(n))
		}
		s.jsonResponse(w, map[string]int64{"deleted": n})

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRecordsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f := filterFromQuery(r)
	if !s.requireClientAccess(w, r, f.ClientID) {
		return
	}

	records, err := s.metricStore.Query(r.Context(), f)
	if err != nil {
		s.errorResponse(w, "failed to query", http.StatusInternalServerError)
		return
	}
	symbol := "€"
	if c, err := s.clientRepo.GetClient(r.Context(), f.ClientID); err == nil && c != nil {
		switch c.Currency {
		case "USD":
			symbol = "$"
		case "GBP":
			symbol = "£"
		}
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="records.csv"`)
	w.Write([]byte(report.ExportRecordsCSV(records, symbol)))
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	clientID := q.Get("client_id")
	if !s.requireClientAccess(w, r, clientID) {
		return
	}
	accounts, err := s.metricStore.ListAccounts(r.Context(), clientID, models.Platform(q.Get("platform")))
	if err != nil {
		s.errorResponse(w, "failed to list accounts", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, accounts)
}

// ---- Dashboard ----

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f := filterFromQuery(r)
	if !s.requireClientAccess(w, r, f.ClientID) {
		return
	}
	summary, err := s.reportService.Summary(r.Context(), f)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, summary)
}

func (s *Server) handleDashboardPlatforms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f := filterFromQuery(r)
	if !s.requireClientAccess(w, r, f.ClientID) {
		return
	}
	records, err := s.metricStore.Query(r.Context(), f)
	if err != nil {
		s.errorResponse(w, "failed to query", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, report.ByPlatform(records))
}

func (s *Server) handleDashboardTimeseries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f := filterFromQuery(r)
	if !s.requireClientAccess(w, r, f.ClientID) {
		return
	}
	records, err := s.metricStore.Query(r.Context(), f)
	if err != nil {
		s.errorResponse(w, "failed to query", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, report.ByDate(records))
}

// ---- Reports ----

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clientID := r.URL.Query().Get("client_id")
		p := s.principal(r)
		if !p.IsAdmin() {
			// Client logins only ever see their own reports.
			if p == nil || p.ClientID == "" {
				s.errorResponse(w, "forbidden", http.StatusForbidden)
				return
			}
			clientID = p.ClientID
		}
		list, err := s.reportRepo.ListSnapshots(r.Context(), clientID)
		if err != nil {
			s.errorResponse(w, "failed to list reports", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var req report.SnapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		snapshot, err := s.reportService.GenerateSnapshot(r.Context(), req)
		if err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, snapshot)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/reports/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	snapshot, err := s.reportRepo.GetSnapshot(r.Context(), id)
	if err != nil {
		s.errorResponse(w, "error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		http.NotFound(w, r)
		return
	}
	if !s.requireClientAccess(w, r, snapshot.ClientID) {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.jsonResponse(w, snapshot)

	case action == "export" && r.Method == http.MethodGet:
		csv, err := s.reportService.ExportSnapshot(r.Context(), id)
		if err != nil {
			s.errorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		w.Write([]byte(csv))

	case action == "send" && r.Method == http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var body struct {
			Recipients []string `json:"recipients"`
		}
		// Body is optional; default recipients come from the client.
		_ = json.NewDecoder(r.Body).Decode(&body)
		if err := s.reportService.DeliverReport(r.Context(), id, body.Recipients); err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadGateway)
			return
		}
		s.jsonResponse(w, map[string]string{"sent": id})

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Schedules ----

func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clientID := r.URL.Query().Get("client_id")
		p := s.principal(r)
		if !p.IsAdmin() {
			if p == nil || p.ClientID == "" {
				s.errorResponse(w, "forbidden", http.StatusForbidden)
				return
			}
			clientID = p.ClientID
		}
		list, err := s.scheduleRepo.ListSchedules(r.Context(), clientID)
		if err != nil {
			s.errorResponse(w, "failed to list schedules", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		if !s.requireAdmin(w, r) {
			return
		}
		var sched models.ReportSchedule
		if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := sched.Validate(); err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		now := time.Now().UTC()
		if sched.ID == "" {
			sched.ID = newID()
			sched.CreatedAt = now
		}
		if sched.CreatedAt.IsZero() {
			sched.CreatedAt = now
		}
		sched.UpdatedAt = now
		if err := s.scheduleRepo.UpsertSchedule(r.Context(), &sched); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, sched)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleScheduleByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/schedules/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	sched, err := s.scheduleRepo.GetSchedule(r.Context(), id)
	if err != nil {
		s.errorResponse(w, "error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if sched == nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !s.requireClientAccess(w, r, sched.ClientID) {
			return
		}
		s.jsonResponse(w, sched)

	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		var update models.ReportSchedule
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		update.ID = id
		update.CreatedAt = sched.CreatedAt
		update.UpdatedAt = time.Now().UTC()
		if err := update.Validate(); err != nil {
			s.errorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.scheduleRepo.UpsertSchedule(r.Context(), &update); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, update)

	case http.MethodDelete:
		if !s.requireAdmin(w, r) {
			return
		}
		if err := s.scheduleRepo.DeleteSchedule(r.Context(), id); err != nil {
			s.errorResponse(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, map[string]string{"deleted": id})

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func newID() string {
	return uuid.New().String()
}

// ---- Response helpers ----

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) jsonError(w http.ResponseWriter, message string, code int, extra map[string]interface{}) {
	body := map[string]interface{}{"error": message}
	for k, v := range extra {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
