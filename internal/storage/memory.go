package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/adverto/adreport/internal/models"
)

// InMemoryMetricStore is a map-backed MetricStore keyed on the record's
// uniqueness tuple. It is intended for tests and for running the service
// without a database; the Postgres store is the production path.
type InMemoryMetricStore struct {
	mu      sync.RWMutex
	records map[string]models.MetricRecord
}

// NewInMemoryMetricStore creates an empty in-memory metric store.
func NewInMemoryMetricStore() *InMemoryMetricStore {
	return &InMemoryMetricStore{records: make(map[string]models.MetricRecord)}
}

// BatchUpsert overwrites any existing record with the same key.
func (s *InMemoryMetricStore) BatchUpsert(ctx context.Context, records []models.MetricRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.Key()] = r
	}
	return nil
}

// Query returns records matching the filter, sorted by date then
// platform for stable output.
func (s *InMemoryMetricStore) Query(ctx context.Context, f Filter) ([]models.MetricRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MetricRecord
	for _, r := range s.records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Platform < out[j].Platform
	})
	return out, nil
}

// DeleteByFilter removes matching records.
func (s *InMemoryMetricStore) DeleteByFilter(ctx context.Context, f Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, r := range s.records {
		if matches(r, f) {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}

// ListAccounts returns distinct account labels for a client and
// platform, with the unassigned variants collapsed to "".
func (s *InMemoryMetricStore) ListAccounts(ctx context.Context, clientID string, platform models.Platform) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for _, r := range s.records {
		if r.ClientID != clientID {
			continue
		}
		if platform != "" && r.Platform != platform {
			continue
		}
		name := r.AccountName
		if models.IsUnassignedAccount(name) {
			name = ""
		}
		seen[name] = true
	}
	accounts := make([]string, 0, len(seen))
	for name := range seen {
		accounts = append(accounts, name)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// Len returns the number of stored records.
func (s *InMemoryMetricStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func matches(r models.MetricRecord, f Filter) bool {
	if f.ClientID != "" && r.ClientID != f.ClientID {
		return false
	}
	if f.Platform != "" && r.Platform != f.Platform {
		return false
	}
	if f.StartDate != "" && r.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && r.Date > f.EndDate {
		return false
	}
	if f.HasAccount && !models.SameAccount(r.AccountName, f.Account) {
		return false
	}
	if len(f.Accounts) > 0 {
		found := false
		for _, a := range f.Accounts {
			if models.SameAccount(r.AccountName, a) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// InMemoryClientRepo stores clients in a map.
type InMemoryClientRepo struct {
	mu      sync.RWMutex
	clients map[string]*models.Client
}

// NewInMemoryClientRepo creates an empty client repo.
func NewInMemoryClientRepo() *InMemoryClientRepo {
	return &InMemoryClientRepo{clients: make(map[string]*models.Client)}
}

func (r *InMemoryClientRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryClientRepo) ListClients(ctx context.Context) ([]*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryClientRepo) UpsertClient(ctx context.Context, c *models.Client) error {
	if c == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *InMemoryClientRepo) DeleteClient(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

// InMemoryReportRepo stores snapshots in a map.
type InMemoryReportRepo struct {
	mu        sync.RWMutex
	snapshots map[string]*models.ReportSnapshot
}

// NewInMemoryReportRepo creates an empty report repo.
func NewInMemoryReportRepo() *InMemoryReportRepo {
	return &InMemoryReportRepo{snapshots: make(map[string]*models.ReportSnapshot)}
}

func (r *InMemoryReportRepo) SaveSnapshot(ctx context.Context, s *models.ReportSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.snapshots[s.ID] = &cp
	return nil
}

func (r *InMemoryReportRepo) GetSnapshot(ctx context.Context, id string) (*models.ReportSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.snapshots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryReportRepo) ListSnapshots(ctx context.Context, clientID string) ([]*models.ReportSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ReportSnapshot
	for _, s := range r.snapshots {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, nil
}

func (r *InMemoryReportRepo) MarkSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return fmt.Errorf("report %s not found", id)
	}
	now := time.Now().UTC()
	s.SentAt = &now
	return nil
}

// InMemoryScheduleRepo stores schedule rows in a map.
type InMemoryScheduleRepo struct {
	mu        sync.RWMutex
	schedules map[string]*models.ReportSchedule
}

// NewInMemoryScheduleRepo creates an empty schedule repo.
func NewInMemoryScheduleRepo() *InMemoryScheduleRepo {
	return &InMemoryScheduleRepo{schedules: make(map[string]*models.ReportSchedule)}
}

func (r *InMemoryScheduleRepo) GetSchedule(ctx context.Context, id string) (*models.ReportSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schedules[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryScheduleRepo) ListSchedules(ctx context.Context, clientID string) ([]*models.ReportSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ReportSchedule
	for _, s := range r.schedules {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryScheduleRepo) UpsertSchedule(ctx context.Context, s *models.ReportSchedule) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *InMemoryScheduleRepo) DeleteSchedule(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schedules, id)
	return nil
}
