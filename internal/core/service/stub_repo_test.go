package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sehatsathi/inventory-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub store. Applies the same approved-owner filters the real
// stores put in their queries.
// ---------------------------------------------------------------------------

type stubStore struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity
	stocks     []domain.StockEntry
	createErr  error
	addErr     error
}

func newStubStore() *stubStore {
	return &stubStore{identities: make(map[string]*domain.Identity)}
}

func (s *stubStore) Create(_ context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, u := range s.identities {
		if u.Username == identity.Username || u.Email == identity.Email {
			return domain.ErrDuplicateIdentity
		}
	}
	clone := *identity
	s.identities[identity.ID] = &clone
	return nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.identities[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubStore) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.identities {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *stubStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.identities {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) ListPending(_ context.Context) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Identity
	for _, u := range s.identities {
		if u.Role == domain.RolePharmacy && !u.IsApproved {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *stubStore) Approve(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.identities[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsApproved = true
	return nil
}

func (s *stubStore) CountPharmacies(_ context.Context, approved bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.identities {
		if u.Role == domain.RolePharmacy && u.IsApproved == approved {
			n++
		}
	}
	return n, nil
}

func (s *stubStore) RecentPharmacies(_ context.Context, limit int) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Identity
	for _, u := range s.identities {
		if u.Role == domain.RolePharmacy {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return capped(out, limit), nil
}

func (s *stubStore) Add(_ context.Context, entry *domain.StockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	s.stocks = append(s.stocks, *entry)
	return nil
}

func (s *stubStore) ListByPharmacy(_ context.Context, pharmacyID string) ([]domain.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StockEntry
	for _, e := range s.stocks {
		if e.PharmacyID == pharmacyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubStore) approvedRows(keep func(domain.StockEntry) bool) []domain.OwnedStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OwnedStock
	for _, e := range s.stocks {
		owner, ok := s.identities[e.PharmacyID]
		if !ok || !owner.IsApproved || !keep(e) {
			continue
		}
		out = append(out, domain.OwnedStock{Entry: e, Owner: *owner})
	}
	return out
}

func (s *stubStore) ListAllApproved(_ context.Context) ([]domain.OwnedStock, error) {
	return s.approvedRows(func(domain.StockEntry) bool { return true }), nil
}

func (s *stubStore) CountApproved(ctx context.Context) (int64, error) {
	rows, _ := s.ListAllApproved(ctx)
	return int64(len(rows)), nil
}

func (s *stubStore) LowStock(_ context.Context, threshold int64, limit int) ([]domain.OwnedStock, error) {
	rows := s.approvedRows(func(e domain.StockEntry) bool { return e.Quantity < threshold })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Entry.Quantity < rows[j].Entry.Quantity })
	return capped(rows, limit), nil
}

func (s *stubStore) ExpiringBy(_ context.Context, cutoff time.Time, limit int) ([]domain.OwnedStock, error) {
	rows := s.approvedRows(func(e domain.StockEntry) bool { return !e.ExpiryDate.After(cutoff) })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Entry.ExpiryDate.Before(rows[j].Entry.ExpiryDate) })
	return capped(rows, limit), nil
}

func (s *stubStore) TopMedicines(_ context.Context, limit int) ([]domain.MedicineAvailability, error) {
	rows := s.approvedRows(func(domain.StockEntry) bool { return true })
	totals := map[string]*domain.MedicineAvailability{}
	pharmacies := map[string]map[string]struct{}{}
	for _, r := range rows {
		name := r.Entry.MedicineName
		if totals[name] == nil {
			totals[name] = &domain.MedicineAvailability{MedicineName: name}
			pharmacies[name] = map[string]struct{}{}
		}
		totals[name].TotalQuantity += r.Entry.Quantity
		pharmacies[name][r.Entry.PharmacyID] = struct{}{}
	}
	out := make([]domain.MedicineAvailability, 0, len(totals))
	for name, m := range totals {
		m.PharmacyCount = int64(len(pharmacies[name]))
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].MedicineName < out[j].MedicineName
	})
	return capped(out, limit), nil
}

func capped[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// stubIdempotency is an in-memory ports.IdempotencyStore.
type stubIdempotency struct {
	mu         sync.Mutex
	keys       map[string]string
	reserveErr error
	released   int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, scope, key, entryID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[scope+"/"+key]; ok {
		return id, false, nil
	}
	s.keys[scope+"/"+key] = entryID
	return entryID, true, nil
}

func (s *stubIdempotency) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, scope+"/"+key)
	s.released++
	return nil
}

// stubSnapshots is an in-memory ports.SnapshotStore.
type stubSnapshots struct {
	latest *domain.Snapshot
}

func (s *stubSnapshots) Save(_ context.Context, snap domain.Snapshot) error {
	s.latest = &snap
	return nil
}

func (s *stubSnapshots) Latest(_ context.Context) (*domain.Snapshot, error) {
	if s.latest == nil {
		return nil, domain.ErrNotFound
	}
	clone := *s.latest
	return &clone, nil
}
