// Package store holds the in-process cache of the four record collections.
// It is a cache, never the system of record: every mutation must round-trip
// through a repository before Refresh makes it visible here.
package store

import (
	"context"
	"fmt"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
)

// Kind identifies one of the four cached record collections.
type Kind string

const (
	KindPatient     Kind = "patient"
	KindAppointment Kind = "appointment"
	KindDeadline    Kind = "deadline"
	KindInventory   Kind = "inventory"
)

// AllKinds lists every cached collection.
func AllKinds() []Kind {
	return []Kind{KindPatient, KindAppointment, KindDeadline, KindInventory}
}

// fetchLimit bounds a collection refresh pull.
const fetchLimit = 1000

// Repos bundles the repositories the store refreshes from.
type Repos struct {
	Patients     repository.PatientRepository
	Appointments repository.AppointmentRepository
	Deadlines    repository.DeadlineRepository
	Inventory    repository.InventoryRepository
}

// Store caches collection snapshots. Each Refresh replaces a collection
// atomically, so readers see either the previous or the new snapshot,
// never a partially replaced one. On refresh failure the previous
// snapshot stays in place (stale-but-valid); before the first successful
// refresh, reads return empty collections.
type Store struct {
	repos     Repos
	snapshots *gocache.Cache
	metrics   *metrics.Metrics
}

func New(repos Repos, m *metrics.Metrics) *Store {
	return &Store{
		repos:     repos,
		snapshots: gocache.New(gocache.NoExpiration, 0),
		metrics:   m,
	}
}

// Refresh re-fetches the given collections (all four when none are named)
// and swaps in the new snapshots. The first fetch error is returned, but
// remaining kinds are still attempted.
func (s *Store) Refresh(ctx context.Context, kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = AllKinds()
	}

	var firstErr error
	for _, kind := range kinds {
		if err := s.refreshKind(ctx, kind); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Store) refreshKind(ctx context.Context, kind Kind) error {
	if err := s.pull(ctx, kind); err != nil {
		s.metrics.StoreRefreshes.WithLabelValues(string(kind), "error").Inc()
		s.metrics.StoreRefreshStale.Inc()
		return err
	}
	s.metrics.StoreRefreshes.WithLabelValues(string(kind), "success").Inc()
	return nil
}

func (s *Store) pull(ctx context.Context, kind Kind) error {
	switch kind {
	case KindPatient:
		patients, err := s.repos.Patients.List(ctx, fetchLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to refresh patients: %w", err)
		}
		s.snapshots.Set(string(kind), patients, gocache.NoExpiration)
	case KindAppointment:
		appointments, err := s.repos.Appointments.List(ctx, fetchLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to refresh appointments: %w", err)
		}
		s.snapshots.Set(string(kind), appointments, gocache.NoExpiration)
	case KindDeadline:
		deadlines, err := s.repos.Deadlines.List(ctx, fetchLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to refresh deadlines: %w", err)
		}
		s.snapshots.Set(string(kind), deadlines, gocache.NoExpiration)
	case KindInventory:
		items, err := s.repos.Inventory.List(ctx, fetchLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to refresh inventory: %w", err)
		}
		s.snapshots.Set(string(kind), items, gocache.NoExpiration)
	default:
		return fmt.Errorf("unknown entity kind %q", kind)
	}
	return nil
}

// Patients returns the last-refreshed patient snapshot.
func (s *Store) Patients() []*model.Patient {
	if v, ok := s.snapshots.Get(string(KindPatient)); ok {
		return v.([]*model.Patient)
	}
	return nil
}

// Appointments returns the last-refreshed appointment snapshot.
func (s *Store) Appointments() []*model.Appointment {
	if v, ok := s.snapshots.Get(string(KindAppointment)); ok {
		return v.([]*model.Appointment)
	}
	return nil
}

// Deadlines returns the last-refreshed deadline snapshot.
func (s *Store) Deadlines() []*model.Deadline {
	if v, ok := s.snapshots.Get(string(KindDeadline)); ok {
		return v.([]*model.Deadline)
	}
	return nil
}

// Inventory returns the last-refreshed inventory snapshot.
func (s *Store) Inventory() []*model.InventoryItem {
	if v, ok := s.snapshots.Get(string(KindInventory)); ok {
		return v.([]*model.InventoryItem)
	}
	return nil
}

// Counts reports the size of every cached collection.
func (s *Store) Counts() map[Kind]int {
	return map[Kind]int{
		KindPatient:     len(s.Patients()),
		KindAppointment: len(s.Appointments()),
		KindDeadline:    len(s.Deadlines()),
		KindInventory:   len(s.Inventory()),
	}
}

// FirstPatientByName returns the first cached patient whose name contains
// term, case-insensitively. First match wins; ambiguity among multiple
// matches is not reported.
func (s *Store) FirstPatientByName(term string) (*model.Patient, bool) {
	term = strings.ToLower(term)
	for _, p := range s.Patients() {
		if strings.Contains(strings.ToLower(p.Name), term) {
			return p, true
		}
	}
	return nil, false
}

// FirstAppointmentByPatient returns the first cached appointment whose
// denormalized patient name contains term, case-insensitively.
func (s *Store) FirstAppointmentByPatient(term string) (*model.Appointment, bool) {
	term = strings.ToLower(term)
	for _, a := range s.Appointments() {
		if strings.Contains(strings.ToLower(a.PatientName), term) {
			return a, true
		}
	}
	return nil, false
}

// FirstDeadlineByTitle returns the first cached deadline whose title
// contains term, case-insensitively.
func (s *Store) FirstDeadlineByTitle(term string) (*model.Deadline, bool) {
	term = strings.ToLower(term)
	for _, d := range s.Deadlines() {
		if strings.Contains(strings.ToLower(d.Title), term) {
			return d, true
		}
	}
	return nil, false
}

// FirstInventoryByName returns the first cached inventory item whose name
// contains term, case-insensitively.
func (s *Store) FirstInventoryByName(term string) (*model.InventoryItem, bool) {
	term = strings.ToLower(term)
	for _, i := range s.Inventory() {
		if strings.Contains(strings.ToLower(i.Name), term) {
			return i, true
		}
	}
	return nil, false
}
