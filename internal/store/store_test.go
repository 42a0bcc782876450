package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
)

// Shared metrics instance; promauto registers globally and would panic
// on a second registration within the test binary.
var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

func sharedMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics("clinic", "store_test")
	})
	return testMetrics
}

type listPatientRepo struct {
	patients []*model.Patient
	fail     bool
}

func (r *listPatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (r *listPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return nil, nil
}
func (r *listPatientRepo) Update(ctx context.Context, p *model.Patient) error  { return nil }
func (r *listPatientRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *listPatientRepo) List(ctx context.Context, limit, offset int) ([]*model.Patient, error) {
	if r.fail {
		return nil, fmt.Errorf("connection refused")
	}
	return r.patients, nil
}
func (r *listPatientRepo) Search(ctx context.Context, query string, limit, offset int) ([]*model.Patient, error) {
	return nil, nil
}
func (r *listPatientRepo) AddNote(ctx context.Context, note *model.PatientNote) error { return nil }
func (r *listPatientRepo) GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	return nil, nil
}

type listAppointmentRepo struct {
	appointments []*model.Appointment
}

func (r *listAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }
func (r *listAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, nil
}
func (r *listAppointmentRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }
func (r *listAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (r *listAppointmentRepo) List(ctx context.Context, limit, offset int) ([]*model.Appointment, error) {
	return r.appointments, nil
}
func (r *listAppointmentRepo) GetByDate(ctx context.Context, date model.Date) ([]*model.Appointment, error) {
	return nil, nil
}

type listDeadlineRepo struct {
	deadlines []*model.Deadline
}

func (r *listDeadlineRepo) Create(ctx context.Context, d *model.Deadline) error { return nil }
func (r *listDeadlineRepo) Get(ctx context.Context, id uuid.UUID) (*model.Deadline, error) {
	return nil, nil
}
func (r *listDeadlineRepo) Update(ctx context.Context, d *model.Deadline) error { return nil }
func (r *listDeadlineRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *listDeadlineRepo) List(ctx context.Context, limit, offset int) ([]*model.Deadline, error) {
	return r.deadlines, nil
}
func (r *listDeadlineRepo) GetByDate(ctx context.Context, date model.Date) ([]*model.Deadline, error) {
	return nil, nil
}

type listInventoryRepo struct {
	items []*model.InventoryItem
}

func (r *listInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error { return nil }
func (r *listInventoryRepo) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	return nil, nil
}
func (r *listInventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error { return nil }
func (r *listInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (r *listInventoryRepo) List(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error) {
	return r.items, nil
}
func (r *listInventoryRepo) GetLowStock(ctx context.Context) ([]*model.InventoryItem, error) {
	return nil, nil
}

func newFixture() (*Store, *listPatientRepo, *listAppointmentRepo, *listDeadlineRepo, *listInventoryRepo) {
	patients := &listPatientRepo{}
	appointments := &listAppointmentRepo{}
	deadlines := &listDeadlineRepo{}
	inventory := &listInventoryRepo{}
	st := New(Repos{
		Patients:     patients,
		Appointments: appointments,
		Deadlines:    deadlines,
		Inventory:    inventory,
	}, sharedMetrics())
	return st, patients, appointments, deadlines, inventory
}

func patientNamed(name string) *model.Patient {
	return &model.Patient{
		Base: model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: name,
	}
}

func TestReadsBeforeFirstRefreshAreEmpty(t *testing.T) {
	st, _, _, _, _ := newFixture()

	assert.Empty(t, st.Patients())
	assert.Empty(t, st.Appointments())
	assert.Empty(t, st.Deadlines())
	assert.Empty(t, st.Inventory())
}

func TestRefreshMakesRecordsVisible(t *testing.T) {
	st, patients, _, _, _ := newFixture()
	patients.patients = []*model.Patient{patientNamed("Jane Doe")}

	require.NoError(t, st.Refresh(context.Background()))

	require.Len(t, st.Patients(), 1)
	assert.Equal(t, "Jane Doe", st.Patients()[0].Name)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	st, patients, _, _, _ := newFixture()
	patients.patients = []*model.Patient{patientNamed("Jane Doe")}
	require.NoError(t, st.Refresh(context.Background(), KindPatient))

	patients.fail = true
	err := st.Refresh(context.Background(), KindPatient)

	require.Error(t, err)
	require.Len(t, st.Patients(), 1)
	assert.Equal(t, "Jane Doe", st.Patients()[0].Name)
}

func TestRefreshSingleKindLeavesOthersAlone(t *testing.T) {
	st, patients, _, deadlines, _ := newFixture()
	patients.patients = []*model.Patient{patientNamed("Jane Doe")}
	require.NoError(t, st.Refresh(context.Background()))

	deadlines.deadlines = []*model.Deadline{{
		Base:  model.Base{ID: uuid.New()},
		Title: "File insurance claim",
	}}
	require.NoError(t, st.Refresh(context.Background(), KindDeadline))

	assert.Len(t, st.Patients(), 1)
	assert.Len(t, st.Deadlines(), 1)
}

func TestRefreshAttemptsRemainingKindsAfterFailure(t *testing.T) {
	st, patients, _, deadlines, _ := newFixture()
	patients.fail = true
	deadlines.deadlines = []*model.Deadline{{
		Base:  model.Base{ID: uuid.New()},
		Title: "File insurance claim",
	}}

	err := st.Refresh(context.Background())

	require.Error(t, err)
	assert.Len(t, st.Deadlines(), 1)
}

func TestRefreshRecordsMetrics(t *testing.T) {
	st, patients, _, _, _ := newFixture()
	m := sharedMetrics()

	okBefore := testutil.ToFloat64(m.StoreRefreshes.WithLabelValues(string(KindPatient), "success"))
	require.NoError(t, st.Refresh(context.Background(), KindPatient))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(m.StoreRefreshes.WithLabelValues(string(KindPatient), "success")))

	patients.fail = true
	errBefore := testutil.ToFloat64(m.StoreRefreshes.WithLabelValues(string(KindPatient), "error"))
	staleBefore := testutil.ToFloat64(m.StoreRefreshStale)
	require.Error(t, st.Refresh(context.Background(), KindPatient))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(m.StoreRefreshes.WithLabelValues(string(KindPatient), "error")))
	assert.Equal(t, staleBefore+1, testutil.ToFloat64(m.StoreRefreshStale))
}

func TestFirstPatientByNameMatchesFragmentCaseInsensitively(t *testing.T) {
	st, patients, _, _, _ := newFixture()
	patients.patients = []*model.Patient{
		patientNamed("John Smith"),
		patientNamed("Jane Smith"),
	}
	require.NoError(t, st.Refresh(context.Background(), KindPatient))

	got, found := st.FirstPatientByName("SMITH")
	require.True(t, found)
	assert.Equal(t, "John Smith", got.Name)

	_, found = st.FirstPatientByName("nobody")
	assert.False(t, found)
}

func TestFirstDeadlineByTitle(t *testing.T) {
	st, _, _, deadlines, _ := newFixture()
	deadlines.deadlines = []*model.Deadline{{
		Base:  model.Base{ID: uuid.New()},
		Title: "File insurance claim",
	}}
	require.NoError(t, st.Refresh(context.Background(), KindDeadline))

	got, found := st.FirstDeadlineByTitle("insurance")
	require.True(t, found)
	assert.Equal(t, "File insurance claim", got.Title)
}

func TestCounts(t *testing.T) {
	st, patients, _, _, inventory := newFixture()
	patients.patients = []*model.Patient{patientNamed("Jane Doe")}
	inventory.items = []*model.InventoryItem{
		{Base: model.Base{ID: uuid.New()}, Name: "Gloves", Quantity: 50, MinStock: 20},
		{Base: model.Base{ID: uuid.New()}, Name: "Masks", Quantity: 5, MinStock: 10},
	}
	require.NoError(t, st.Refresh(context.Background()))

	counts := st.Counts()
	assert.Equal(t, 1, counts[KindPatient])
	assert.Equal(t, 2, counts[KindInventory])
	assert.Equal(t, 0, counts[KindAppointment])
}
