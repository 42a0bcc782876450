package assistant

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/service/appointment"
	"github.com/jwalitptl/clinic-assistant/internal/service/deadline"
	"github.com/jwalitptl/clinic-assistant/internal/service/event"
	"github.com/jwalitptl/clinic-assistant/internal/service/inventory"
	"github.com/jwalitptl/clinic-assistant/internal/service/patient"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
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
		testMetrics = metrics.NewMetrics("clinic", "assistant_test")
	})
	return testMetrics
}

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

var errNoRows = fmt.Errorf("no rows in result set")

type fakePatientRepo struct {
	patients []*model.Patient
	notes    []*model.PatientNote
	nextNum  int
	failList bool
}

func (r *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	r.nextNum++
	p.Number = r.nextNum
	r.patients = append(r.patients, p)
	return nil
}

func (r *fakePatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errNoRows
}

func (r *fakePatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	for i, p := range r.patients {
		if p.ID == patient.ID {
			r.patients[i] = patient
			return nil
		}
	}
	return errNoRows
}

func (r *fakePatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, p := range r.patients {
		if p.ID == id {
			r.patients = append(r.patients[:i], r.patients[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (r *fakePatientRepo) List(ctx context.Context, limit, offset int) ([]*model.Patient, error) {
	if r.failList {
		return nil, fmt.Errorf("connection refused")
	}
	return append([]*model.Patient(nil), r.patients...), nil
}

func (r *fakePatientRepo) Search(ctx context.Context, query string, limit, offset int) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range r.patients {
		if containsFold(p.Name, query) || containsFold(p.Email, query) || containsFold(p.Phone, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) AddNote(ctx context.Context, note *model.PatientNote) error {
	note.ID = uuid.New()
	note.CreatedAt = time.Now()
	r.notes = append(r.notes, note)
	return nil
}

func (r *fakePatientRepo) GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	var out []*model.PatientNote
	for _, n := range r.notes {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	r.appointments = append(r.appointments, a)
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	for _, a := range r.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errNoRows
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, appt *model.Appointment) error {
	for i, a := range r.appointments {
		if a.ID == appt.ID {
			r.appointments[i] = appt
			return nil
		}
	}
	return errNoRows
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, a := range r.appointments {
		if a.ID == id {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (r *fakeAppointmentRepo) List(ctx context.Context, limit, offset int) ([]*model.Appointment, error) {
	return append([]*model.Appointment(nil), r.appointments...), nil
}

func (r *fakeAppointmentRepo) GetByDate(ctx context.Context, date model.Date) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeDeadlineRepo struct {
	deadlines []*model.Deadline
}

func (r *fakeDeadlineRepo) Create(ctx context.Context, d *model.Deadline) error {
	r.deadlines = append(r.deadlines, d)
	return nil
}

func (r *fakeDeadlineRepo) Get(ctx context.Context, id uuid.UUID) (*model.Deadline, error) {
	for _, d := range r.deadlines {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errNoRows
}

func (r *fakeDeadlineRepo) Update(ctx context.Context, deadline *model.Deadline) error {
	for i, d := range r.deadlines {
		if d.ID == deadline.ID {
			r.deadlines[i] = deadline
			return nil
		}
	}
	return errNoRows
}

func (r *fakeDeadlineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, d := range r.deadlines {
		if d.ID == id {
			r.deadlines = append(r.deadlines[:i], r.deadlines[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (r *fakeDeadlineRepo) List(ctx context.Context, limit, offset int) ([]*model.Deadline, error) {
	return append([]*model.Deadline(nil), r.deadlines...), nil
}

func (r *fakeDeadlineRepo) GetByDate(ctx context.Context, date model.Date) ([]*model.Deadline, error) {
	var out []*model.Deadline
	for _, d := range r.deadlines {
		if d.Date.Equal(date) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	items []*model.InventoryItem
}

func (r *fakeInventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *fakeInventoryRepo) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	for _, i := range r.items {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, errNoRows
}

func (r *fakeInventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	for i, it := range r.items {
		if it.ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return errNoRows
}

func (r *fakeInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return errNoRows
}

func (r *fakeInventoryRepo) List(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error) {
	return append([]*model.InventoryItem(nil), r.items...), nil
}

func (r *fakeInventoryRepo) GetLowStock(ctx context.Context) ([]*model.InventoryItem, error) {
	var out []*model.InventoryItem
	for _, item := range r.items {
		if item.Quantity <= item.MinStock {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.ID = uuid.New()
	event.Status = string(model.OutboxStatusPending)
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status == string(model.OutboxStatusPending) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	for _, e := range r.events {
		if e.ID == id {
			e.Status = string(status)
			e.ErrorMessage = errMsg
			return nil
		}
	}
	return errNoRows
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeSettingRepo struct {
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (r *fakeSettingRepo) Get(ctx context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *fakeSettingRepo) Set(ctx context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

type fakeBackupClient struct {
	err   error
	calls int
}

func (b *fakeBackupClient) BackupData(ctx context.Context) error {
	b.calls++
	return b.err
}

// testEnv wires fakes through the real services, store, registry and
// actions.
type testEnv struct {
	patientRepo     *fakePatientRepo
	appointmentRepo *fakeAppointmentRepo
	deadlineRepo    *fakeDeadlineRepo
	inventoryRepo   *fakeInventoryRepo
	outboxRepo      *fakeOutboxRepo
	settingRepo     *fakeSettingRepo
	pinger          *fakePinger
	backup          *fakeBackupClient
	store           *store.Store
	registry        *Registry
	actions         *Actions
}

func newTestEnv() *testEnv {
	env := &testEnv{
		patientRepo:     &fakePatientRepo{},
		appointmentRepo: &fakeAppointmentRepo{},
		deadlineRepo:    &fakeDeadlineRepo{},
		inventoryRepo:   &fakeInventoryRepo{},
		outboxRepo:      &fakeOutboxRepo{},
		settingRepo:     newFakeSettingRepo(),
		pinger:          &fakePinger{},
		backup:          &fakeBackupClient{},
	}

	env.store = store.New(store.Repos{
		Patients:     env.patientRepo,
		Appointments: env.appointmentRepo,
		Deadlines:    env.deadlineRepo,
		Inventory:    env.inventoryRepo,
	}, sharedMetrics())

	l := quietLogger()
	env.registry = NewRegistry(env.pinger, sharedMetrics(), l)
	env.actions = NewActions(
		patient.NewService(env.patientRepo),
		appointment.NewService(env.appointmentRepo),
		deadline.NewService(env.deadlineRepo),
		inventory.NewService(env.inventoryRepo),
		env.store,
		event.NewService(env.outboxRepo),
		env.backup,
		l,
	)
	env.actions.RegisterAll(env.registry)
	return env
}

func (e *testEnv) seedPatient(name string) *model.Patient {
	p := &model.Patient{
		Base: model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name: name,
	}
	e.patientRepo.Create(context.Background(), p)
	return p
}

func (e *testEnv) seedAppointment(patientName, date string) *model.Appointment {
	day, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	a := &model.Appointment{
		Base:        model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		PatientName: patientName,
		Date:        day,
		Duration:    model.DefaultAppointmentDuration,
		Status:      model.AppointmentStatusScheduled,
	}
	e.appointmentRepo.Create(context.Background(), a)
	return a
}

func (e *testEnv) seedDeadline(title, date string) *model.Deadline {
	day, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	d := &model.Deadline{
		Base:     model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Title:    title,
		Date:     day,
		DueDate:  day,
		Priority: model.PriorityMedium,
	}
	e.deadlineRepo.Create(context.Background(), d)
	return d
}

func (e *testEnv) seedItem(name string, quantity, minStock int) *model.InventoryItem {
	item := &model.InventoryItem{
		Base:     model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:     name,
		Quantity: quantity,
		MinStock: minStock,
	}
	e.inventoryRepo.Create(context.Background(), item)
	return item
}
