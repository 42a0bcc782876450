package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-assistant/internal/backup"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/service/appointment"
	"github.com/jwalitptl/clinic-assistant/internal/service/deadline"
	"github.com/jwalitptl/clinic-assistant/internal/service/event"
	"github.com/jwalitptl/clinic-assistant/internal/service/inventory"
	"github.com/jwalitptl/clinic-assistant/internal/service/patient"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
)

// List caps keep conversational replies short; full listings belong to
// the REST surface.
const (
	maxListedPatients     = 10
	maxListedAppointments = 8
	maxListedDeadlines    = 8
	maxListedInventory    = 10
)

// Actions owns every registered action handler. Handlers validate and
// resolve through the entity store, persist through the services, then
// refresh the store and enqueue a change event, in that order.
type Actions struct {
	patients     patient.PatientService
	appointments appointment.AppointmentService
	deadlines    deadline.DeadlineService
	inventory    inventory.InventoryService
	store        *store.Store
	events       *event.Service
	backup       backup.Client
	logger       *logger.Logger
}

func NewActions(
	patients patient.PatientService,
	appointments appointment.AppointmentService,
	deadlines deadline.DeadlineService,
	inventory inventory.InventoryService,
	st *store.Store,
	events *event.Service,
	backupClient backup.Client,
	l *logger.Logger,
) *Actions {
	return &Actions{
		patients:     patients,
		appointments: appointments,
		deadlines:    deadlines,
		inventory:    inventory,
		store:        st,
		events:       events,
		backup:       backupClient,
		logger:       l,
	}
}

// RegisterAll installs every action into the registry.
func (a *Actions) RegisterAll(r *Registry) {
	// Patients
	r.Register(&Action{Name: "create_patient", Aliases: []string{"add_patient", "new_patient", "register_patient"}, Mutates: true, Handle: a.createPatient})
	r.Register(&Action{Name: "update_patient", Aliases: []string{"edit_patient", "modify_patient"}, Mutates: true, Handle: a.updatePatient})
	r.Register(&Action{Name: "delete_patient", Aliases: []string{"remove_patient"}, Mutates: true, Handle: a.deletePatient})
	r.Register(&Action{Name: "list_patients", Aliases: []string{"get_patients", "show_patients"}, Handle: a.listPatients})
	r.Register(&Action{Name: "search_patients", Aliases: []string{"find_patient", "search_patient"}, Handle: a.searchPatients})
	r.Register(&Action{Name: "get_patient_details", Aliases: []string{"patient_details", "get_patient", "show_patient"}, Handle: a.getPatientDetails})
	r.Register(&Action{Name: "add_patient_note", Aliases: []string{"add_note", "create_patient_note"}, Mutates: true, Handle: a.addPatientNote})
	r.Register(&Action{Name: "get_patient_notes", Aliases: []string{"list_patient_notes", "show_patient_notes"}, Handle: a.getPatientNotes})

	// Appointments
	r.Register(&Action{Name: "create_appointment", Aliases: []string{"add_appointment", "schedule_appointment", "book_appointment", "new_appointment"}, Mutates: true, Handle: a.createAppointment})
	r.Register(&Action{Name: "update_appointment", Aliases: []string{"edit_appointment", "reschedule_appointment", "modify_appointment"}, Mutates: true, Handle: a.updateAppointment})
	r.Register(&Action{Name: "delete_appointment", Aliases: []string{"cancel_appointment", "remove_appointment"}, Mutates: true, Handle: a.deleteAppointment})
	r.Register(&Action{Name: "list_appointments", Aliases: []string{"get_appointments", "show_appointments"}, Handle: a.listAppointments})
	r.Register(&Action{Name: "get_upcoming_appointments", Aliases: []string{"upcoming_appointments"}, Handle: a.upcomingAppointments})
	r.Register(&Action{Name: "get_appointments_by_date", Aliases: []string{"appointments_on_date", "appointments_for_date"}, Handle: a.appointmentsByDate})
	r.Register(&Action{Name: "search_appointments", Aliases: []string{"find_appointment"}, Handle: a.searchAppointments})
	r.Register(&Action{Name: "get_appointment_details", Aliases: []string{"appointment_details", "get_appointment"}, Handle: a.getAppointmentDetails})

	// Deadlines
	r.Register(&Action{Name: "create_deadline", Aliases: []string{"add_deadline", "new_deadline", "create_task"}, Mutates: true, Handle: a.createDeadline})
	r.Register(&Action{Name: "update_deadline", Aliases: []string{"edit_deadline", "modify_deadline"}, Mutates: true, Handle: a.updateDeadline})
	r.Register(&Action{Name: "delete_deadline", Aliases: []string{"remove_deadline", "complete_deadline"}, Mutates: true, Handle: a.deleteDeadline})
	r.Register(&Action{Name: "list_deadlines", Aliases: []string{"get_deadlines", "show_deadlines"}, Handle: a.listDeadlines})
	r.Register(&Action{Name: "get_upcoming_deadlines", Aliases: []string{"upcoming_deadlines"}, Handle: a.upcomingDeadlines})
	r.Register(&Action{Name: "search_deadlines", Aliases: []string{"find_deadline"}, Handle: a.searchDeadlines})
	r.Register(&Action{Name: "get_deadline_details", Aliases: []string{"deadline_details", "get_deadline"}, Handle: a.getDeadlineDetails})

	// Inventory
	r.Register(&Action{Name: "create_inventory_item", Aliases: []string{"add_inventory_item", "add_inventory", "add_item", "new_inventory_item"}, Mutates: true, Handle: a.createInventoryItem})
	r.Register(&Action{Name: "update_inventory_item", Aliases: []string{"update_inventory", "update_stock", "edit_inventory_item"}, Mutates: true, Handle: a.updateInventoryItem})
	r.Register(&Action{Name: "delete_inventory_item", Aliases: []string{"remove_inventory_item", "delete_inventory", "remove_item"}, Mutates: true, Handle: a.deleteInventoryItem})
	r.Register(&Action{Name: "list_inventory", Aliases: []string{"get_inventory", "show_inventory", "list_inventory_items"}, Handle: a.listInventory})
	r.Register(&Action{Name: "search_inventory", Aliases: []string{"find_inventory_item", "find_item"}, Handle: a.searchInventory})
	r.Register(&Action{Name: "get_inventory_details", Aliases: []string{"inventory_details", "get_inventory_item"}, Handle: a.getInventoryDetails})
	r.Register(&Action{Name: "get_low_stock", Aliases: []string{"low_stock", "check_low_stock", "low_stock_items"}, Handle: a.lowStock})

	// Misc
	r.Register(&Action{Name: "answer_question", Aliases: []string{"respond", "general_response"}, Handle: a.answerQuestion})
	r.Register(&Action{Name: "backup_data", Aliases: []string{"create_backup", "backup"}, Mutates: true, Handle: a.backupData})
}

// recordChange runs the post-mutation sequence: re-pull the affected
// collection into the store, then enqueue a change event for dashboard
// fan-out. Failures here never undo the mutation; they are logged and the
// outcome stays successful.
func (a *Actions) recordChange(ctx context.Context, kind store.Kind, eventType string, payload interface{}) {
	if err := a.store.Refresh(ctx, kind); err != nil {
		a.logger.Error(err, "store refresh after mutation failed", "kind", string(kind))
	}
	if err := a.events.Publish(ctx, eventType, payload); err != nil {
		a.logger.Error(err, "failed to enqueue change event", "event_type", eventType)
	}
}

// resolvePatient finds the target patient by id when one is supplied,
// otherwise by case-insensitive name fragment against the cached
// snapshot. First match wins.
func (a *Actions) resolvePatient(ctx context.Context, p Params) (*model.Patient, Outcome) {
	if id, found := p.UUID(idKeys...); found {
		patient, err := a.patients.GetPatient(ctx, id)
		if err != nil {
			return nil, outcomeFromErr(err, "Patient not found.")
		}
		return patient, Outcome{}
	}

	term, found := p.String(patientNameKeys...)
	if !found {
		return nil, fail("Which patient do you mean? Please give a name.")
	}
	patient, found := a.store.FirstPatientByName(term)
	if !found {
		return nil, fail("No patient matching %q was found.", term)
	}
	return patient, Outcome{}
}

// resolveAppointment finds the target appointment by id, otherwise by the
// patient-name fragment against the cached snapshot.
func (a *Actions) resolveAppointment(ctx context.Context, p Params) (*model.Appointment, Outcome) {
	if id, found := p.UUID(idKeys...); found {
		appt, err := a.appointments.GetAppointment(ctx, id)
		if err != nil {
			return nil, outcomeFromErr(err, "Appointment not found.")
		}
		return appt, Outcome{}
	}

	term, found := p.String(patientNameKeys...)
	if !found {
		return nil, fail("Which appointment do you mean? Please give a patient name.")
	}
	appt, found := a.store.FirstAppointmentByPatient(term)
	if !found {
		return nil, fail("No appointment for a patient matching %q was found.", term)
	}
	return appt, Outcome{}
}

// resolveDeadline finds the target deadline by id, otherwise by a title
// fragment against the cached snapshot.
func (a *Actions) resolveDeadline(ctx context.Context, p Params) (*model.Deadline, Outcome) {
	if id, found := p.UUID(idKeys...); found {
		d, err := a.deadlines.GetDeadline(ctx, id)
		if err != nil {
			return nil, outcomeFromErr(err, "Deadline not found.")
		}
		return d, Outcome{}
	}

	term, found := p.String(titleKeys...)
	if !found {
		return nil, fail("Which deadline do you mean? Please give a title.")
	}
	d, found := a.store.FirstDeadlineByTitle(term)
	if !found {
		return nil, fail("No deadline matching %q was found.", term)
	}
	return d, Outcome{}
}

// resolveInventoryItem finds the target item by id, otherwise by a name
// fragment against the cached snapshot.
func (a *Actions) resolveInventoryItem(ctx context.Context, p Params) (*model.InventoryItem, Outcome) {
	if id, found := p.UUID(idKeys...); found {
		item, err := a.inventory.GetItem(ctx, id)
		if err != nil {
			return nil, outcomeFromErr(err, "Inventory item not found.")
		}
		return item, Outcome{}
	}

	term, found := p.String(itemNameKeys...)
	if !found {
		return nil, fail("Which inventory item do you mean? Please give a name.")
	}
	item, found := a.store.FirstInventoryByName(term)
	if !found {
		return nil, fail("No inventory item matching %q was found.", term)
	}
	return item, Outcome{}
}

// formatList renders up to max lines plus an "and N more" tail.
func formatList(header string, lines []string, max int) string {
	if len(lines) == 0 {
		return header
	}
	shown := lines
	if len(shown) > max {
		shown = shown[:max]
	}
	var b strings.Builder
	b.WriteString(header)
	for _, line := range shown {
		b.WriteString("\n• ")
		b.WriteString(line)
	}
	if rest := len(lines) - len(shown); rest > 0 {
		b.WriteString(fmt.Sprintf("\n…and %d more.", rest))
	}
	return b.String()
}

// formatAll renders every line; search replies are never display-capped.
func formatAll(header string, lines []string) string {
	return formatList(header, lines, len(lines))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
