package assistant

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/store"
)

func (a *Actions) createAppointment(ctx context.Context, p Params) Outcome {
	name, hasName := p.String(patientNameKeys...)
	id, hasID := p.UUID(idKeys...)
	if !hasName && !hasID {
		return fail("A patient name is required to schedule an appointment.")
	}

	date, hasDate, err := p.Date(dateKeys...)
	if err != nil {
		return fail("%v.", err)
	}
	if !hasDate {
		return fail("An appointment date is required.")
	}

	req := &model.CreateAppointmentRequest{
		PatientName: name,
		Date:        date.String(),
		Time:        p.StringOr("", timeKeys...),
		Type:        p.StringOr("", "type", "appointment_type", "reason"),
		Notes:       p.StringOr("", "notes", "note"),
	}
	if duration, found := p.Int("duration", "duration_minutes", "durationMinutes"); found {
		req.Duration = duration
	}
	if hasID {
		req.PatientID = id.String()
	} else if patient, found := a.store.FirstPatientByName(name); found {
		// Link the record when the name matches a known patient; the
		// denormalized name is kept as supplied either way.
		req.PatientID = patient.ID.String()
	}

	appt, err := a.appointments.CreateAppointment(ctx, req)
	if err != nil {
		return outcomeFromErr(err, "Could not schedule the appointment.")
	}

	a.recordChange(ctx, store.KindAppointment, "appointment.created", appt)
	msg := fmt.Sprintf("Scheduled an appointment for %s on %s", appt.PatientName, appt.Date)
	if appt.Time != "" {
		msg += " at " + appt.Time
	}
	return okData(appt, "%s.", msg)
}

func (a *Actions) updateAppointment(ctx context.Context, p Params) Outcome {
	appt, failure := a.resolveAppointment(ctx, p)
	if appt == nil {
		return failure
	}

	req := &model.UpdateAppointmentRequest{
		PatientName: p.StringPtr("new_patient_name", "newPatientName"),
		Date:        p.StringPtr(dateKeys...),
		Time:        p.StringPtr(timeKeys...),
		Type:        p.StringPtr("type", "appointment_type", "reason"),
		Duration:    p.IntPtr("duration", "duration_minutes", "durationMinutes"),
		Notes:       p.StringPtr("notes", "note"),
	}
	if status, found := p.String("status"); found {
		s := model.AppointmentStatus(status)
		req.Status = &s
	}

	updated, err := a.appointments.UpdateAppointment(ctx, appt.ID, req)
	if err != nil {
		return outcomeFromErr(err, "Could not update the appointment.")
	}

	a.recordChange(ctx, store.KindAppointment, "appointment.updated", updated)
	return okData(updated, "Updated the appointment for %s on %s.", updated.PatientName, updated.Date)
}

func (a *Actions) deleteAppointment(ctx context.Context, p Params) Outcome {
	appt, failure := a.resolveAppointment(ctx, p)
	if appt == nil {
		return failure
	}

	if err := a.appointments.DeleteAppointment(ctx, appt.ID); err != nil {
		return outcomeFromErr(err, "Could not cancel the appointment.")
	}

	a.recordChange(ctx, store.KindAppointment, "appointment.deleted", appt)
	return ok("Cancelled the appointment for %s on %s.", appt.PatientName, appt.Date)
}

func appointmentLine(appt *model.Appointment) string {
	line := fmt.Sprintf("%s on %s", appt.PatientName, appt.Date)
	if appt.Time != "" {
		line += " at " + appt.Time
	}
	if appt.Type != "" {
		line += " (" + appt.Type + ")"
	}
	return line
}

func (a *Actions) listAppointments(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindAppointment); err != nil {
		a.logger.Error(err, "appointment list served from stale snapshot")
	}
	appointments := a.store.Appointments()
	if len(appointments) == 0 {
		return ok("There are no appointments on file.")
	}

	lines := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		lines = append(lines, appointmentLine(appt))
	}
	header := fmt.Sprintf("You have %d %s:", len(appointments), plural(len(appointments), "appointment", "appointments"))
	return okData(appointments, "%s", formatList(header, lines, maxListedAppointments))
}

// upcomingAppointments lists appointments dated today or later.
func (a *Actions) upcomingAppointments(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindAppointment); err != nil {
		a.logger.Error(err, "appointment list served from stale snapshot")
	}

	today := model.Today()
	var upcoming []*model.Appointment
	for _, appt := range a.store.Appointments() {
		if !appt.Date.Before(today.Time) {
			upcoming = append(upcoming, appt)
		}
	}
	if len(upcoming) == 0 {
		return ok("There are no upcoming appointments.")
	}

	lines := make([]string, 0, len(upcoming))
	for _, appt := range upcoming {
		lines = append(lines, appointmentLine(appt))
	}
	header := fmt.Sprintf("You have %d upcoming %s:", len(upcoming), plural(len(upcoming), "appointment", "appointments"))
	return okData(upcoming, "%s", formatList(header, lines, maxListedAppointments))
}

func (a *Actions) appointmentsByDate(ctx context.Context, p Params) Outcome {
	dateStr, found := p.String(dateKeys...)
	if !found {
		return fail("Which date should I look at?")
	}

	appointments, err := a.appointments.GetAppointmentsByDate(ctx, dateStr)
	if err != nil {
		return outcomeFromErr(err, "Could not load appointments for that date.")
	}
	if len(appointments) == 0 {
		return ok("There are no appointments on %s.", dateStr)
	}

	lines := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		lines = append(lines, appointmentLine(appt))
	}
	header := fmt.Sprintf("%d %s on %s:", len(appointments), plural(len(appointments), "appointment", "appointments"), appointments[0].Date)
	return okData(appointments, "%s", formatList(header, lines, maxListedAppointments))
}

func (a *Actions) searchAppointments(ctx context.Context, p Params) Outcome {
	query, found := p.String(append(queryKeys, patientNameKeys...)...)
	if !found {
		return fail("What should I search appointments for?")
	}

	if err := a.store.Refresh(ctx, store.KindAppointment); err != nil {
		a.logger.Error(err, "appointment search served from stale snapshot")
	}

	var matches []*model.Appointment
	for _, appt := range a.store.Appointments() {
		if containsFold(appt.PatientName, query) || containsFold(appt.Type, query) {
			matches = append(matches, appt)
		}
	}
	if len(matches) == 0 {
		return ok("No appointments match %q.", query)
	}

	lines := make([]string, 0, len(matches))
	for _, appt := range matches {
		lines = append(lines, appointmentLine(appt))
	}
	header := fmt.Sprintf("%d %s match %q:", len(matches), plural(len(matches), "appointment", "appointments"), query)
	return okData(matches, "%s", formatAll(header, lines))
}

func (a *Actions) getAppointmentDetails(ctx context.Context, p Params) Outcome {
	appt, failure := a.resolveAppointment(ctx, p)
	if appt == nil {
		return failure
	}

	msg := fmt.Sprintf("Appointment for %s on %s", appt.PatientName, appt.Date)
	if appt.Time != "" {
		msg += " at " + appt.Time
	}
	if appt.Type != "" {
		msg += ", type " + appt.Type
	}
	msg += fmt.Sprintf(", %d minutes, status %s", appt.Duration, appt.Status)
	if appt.Notes != "" {
		msg += ". Notes: " + appt.Notes
	}
	return okData(appt, "%s.", msg)
}
