package assistant

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/store"
)

func (a *Actions) createPatient(ctx context.Context, p Params) Outcome {
	name, found := p.String(patientNameKeys...)
	if !found {
		return fail("Patient name is required.")
	}

	req := &model.CreatePatientRequest{
		Name:        name,
		DateOfBirth: p.StringOr("", "date_of_birth", "dateOfBirth", "dob", "birth_date"),
		Phone:       p.StringOr("", "phone", "phone_number", "phoneNumber"),
		Email:       p.StringOr("", "email", "email_address"),
		Address:     p.StringOr("", "address"),
	}

	patient, err := a.patients.CreatePatient(ctx, req)
	if err != nil {
		return outcomeFromErr(err, "Could not create the patient.")
	}

	a.recordChange(ctx, store.KindPatient, "patient.created", patient)
	return okData(patient, "Created patient %s (#%d).", patient.Name, patient.Number)
}

func (a *Actions) updatePatient(ctx context.Context, p Params) Outcome {
	patient, failure := a.resolvePatient(ctx, p)
	if patient == nil {
		return failure
	}

	req := &model.UpdatePatientRequest{
		Name:        p.StringPtr("new_name", "newName"),
		DateOfBirth: p.StringPtr("date_of_birth", "dateOfBirth", "dob", "birth_date"),
		Phone:       p.StringPtr("phone", "phone_number", "phoneNumber"),
		Email:       p.StringPtr("email", "email_address"),
		Address:     p.StringPtr("address"),
	}

	updated, err := a.patients.UpdatePatient(ctx, patient.ID, req)
	if err != nil {
		return outcomeFromErr(err, "Could not update the patient.")
	}

	a.recordChange(ctx, store.KindPatient, "patient.updated", updated)
	return okData(updated, "Updated patient %s (#%d).", updated.Name, updated.Number)
}

func (a *Actions) deletePatient(ctx context.Context, p Params) Outcome {
	patient, failure := a.resolvePatient(ctx, p)
	if patient == nil {
		return failure
	}

	if err := a.patients.DeletePatient(ctx, patient.ID); err != nil {
		return outcomeFromErr(err, "Could not delete the patient.")
	}

	a.recordChange(ctx, store.KindPatient, "patient.deleted", patient)
	return ok("Deleted patient %s (#%d).", patient.Name, patient.Number)
}

func (a *Actions) listPatients(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindPatient); err != nil {
		a.logger.Error(err, "patient list served from stale snapshot")
	}
	patients := a.store.Patients()
	if len(patients) == 0 {
		return ok("There are no patients on file.")
	}

	lines := make([]string, 0, len(patients))
	for _, patient := range patients {
		lines = append(lines, fmt.Sprintf("%s (#%d)", patient.Name, patient.Number))
	}
	header := fmt.Sprintf("You have %d %s:", len(patients), plural(len(patients), "patient", "patients"))
	return okData(patients, "%s", formatList(header, lines, maxListedPatients))
}

func (a *Actions) searchPatients(ctx context.Context, p Params) Outcome {
	query, found := p.String(append(queryKeys, patientNameKeys...)...)
	if !found {
		return fail("What should I search patients for?")
	}

	patients, err := a.patients.SearchPatients(ctx, query, 1000, 0)
	if err != nil {
		return outcomeFromErr(err, "Patient search failed.")
	}
	if len(patients) == 0 {
		return ok("No patients match %q.", query)
	}

	lines := make([]string, 0, len(patients))
	for _, patient := range patients {
		lines = append(lines, fmt.Sprintf("%s (#%d)", patient.Name, patient.Number))
	}
	header := fmt.Sprintf("%d %s match %q:", len(patients), plural(len(patients), "patient", "patients"), query)
	return okData(patients, "%s", formatAll(header, lines))
}

func (a *Actions) getPatientDetails(ctx context.Context, p Params) Outcome {
	patient, failure := a.resolvePatient(ctx, p)
	if patient == nil {
		return failure
	}

	msg := fmt.Sprintf("Patient %s (#%d)", patient.Name, patient.Number)
	if !patient.DateOfBirth.IsZero() {
		msg += fmt.Sprintf(", born %s", patient.DateOfBirth)
	}
	if patient.Phone != "" {
		msg += fmt.Sprintf(", phone %s", patient.Phone)
	}
	if patient.Email != "" {
		msg += fmt.Sprintf(", email %s", patient.Email)
	}
	if patient.Address != "" {
		msg += fmt.Sprintf(", address %s", patient.Address)
	}
	return okData(patient, "%s.", msg)
}

func (a *Actions) addPatientNote(ctx context.Context, p Params) Outcome {
	patient, failure := a.resolvePatient(ctx, p)
	if patient == nil {
		return failure
	}

	text, found := p.String("note", "text", "content", "message")
	if !found {
		return fail("Note text is required.")
	}

	note, err := a.patients.AddNote(ctx, patient.ID, &model.AddPatientNoteRequest{
		Text:   text,
		Author: p.StringOr("", "author"),
	})
	if err != nil {
		return outcomeFromErr(err, "Could not add the note.")
	}

	a.recordChange(ctx, store.KindPatient, "patient.note_added", note)
	return okData(note, "Added a note for %s.", patient.Name)
}

func (a *Actions) getPatientNotes(ctx context.Context, p Params) Outcome {
	patient, failure := a.resolvePatient(ctx, p)
	if patient == nil {
		return failure
	}

	notes, err := a.patients.GetNotes(ctx, patient.ID)
	if err != nil {
		return outcomeFromErr(err, "Could not load the notes.")
	}
	if len(notes) == 0 {
		return ok("%s has no notes.", patient.Name)
	}

	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		line := note.Text
		if note.Author != "" {
			line += fmt.Sprintf(" (%s)", note.Author)
		}
		lines = append(lines, line)
	}
	header := fmt.Sprintf("%s has %d %s:", patient.Name, len(notes), plural(len(notes), "note", "notes"))
	return okData(notes, "%s", formatList(header, lines, maxListedPatients))
}
