package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchAliasCaseInsensitive(t *testing.T) {
	env := newTestEnv()

	outcome := env.registry.Dispatch(context.Background(), "Add_Patient", Params{"name": "Jane Doe"})

	require.True(t, outcome.OK, outcome.Message)
	assert.Contains(t, outcome.Message, "Jane Doe")
	assert.Len(t, env.patientRepo.patients, 1)
}

func TestDispatchUnknownActionWithScheduleShapeCreatesAppointment(t *testing.T) {
	env := newTestEnv()

	outcome := env.registry.Dispatch(context.Background(), "schedule_checkup_tomorrow", Params{
		"patientName": "Bob Martin",
		"date":        "2030-06-01",
	})

	require.True(t, outcome.OK, outcome.Message)
	require.Len(t, env.appointmentRepo.appointments, 1)
	assert.Equal(t, "Bob Martin", env.appointmentRepo.appointments[0].PatientName)
	assert.Equal(t, "2030-06-01", env.appointmentRepo.appointments[0].Date.String())
}

func TestDispatchUnknownActionAcknowledged(t *testing.T) {
	env := newTestEnv()

	outcome := env.registry.Dispatch(context.Background(), "dance", Params{"style": "tango"})

	assert.True(t, outcome.OK)
	assert.Equal(t, "Request processed.", outcome.Message)
	assert.Empty(t, env.patientRepo.patients)
	assert.Empty(t, env.appointmentRepo.appointments)
}

func TestDispatchMutatingActionRefusedWhenDatabaseDown(t *testing.T) {
	env := newTestEnv()
	env.pinger.err = fmt.Errorf("dial tcp: connection refused")

	outcome := env.registry.Dispatch(context.Background(), "create_patient", Params{"name": "Jane"})

	assert.False(t, outcome.OK)
	assert.True(t, strings.HasPrefix(outcome.Message, FailurePrefix))
	assert.Contains(t, outcome.Message, "not connected")
	assert.Empty(t, env.patientRepo.patients)
}

func TestDispatchReadActionAllowedWhenDatabaseDown(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	env.pinger.err = fmt.Errorf("dial tcp: connection refused")

	outcome := env.registry.Dispatch(context.Background(), "list_patients", Params{})

	assert.True(t, outcome.OK)
	assert.Contains(t, outcome.Message, "Jane Doe")
}

func TestResolveReturnsCanonicalAction(t *testing.T) {
	env := newTestEnv()

	action, found := env.registry.Resolve("BOOK_APPOINTMENT")
	require.True(t, found)
	assert.Equal(t, "create_appointment", action.Name)

	_, found = env.registry.Resolve("no_such_action")
	assert.False(t, found)
}
