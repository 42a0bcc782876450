package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateWrapsPatientName(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("Jane Doe has an appointment today.")

	expected := fmt.Sprintf(`<span class="entity-link" data-entity="patient:%s">Jane Doe</span>`, seeded.ID)
	assert.Contains(t, annotated, expected)
}

func TestAnnotateIsCaseInsensitiveAndKeepsOriginalCasing(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("jane doe is waiting.")

	assert.Contains(t, annotated, ">jane doe</span>")
}

func TestAnnotateIsIdempotent(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	once := linker.Annotate("Jane Doe has an appointment.")
	twice := linker.Annotate(once)

	assert.Equal(t, once, twice)
}

func TestAnnotateWrapsPatientNumber(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("See patient #1 for details.")

	assert.Contains(t, annotated, fmt.Sprintf(`data-entity="patient:%s">#1</span>`, seeded.ID))
}

func TestAnnotateScansAllNamesBeforeNumbers(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	second := env.seedPatient("John #1 Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("John #1 Doe checked in.")

	// The full name must win over the first patient's "#1" mention.
	expected := fmt.Sprintf(`<span class="entity-link" data-entity="patient:%s">John #1 Doe</span>`, second.ID)
	assert.Contains(t, annotated, expected)
}

func TestAnnotateSkipsShortNames(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Al")
	env.seedDeadline("Tax", "2030-01-01")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("Al filed the Tax forms.")

	assert.NotContains(t, annotated, "Al</span>")
	assert.NotContains(t, annotated, "Tax</span>")
}

func TestAnnotateWrapsDeadlineTitleAndAppointmentDate(t *testing.T) {
	env := newTestEnv()
	env.seedDeadline("File insurance claim", "2030-03-01")
	env.seedAppointment("Bob Martin", "2030-06-15")
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("File insurance claim before 2030-06-15.")

	assert.Contains(t, annotated, `data-entity="deadline:`)
	assert.Contains(t, annotated, `data-entity="appointment:`)
}

func TestAnnotateRequiresWholeWordMatch(t *testing.T) {
	env := newTestEnv()
	env.seedItem("Mask", 10, 5)
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("Unmasked surfaces need cleaning.")

	assert.NotContains(t, annotated, "entity-link")
}

func TestAnnotateLeavesExistingMarkupAlone(t *testing.T) {
	env := newTestEnv()
	env.seedItem("strong", 10, 5)
	require.NoError(t, env.store.Refresh(context.Background()))
	linker := NewLinker(env.store)

	annotated := linker.Annotate("<strong>Note</strong> this.")

	assert.Contains(t, annotated, "<strong>Note</strong>")
}

func TestAnnotateEmptyText(t *testing.T) {
	env := newTestEnv()
	linker := NewLinker(env.store)

	assert.Equal(t, "", linker.Annotate(""))
}
