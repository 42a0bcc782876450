package assistant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsStringAliasPrecedence(t *testing.T) {
	p := Params{"patient": "fallback", "patient_name": "Jane Doe"}

	got, found := p.String(patientNameKeys...)
	require.True(t, found)
	assert.Equal(t, "Jane Doe", got)
}

func TestParamsStringTrimsAndSkipsEmpty(t *testing.T) {
	p := Params{"patient_name": "   ", "name": " Jane "}

	got, found := p.String(patientNameKeys...)
	require.True(t, found)
	assert.Equal(t, "Jane", got)
}

func TestParamsIntCoercions(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value interface{}
		want  int
	}{
		{"float", float64(42), 42},
		{"int", 42, 42},
		{"numeric string", "42", 42},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := Params{"quantity": tc.value}
			got, found := p.Int("quantity")
			require.True(t, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParamsIntRejectsNonNumeric(t *testing.T) {
	p := Params{"quantity": "plenty"}

	_, found := p.Int("quantity")
	assert.False(t, found)
}

func TestParamsUUID(t *testing.T) {
	id := uuid.New()
	p := Params{"patient_id": id.String()}

	got, found := p.UUID(idKeys...)
	require.True(t, found)
	assert.Equal(t, id, got)

	_, found = Params{"patient_id": "not-a-uuid"}.UUID(idKeys...)
	assert.False(t, found)
}

func TestParamsDateAcceptsSlashForm(t *testing.T) {
	p := Params{"date": "25/12/2030"}

	got, found, err := p.Date(dateKeys...)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2030-12-25", got.String())
}

func TestParamsDateReportsInvalidValue(t *testing.T) {
	p := Params{"date": "someday"}

	_, found, err := p.Date(dateKeys...)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestParamsHasAny(t *testing.T) {
	p := Params{"patientName": "Jane"}

	assert.True(t, p.HasAny(patientNameKeys...))
	assert.False(t, p.HasAny(dateKeys...))
}

func TestParamsStringOr(t *testing.T) {
	p := Params{}

	assert.Equal(t, "fallback", p.StringOr("fallback", "missing"))
}
