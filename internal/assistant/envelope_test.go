package assistant

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelopeToolCall(t *testing.T) {
	env := ParseEnvelope([]byte(`{"tool":"create_patient","parameters":{"name":"Jane Doe"}}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "create_patient", env.Tool)
	name, found := env.Params.String("name")
	require.True(t, found)
	assert.Equal(t, "Jane Doe", name)
}

func TestParseEnvelopeActionAndParamsSynonyms(t *testing.T) {
	env := ParseEnvelope([]byte(`{"action":"list_patients","params":{}}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "list_patients", env.Tool)
	assert.NotNil(t, env.Params)
}

func TestParseEnvelopePlainResponse(t *testing.T) {
	env := ParseEnvelope([]byte(`{"response":"You have 3 patients."}`))

	require.Equal(t, EnvelopeText, env.Kind)
	assert.Equal(t, "You have 3 patients.", env.Text)
}

func TestParseEnvelopeUnwrapsNestedToolCall(t *testing.T) {
	// The backend sometimes stuffs a JSON tool call into the prose field.
	env := ParseEnvelope([]byte(`{"response":"{\"tool\":\"list_patients\",\"parameters\":{}}"}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "list_patients", env.Tool)
}

func TestParseEnvelopeUnwrapsOnlyOneLevel(t *testing.T) {
	toolCall := `{"tool":"list_patients","parameters":{}}`
	once, err := json.Marshal(map[string]string{"response": toolCall})
	require.NoError(t, err)
	twice, err := json.Marshal(map[string]string{"response": string(once)})
	require.NoError(t, err)

	// One level of nesting resolves to the tool call.
	require.Equal(t, EnvelopeToolCall, ParseEnvelope(once).Kind)

	// A second level stays prose.
	assert.Equal(t, EnvelopeText, ParseEnvelope(twice).Kind)
}

func TestParseEnvelopeBareString(t *testing.T) {
	env := ParseEnvelope([]byte(`"Hello there"`))

	require.Equal(t, EnvelopeText, env.Kind)
	assert.Equal(t, "Hello there", env.Text)
}

func TestParseEnvelopeBareStringHoldingToolCall(t *testing.T) {
	env := ParseEnvelope([]byte(`"{\"tool\":\"backup_data\",\"parameters\":{}}"`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "backup_data", env.Tool)
}

func TestParseEnvelopeFailure(t *testing.T) {
	env := ParseEnvelope([]byte(`{"success":false,"error":"model overloaded"}`))

	require.Equal(t, EnvelopeFailure, env.Kind)
	assert.Equal(t, "model overloaded", env.Reason)
}

func TestParseEnvelopeFailureWithoutReason(t *testing.T) {
	env := ParseEnvelope([]byte(`{"success":false}`))

	require.Equal(t, EnvelopeFailure, env.Kind)
	assert.NotEmpty(t, env.Reason)
}

func TestParseEnvelopeNonJSON(t *testing.T) {
	env := ParseEnvelope([]byte(`I could not parse that`))

	require.Equal(t, EnvelopeText, env.Kind)
	assert.Equal(t, "I could not parse that", env.Text)
}

func TestParseEnvelopeEmpty(t *testing.T) {
	env := ParseEnvelope(nil)

	assert.Equal(t, EnvelopeText, env.Kind)
	assert.Empty(t, env.Text)
}

func TestParseEnvelopeFoldsResponseIntoRelayCall(t *testing.T) {
	env := ParseEnvelope([]byte(`{"tool":"answer_question","response":"The clinic opens at 9."}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "answer_question", env.Tool)
	text, found := env.Params.String(textKeys...)
	require.True(t, found)
	assert.Equal(t, "The clinic opens at 9.", text)
}

func TestParseEnvelopeRelayKeepsParameterText(t *testing.T) {
	env := ParseEnvelope([]byte(`{"tool":"answer_question","parameters":{"text":"from params"},"response":"from response"}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	text, found := env.Params.String(textKeys...)
	require.True(t, found)
	assert.Equal(t, "from params", text)
}

func TestParseEnvelopeToolWinsOverResponse(t *testing.T) {
	env := ParseEnvelope([]byte(`{"tool":"list_patients","parameters":{},"response":"ignored"}`))

	require.Equal(t, EnvelopeToolCall, env.Kind)
	assert.Equal(t, "list_patients", env.Tool)
}
