package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-assistant/internal/llm"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/retrieval"
)

type fakeLLM struct {
	reply      json.RawMessage
	err        error
	lastBundle llm.ContextBundle
	calls      int
}

func (f *fakeLLM) Chat(ctx context.Context, message string, history []model.ChatMessage, bundle llm.ContextBundle) (json.RawMessage, error) {
	f.calls++
	f.lastBundle = bundle
	return f.reply, f.err
}

type fakeRetrieval struct {
	result     *retrieval.QueryResult
	err        error
	startCalls int
	startErr   error
}

func (f *fakeRetrieval) StartServer(ctx context.Context) error {
	f.startCalls++
	return f.startErr
}

func (f *fakeRetrieval) Query(ctx context.Context, question string) (*retrieval.QueryResult, error) {
	return f.result, f.err
}

func newTestRouter(env *testEnv, backend *fakeLLM, docs *fakeRetrieval) *Router {
	return NewRouter(
		context.Background(),
		env.settingRepo,
		backend,
		docs,
		env.registry,
		env.store,
		NewLinker(env.store),
		sharedMetrics(),
		quietLogger(),
	)
}

func TestHandleMessageDispatchesToolCall(t *testing.T) {
	env := newTestEnv()
	backend := &fakeLLM{reply: json.RawMessage(`{"tool":"create_patient","parameters":{"name":"Jane Doe"}}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "add jane doe")

	require.True(t, resp.OK, resp.Reply)
	assert.Equal(t, "create_patient", resp.Action)
	assert.Contains(t, resp.Reply, "Jane Doe")
	assert.Len(t, env.patientRepo.patients, 1)
}

func TestHandleMessageAnnotatesToolReply(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	require.NoError(t, env.store.Refresh(context.Background()))
	backend := &fakeLLM{reply: json.RawMessage(`{"response":"Jane Doe is your next visit."}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "who is next?")

	require.True(t, resp.OK)
	assert.Contains(t, resp.Reply, `data-entity="patient:`)
}

func TestHandleMessageRelaysAnswerQuestion(t *testing.T) {
	env := newTestEnv()
	backend := &fakeLLM{reply: json.RawMessage(`{"tool":"answer_question","parameters":{"answer":"Clinic opens at 9am."}}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "when do you open?")

	require.True(t, resp.OK)
	assert.Equal(t, "Clinic opens at 9am.", resp.Reply)
	assert.Empty(t, resp.Action)
}

func TestHandleMessageBackendFailureEnvelope(t *testing.T) {
	env := newTestEnv()
	backend := &fakeLLM{reply: json.RawMessage(`{"success":false,"error":"model overloaded"}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "hello")

	assert.False(t, resp.OK)
	assert.Equal(t, FailurePrefix+"model overloaded", resp.Reply)
}

func TestHandleMessageBackendUnreachable(t *testing.T) {
	env := newTestEnv()
	backend := &fakeLLM{err: fmt.Errorf("dial tcp: connection refused")}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "hello")

	assert.False(t, resp.OK)
	assert.Equal(t, FailurePrefix+backendErrorReply, resp.Reply)
}

func TestHandleMessageEmptyReplyFallsBack(t *testing.T) {
	env := newTestEnv()
	backend := &fakeLLM{reply: json.RawMessage(`{"response":""}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	resp := router.HandleMessage(context.Background(), "hello")

	require.True(t, resp.OK)
	assert.Equal(t, fallbackAck, resp.Reply)
}

func TestHandleMessageBundleExcludesInventory(t *testing.T) {
	env := newTestEnv()
	env.seedPatient("Jane Doe")
	env.seedItem("Gloves", 50, 20)
	require.NoError(t, env.store.Refresh(context.Background()))
	backend := &fakeLLM{reply: json.RawMessage(`{"response":"ok"}`)}
	router := newTestRouter(env, backend, &fakeRetrieval{})

	router.HandleMessage(context.Background(), "hello")

	require.Equal(t, 1, backend.calls)
	assert.Len(t, backend.lastBundle.Patients, 1)
}

func TestSetModePersistsAndRestores(t *testing.T) {
	env := newTestEnv()
	docs := &fakeRetrieval{}
	router := newTestRouter(env, &fakeLLM{}, docs)

	require.Equal(t, model.ChatModeTool, router.Mode())
	require.NoError(t, router.SetMode(context.Background(), model.ChatModeRetrieval))
	assert.Equal(t, model.ChatModeRetrieval, router.Mode())
	assert.Equal(t, string(model.ChatModeRetrieval), env.settingRepo.values[settingChatMode])
	assert.Equal(t, 1, docs.startCalls)

	// A new router over the same settings resumes the stored mode.
	restored := newTestRouter(env, &fakeLLM{}, &fakeRetrieval{})
	assert.Equal(t, model.ChatModeRetrieval, restored.Mode())
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	env := newTestEnv()
	router := newTestRouter(env, &fakeLLM{}, &fakeRetrieval{})

	err := router.SetMode(context.Background(), model.ChatMode("telepathy"))

	require.Error(t, err)
	assert.Equal(t, model.ChatModeTool, router.Mode())
}

func TestRetrievalModeReturnsSources(t *testing.T) {
	env := newTestEnv()
	docs := &fakeRetrieval{result: &retrieval.QueryResult{
		Success: true,
		Answer:  "Sterilize instruments after each use.",
		Sources: []model.Source{{Title: "Hygiene protocol"}},
	}}
	router := newTestRouter(env, &fakeLLM{}, docs)
	require.NoError(t, router.SetMode(context.Background(), model.ChatModeRetrieval))

	resp := router.HandleMessage(context.Background(), "how do we sterilize?")

	require.True(t, resp.OK)
	assert.Equal(t, "Sterilize instruments after each use.", resp.Reply)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Hygiene protocol", resp.Sources[0].Title)
}

func TestRetrievalModeFailureKeepsReason(t *testing.T) {
	env := newTestEnv()
	docs := &fakeRetrieval{result: &retrieval.QueryResult{Success: false, Error: "index not built"}}
	router := newTestRouter(env, &fakeLLM{}, docs)
	require.NoError(t, router.SetMode(context.Background(), model.ChatModeRetrieval))

	resp := router.HandleMessage(context.Background(), "anything?")

	assert.False(t, resp.OK)
	assert.Equal(t, FailurePrefix+"index not built", resp.Reply)
}

func TestRetrievalModeBackendUnreachable(t *testing.T) {
	env := newTestEnv()
	docs := &fakeRetrieval{err: fmt.Errorf("dial tcp: connection refused")}
	router := newTestRouter(env, &fakeLLM{}, docs)
	require.NoError(t, router.SetMode(context.Background(), model.ChatModeRetrieval))

	resp := router.HandleMessage(context.Background(), "anything?")

	assert.False(t, resp.OK)
	assert.Equal(t, FailurePrefix+backendErrorReply, resp.Reply)
}
