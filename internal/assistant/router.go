package assistant

import (
	"context"
	"sync"

	"github.com/jwalitptl/clinic-assistant/internal/llm"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/internal/retrieval"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
)

const (
	settingChatMode = "chat_mode"

	// answerQuestionAction is the no-op tool; its text is relayed rather
	// than dispatched as a mutation.
	answerQuestionAction = "answer_question"

	backendErrorReply = "Sorry, I couldn't reach the assistant. Please try again."
	fallbackAck       = "I've processed your request."
)

// Router owns one conversational turn end to end: it selects the backend
// for the active chat mode, normalizes the reply, dispatches proposed
// actions, and links entity mentions in the final text.
type Router struct {
	mu   sync.RWMutex
	mode model.ChatMode

	settings  repository.SettingRepository
	llm       llm.Client
	retrieval retrieval.Client
	registry  *Registry
	store     *store.Store
	linker    *Linker
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewRouter restores the persisted chat mode; an unset or unknown stored
// value falls back to tool mode.
func NewRouter(
	ctx context.Context,
	settings repository.SettingRepository,
	llmClient llm.Client,
	retrievalClient retrieval.Client,
	registry *Registry,
	st *store.Store,
	linker *Linker,
	m *metrics.Metrics,
	l *logger.Logger,
) *Router {
	mode := model.ChatModeTool
	if stored, err := settings.Get(ctx, settingChatMode); err != nil {
		l.Error(err, "failed to load persisted chat mode, using tool mode")
	} else if model.ValidChatMode(model.ChatMode(stored)) {
		mode = model.ChatMode(stored)
	}

	return &Router{
		mode:      mode,
		settings:  settings,
		llm:       llmClient,
		retrieval: retrievalClient,
		registry:  registry,
		store:     st,
		linker:    linker,
		metrics:   m,
		logger:    l,
	}
}

// Mode returns the active chat mode.
func (r *Router) Mode() model.ChatMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetMode switches and persists the chat mode. Switching into retrieval
// mode warms the retrieval backend; warm-up failure is logged but does
// not block the switch.
func (r *Router) SetMode(ctx context.Context, mode model.ChatMode) error {
	if !model.ValidChatMode(mode) {
		return errors.Validation("unknown chat mode")
	}

	if err := r.settings.Set(ctx, settingChatMode, string(mode)); err != nil {
		return err
	}

	r.mu.Lock()
	r.mode = mode
	r.mu.Unlock()

	if mode == model.ChatModeRetrieval {
		if err := r.retrieval.StartServer(ctx); err != nil {
			r.logger.Error(err, "retrieval backend warm-up failed")
		}
	}
	r.logger.Info("chat mode changed", "mode", string(mode))
	return nil
}

// HandleMessage routes one user message through the active mode and
// returns the finished reply. The reply text has already been through the
// entity mention linker; callers never re-process it.
func (r *Router) HandleMessage(ctx context.Context, message string) *model.ChatResponse {
	mode := r.Mode()
	r.metrics.ChatRequests.WithLabelValues(string(mode)).Inc()

	if mode == model.ChatModeRetrieval {
		return r.handleRetrieval(ctx, message)
	}
	return r.handleTool(ctx, message)
}

func (r *Router) handleRetrieval(ctx context.Context, message string) *model.ChatResponse {
	result, err := r.retrieval.Query(ctx, message)
	if err != nil {
		r.metrics.BackendFailures.WithLabelValues("retrieval").Inc()
		r.logger.Error(err, "retrieval query failed")
		return &model.ChatResponse{OK: false, Reply: FailurePrefix + backendErrorReply}
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "The document assistant could not answer that."
		}
		return &model.ChatResponse{OK: false, Reply: FailurePrefix + reason}
	}

	return &model.ChatResponse{
		OK:      true,
		Reply:   r.linker.Annotate(result.Answer),
		Sources: result.Sources,
	}
}

func (r *Router) handleTool(ctx context.Context, message string) *model.ChatResponse {
	bundle := llm.ContextBundle{
		Patients:     r.store.Patients(),
		Appointments: r.store.Appointments(),
		Deadlines:    r.store.Deadlines(),
	}

	raw, err := r.llm.Chat(ctx, message, nil, bundle)
	if err != nil {
		r.metrics.BackendFailures.WithLabelValues("llm").Inc()
		r.logger.Error(err, "assistant backend call failed")
		return &model.ChatResponse{OK: false, Reply: FailurePrefix + backendErrorReply}
	}

	env := ParseEnvelope(raw)
	switch env.Kind {
	case EnvelopeToolCall:
		if env.Tool != answerQuestionAction {
			outcome := r.registry.Dispatch(ctx, env.Tool, env.Params)
			return &model.ChatResponse{
				OK:     outcome.OK,
				Reply:  r.linker.Annotate(outcome.Message),
				Action: env.Tool,
				Data:   outcome.Data,
			}
		}
		// answer_question relays the supplied text without mutating state.
		outcome := r.registry.Dispatch(ctx, env.Tool, env.Params)
		return &model.ChatResponse{OK: outcome.OK, Reply: r.linker.Annotate(outcome.Message)}

	case EnvelopeFailure:
		return &model.ChatResponse{OK: false, Reply: FailurePrefix + env.Reason}

	default:
		if env.Text == "" {
			return &model.ChatResponse{OK: true, Reply: fallbackAck}
		}
		return &model.ChatResponse{OK: true, Reply: r.linker.Annotate(env.Text)}
	}
}
