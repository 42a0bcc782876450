package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
)

// createAppointmentAction is the heuristic fallback target for unknown
// action names that look like scheduling requests.
const createAppointmentAction = "create_appointment"

// Registry maps action names and aliases to handlers and dispatches
// proposals from the assistant backend. Lookup is case-insensitive.
type Registry struct {
	actions map[string]*Action
	aliases map[string]string
	pinger  repository.Pinger
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewRegistry(pinger repository.Pinger, m *metrics.Metrics, l *logger.Logger) *Registry {
	return &Registry{
		actions: make(map[string]*Action),
		aliases: make(map[string]string),
		pinger:  pinger,
		metrics: m,
		logger:  l,
	}
}

// Register installs an action under its canonical name and every alias.
func (r *Registry) Register(a *Action) {
	name := strings.ToLower(a.Name)
	r.actions[name] = a
	for _, alias := range a.Aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Resolve finds the action for name, following aliases.
func (r *Registry) Resolve(name string) (*Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, found := r.actions[name]; found {
		return a, true
	}
	if canonical, found := r.aliases[name]; found {
		return r.actions[canonical], true
	}
	return nil, false
}

// Names returns every canonical action name currently registered.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// Dispatch resolves name and executes its handler.
//
// Unknown names are not hard errors: a proposal that carries a patient
// name and a date is treated as an appointment-creation request, and
// anything else gets a generic acknowledgement so the conversation keeps
// flowing. Mutating actions are refused up front when the database is
// unreachable, before the handler runs.
func (r *Registry) Dispatch(ctx context.Context, name string, params Params) Outcome {
	action, found := r.Resolve(name)
	if !found {
		if params.HasAny(patientNameKeys...) && params.HasAny(dateKeys...) {
			action, found = r.Resolve(createAppointmentAction)
		}
		if !found {
			r.logger.Info("unknown action acknowledged", "action", name)
			r.metrics.ActionsDispatched.WithLabelValues("unknown", "ok").Inc()
			if text, present := params.String(textKeys...); present {
				return ok("%s", text)
			}
			return ok("Request processed.")
		}
	}

	if action.Mutates && r.pinger != nil {
		if err := r.pinger.Ping(ctx); err != nil {
			r.logger.Error(err, "refusing mutating action, database unreachable", "action", action.Name)
			r.metrics.ActionsDispatched.WithLabelValues(action.Name, "not_connected").Inc()
			return fail("Database is not connected. Please try again shortly.")
		}
	}

	start := time.Now()
	outcome := action.Handle(ctx, params)
	r.metrics.ActionLatency.WithLabelValues(action.Name).Observe(time.Since(start).Seconds())

	result := "ok"
	if !outcome.OK {
		result = "failed"
	}
	r.metrics.ActionsDispatched.WithLabelValues(action.Name, result).Inc()
	return outcome
}
