package assistant

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/store"
)

func (a *Actions) createDeadline(ctx context.Context, p Params) Outcome {
	title, found := p.String(titleKeys...)
	if !found {
		return fail("A deadline title is required.")
	}

	date, hasDate, err := p.Date(dateKeys...)
	if err != nil {
		return fail("%v.", err)
	}

	req := &model.CreateDeadlineRequest{
		Title:       title,
		Priority:    p.StringOr("", "priority", "urgency"),
		Description: p.StringOr("", "description", "details"),
	}
	if hasDate {
		req.Date = date.String()
	}

	d, err := a.deadlines.CreateDeadline(ctx, req)
	if err != nil {
		return outcomeFromErr(err, "Could not create the deadline.")
	}

	a.recordChange(ctx, store.KindDeadline, "deadline.created", d)
	if d.Date.IsZero() {
		return okData(d, "Created deadline %q (%s priority).", d.Title, d.Priority)
	}
	return okData(d, "Created deadline %q due %s (%s priority).", d.Title, d.Date, d.Priority)
}

func (a *Actions) updateDeadline(ctx context.Context, p Params) Outcome {
	d, failure := a.resolveDeadline(ctx, p)
	if d == nil {
		return failure
	}

	req := &model.UpdateDeadlineRequest{
		Title:       p.StringPtr("new_title", "newTitle"),
		Date:        p.StringPtr(dateKeys...),
		Priority:    p.StringPtr("priority", "urgency"),
		Description: p.StringPtr("description", "details"),
	}

	updated, err := a.deadlines.UpdateDeadline(ctx, d.ID, req)
	if err != nil {
		return outcomeFromErr(err, "Could not update the deadline.")
	}

	a.recordChange(ctx, store.KindDeadline, "deadline.updated", updated)
	return okData(updated, "Updated deadline %q, now due %s.", updated.Title, updated.Date)
}

func (a *Actions) deleteDeadline(ctx context.Context, p Params) Outcome {
	d, failure := a.resolveDeadline(ctx, p)
	if d == nil {
		return failure
	}

	if err := a.deadlines.DeleteDeadline(ctx, d.ID); err != nil {
		return outcomeFromErr(err, "Could not delete the deadline.")
	}

	a.recordChange(ctx, store.KindDeadline, "deadline.deleted", d)
	return ok("Deleted deadline %q.", d.Title)
}

func deadlineLine(d *model.Deadline) string {
	return fmt.Sprintf("%s, due %s (%s)", d.Title, d.Date, d.Priority)
}

func (a *Actions) listDeadlines(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindDeadline); err != nil {
		a.logger.Error(err, "deadline list served from stale snapshot")
	}
	deadlines := a.store.Deadlines()
	if len(deadlines) == 0 {
		return ok("There are no deadlines on file.")
	}

	lines := make([]string, 0, len(deadlines))
	for _, d := range deadlines {
		lines = append(lines, deadlineLine(d))
	}
	header := fmt.Sprintf("You have %d %s:", len(deadlines), plural(len(deadlines), "deadline", "deadlines"))
	return okData(deadlines, "%s", formatList(header, lines, maxListedDeadlines))
}

// upcomingDeadlines lists deadlines due today or later.
func (a *Actions) upcomingDeadlines(ctx context.Context, p Params) Outcome {
	if err := a.store.Refresh(ctx, store.KindDeadline); err != nil {
		a.logger.Error(err, "deadline list served from stale snapshot")
	}

	today := model.Today()
	var upcoming []*model.Deadline
	for _, d := range a.store.Deadlines() {
		if !d.Date.Before(today.Time) {
			upcoming = append(upcoming, d)
		}
	}
	if len(upcoming) == 0 {
		return ok("There are no upcoming deadlines.")
	}

	lines := make([]string, 0, len(upcoming))
	for _, d := range upcoming {
		lines = append(lines, deadlineLine(d))
	}
	header := fmt.Sprintf("You have %d upcoming %s:", len(upcoming), plural(len(upcoming), "deadline", "deadlines"))
	return okData(upcoming, "%s", formatList(header, lines, maxListedDeadlines))
}

func (a *Actions) searchDeadlines(ctx context.Context, p Params) Outcome {
	query, found := p.String(append(queryKeys, titleKeys...)...)
	if !found {
		return fail("What should I search deadlines for?")
	}

	if err := a.store.Refresh(ctx, store.KindDeadline); err != nil {
		a.logger.Error(err, "deadline search served from stale snapshot")
	}

	var matches []*model.Deadline
	for _, d := range a.store.Deadlines() {
		if containsFold(d.Title, query) || containsFold(d.Description, query) {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		return ok("No deadlines match %q.", query)
	}

	lines := make([]string, 0, len(matches))
	for _, d := range matches {
		lines = append(lines, deadlineLine(d))
	}
	header := fmt.Sprintf("%d %s match %q:", len(matches), plural(len(matches), "deadline", "deadlines"), query)
	return okData(matches, "%s", formatAll(header, lines))
}

func (a *Actions) getDeadlineDetails(ctx context.Context, p Params) Outcome {
	d, failure := a.resolveDeadline(ctx, p)
	if d == nil {
		return failure
	}

	msg := fmt.Sprintf("Deadline %q is due %s with %s priority", d.Title, d.Date, d.Priority)
	if d.Description != "" {
		msg += ". " + d.Description
	}
	return okData(d, "%s.", msg)
}
