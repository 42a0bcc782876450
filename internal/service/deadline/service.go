package deadline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type DeadlineService interface {
	CreateDeadline(ctx context.Context, req *model.CreateDeadlineRequest) (*model.Deadline, error)
	GetDeadline(ctx context.Context, id uuid.UUID) (*model.Deadline, error)
	UpdateDeadline(ctx context.Context, id uuid.UUID, req *model.UpdateDeadlineRequest) (*model.Deadline, error)
	DeleteDeadline(ctx context.Context, id uuid.UUID) error
	ListDeadlines(ctx context.Context, limit, offset int) ([]*model.Deadline, error)
	GetDeadlinesByDate(ctx context.Context, date string) ([]*model.Deadline, error)
}

type Service struct {
	repo repository.DeadlineRepository
}

func NewService(repo repository.DeadlineRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDeadline(ctx context.Context, req *model.CreateDeadlineRequest) (*model.Deadline, error) {
	if req.Title == "" {
		return nil, errors.Validation("deadline title is required")
	}

	// The date is optional on create; an undated deadline carries zero
	// values in both date fields until one is set.
	var date model.Date
	if req.Date != "" {
		var err error
		date, err = model.ParseDate(req.Date)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("invalid deadline date: %v", err))
		}
	}

	priority := model.Priority(req.Priority)
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, errors.Validation(fmt.Sprintf("invalid priority %q", req.Priority))
	}

	deadline := &model.Deadline{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Title:       req.Title,
		Date:        date,
		DueDate:     date,
		Priority:    priority,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, deadline); err != nil {
		return nil, fmt.Errorf("failed to create deadline: %w", err)
	}
	return deadline, nil
}

func (s *Service) GetDeadline(ctx context.Context, id uuid.UUID) (*model.Deadline, error) {
	deadline, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("deadline", err)
	}
	return deadline, nil
}

// UpdateDeadline merges only the fields present in req. The two date
// fields are written together on every date change so they never diverge.
func (s *Service) UpdateDeadline(ctx context.Context, id uuid.UUID, req *model.UpdateDeadlineRequest) (*model.Deadline, error) {
	deadline, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("deadline", err)
	}

	if req.Title != nil {
		deadline.Title = *req.Title
	}
	if req.Date != nil {
		date, err := model.ParseDate(*req.Date)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("invalid deadline date: %v", err))
		}
		deadline.Date = date
		deadline.DueDate = date
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		if !model.ValidPriority(priority) {
			return nil, errors.Validation(fmt.Sprintf("invalid priority %q", *req.Priority))
		}
		deadline.Priority = priority
	}
	if req.Description != nil {
		deadline.Description = *req.Description
	}
	deadline.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, deadline); err != nil {
		return nil, fmt.Errorf("failed to update deadline: %w", err)
	}
	return deadline, nil
}

func (s *Service) DeleteDeadline(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return errors.NotFound("deadline", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}
	return nil
}

func (s *Service) ListDeadlines(ctx context.Context, limit, offset int) ([]*model.Deadline, error) {
	deadlines, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	return deadlines, nil
}

// GetDeadlinesByDate accepts any supported date form, including
// day/month/year with slashes, and queries on the canonical day.
func (s *Service) GetDeadlinesByDate(ctx context.Context, date string) ([]*model.Deadline, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid date: %v", err))
	}
	deadlines, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get deadlines by date: %w", err)
	}
	return deadlines, nil
}
