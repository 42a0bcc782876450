package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
)

type deadlineRepository struct {
	db *sqlx.DB
}

func NewDeadlineRepository(db *sqlx.DB) repository.DeadlineRepository {
	return &deadlineRepository{db: db}
}

func (r *deadlineRepository) Create(ctx context.Context, deadline *model.Deadline) error {
	query := `
		INSERT INTO deadlines (id, title, date, due_date, priority, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	deadline.CreatedAt = time.Now()
	deadline.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		deadline.ID,
		deadline.Title,
		deadline.Date,
		deadline.DueDate,
		deadline.Priority,
		deadline.Description,
		deadline.CreatedAt,
		deadline.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deadline: %w", err)
	}
	return nil
}

func (r *deadlineRepository) Get(ctx context.Context, id uuid.UUID) (*model.Deadline, error) {
	query := `SELECT * FROM deadlines WHERE id = $1`
	var deadline model.Deadline
	err := r.db.GetContext(ctx, &deadline, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deadline: %w", err)
	}
	return &deadline, nil
}

func (r *deadlineRepository) Update(ctx context.Context, deadline *model.Deadline) error {
	query := `
		UPDATE deadlines
		SET title = $1, date = $2, due_date = $3, priority = $4, description = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		deadline.Title,
		deadline.Date,
		deadline.DueDate,
		deadline.Priority,
		deadline.Description,
		time.Now(),
		deadline.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deadline: %w", err)
	}
	return nil
}

func (r *deadlineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM deadlines WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *deadlineRepository) List(ctx context.Context, limit, offset int) ([]*model.Deadline, error) {
	query := `SELECT * FROM deadlines ORDER BY date LIMIT $1 OFFSET $2`
	var deadlines []*model.Deadline
	err := r.db.SelectContext(ctx, &deadlines, query, limit, offset)
	return deadlines, err
}

func (r *deadlineRepository) GetByDate(ctx context.Context, date model.Date) ([]*model.Deadline, error) {
	query := `SELECT * FROM deadlines WHERE date = $1 ORDER BY priority DESC`
	var deadlines []*model.Deadline
	err := r.db.SelectContext(ctx, &deadlines, query, date)
	return deadlines, err
}
