package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (p *SQLProvider) CreateTask(ctx context.Context, task *Task) error {
	task.CreatedAt = time.Now().UTC()
	task.IsActive = true

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO tasks (name, description, project_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		task.Name, task.Description, task.ProjectID, task.IsActive, task.CreatedAt)
	if err != nil {
		return err
	}

	task.ID, err = res.LastInsertId()
	return err
}

func (p *SQLProvider) GetTask(ctx context.Context, id int64) (*Task, error) {
	var task Task
	err := p.db.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTaskInProject returns the task only when it belongs to the given project.
func (p *SQLProvider) GetTaskInProject(ctx context.Context, taskID, projectID int64) (*Task, error) {
	var task Task
	err := p.db.GetContext(ctx, &task, `
		SELECT * FROM tasks WHERE id = ? AND project_id = ?`, taskID, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &task, nil
}

func (p *SQLProvider) ListTasks(ctx context.Context, projectID *int64, limit, offset int) ([]Task, error) {
	tasks := []Task{}

	query := `SELECT * FROM tasks WHERE is_active = 1`
	args := []any{}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	err := p.db.SelectContext(ctx, &tasks, query, args...)
	return tasks, err
}

// UpdateTask applies only the non-nil fields of update.
func (p *SQLProvider) UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*Task, error) {
	task, err := p.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		task.Name = *update.Name
	}
	if update.Description != nil {
		task.Description = update.Description
	}
	if update.IsActive != nil {
		task.IsActive = *update.IsActive
	}

	now := time.Now().UTC()
	task.UpdatedAt = &now

	_, err = p.db.ExecContext(ctx, `
		UPDATE tasks SET name = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		task.Name, task.Description, task.IsActive, task.UpdatedAt, id)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (p *SQLProvider) DeactivateTask(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE tasks SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
