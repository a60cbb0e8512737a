package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CreateProject inserts the project and its assignment roster in one
// transaction. Employee ids that do not exist are ignored, matching the
// lookup-then-assign behavior of the update path.
func (p *SQLProvider) CreateProject(ctx context.Context, project *Project, employeeIDs []int64) error {
	project.CreatedAt = time.Now().UTC()
	project.IsActive = true

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO projects (name, description, is_active, created_at)
		VALUES (?, ?, ?, ?)`,
		project.Name, project.Description, project.IsActive, project.CreatedAt)
	if err != nil {
		return err
	}

	if project.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	if err := assignEmployeesTx(ctx, tx, project.ID, employeeIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *SQLProvider) GetProject(ctx context.Context, id int64) (*Project, error) {
	var project Project
	err := p.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects returns active projects with their rosters loaded.
func (p *SQLProvider) ListProjects(ctx context.Context, limit, offset int) ([]Project, error) {
	projects := []Project{}
	err := p.db.SelectContext(ctx, &projects, `
		SELECT * FROM projects WHERE is_active = 1 ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].Employees, err = p.ProjectEmployees(ctx, projects[i].ID); err != nil {
			return nil, err
		}
	}

	return projects, nil
}

func (p *SQLProvider) ProjectEmployees(ctx context.Context, projectID int64) ([]Employee, error) {
	employees := []Employee{}
	err := p.db.SelectContext(ctx, &employees, `
		SELECT e.* FROM employees e
		JOIN project_employees pe ON pe.employee_id = e.id
		WHERE pe.project_id = ?
		ORDER BY e.id`, projectID)
	return employees, err
}

// UpdateProject applies only the non-nil fields of update. A non-nil
// EmployeeIDs replaces the whole roster.
func (p *SQLProvider) UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*Project, error) {
	project, err := p.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = update.Description
	}
	if update.IsActive != nil {
		project.IsActive = *update.IsActive
	}

	now := time.Now().UTC()
	project.UpdatedAt = &now

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		project.Name, project.Description, project.IsActive, project.UpdatedAt, id)
	if err != nil {
		return nil, err
	}

	if update.EmployeeIDs != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_employees WHERE project_id = ?`, id); err != nil {
			return nil, err
		}
		if err := assignEmployeesTx(ctx, tx, id, update.EmployeeIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if project.Employees, err = p.ProjectEmployees(ctx, id); err != nil {
		return nil, err
	}

	return project, nil
}

func (p *SQLProvider) DeactivateProject(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE projects SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func assignEmployeesTx(ctx context.Context, tx execer, projectID int64, employeeIDs []int64) error {
	for _, employeeID := range employeeIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO project_employees (project_id, employee_id)
			SELECT ?, id FROM employees WHERE id = ?`,
			projectID, employeeID)
		if err != nil {
			return err
		}
	}
	return nil
}
