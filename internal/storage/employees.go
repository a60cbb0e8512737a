package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (p *SQLProvider) CreateEmployee(ctx context.Context, employee *Employee) error {
	employee.CreatedAt = time.Now().UTC()

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO employees (name, email, status, is_verified, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		employee.Name, employee.Email, employee.Status, employee.IsVerified, employee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	employee.ID, err = res.LastInsertId()
	return err
}

func (p *SQLProvider) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	var employee Employee
	err := p.db.GetContext(ctx, &employee, `SELECT * FROM employees WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (p *SQLProvider) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	var employee Employee
	err := p.db.GetContext(ctx, &employee, `SELECT * FROM employees WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (p *SQLProvider) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	employees := []Employee{}
	err := p.db.SelectContext(ctx, &employees, `
		SELECT * FROM employees ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	return employees, err
}

// UpdateEmployee applies only the non-nil fields of update.
func (p *SQLProvider) UpdateEmployee(ctx context.Context, id int64, update EmployeeUpdate) (*Employee, error) {
	employee, err := p.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		employee.Name = *update.Name
	}
	if update.Email != nil {
		employee.Email = *update.Email
	}
	if update.Status != nil {
		employee.Status = *update.Status
	}

	now := time.Now().UTC()
	employee.UpdatedAt = &now

	_, err = p.db.ExecContext(ctx, `
		UPDATE employees SET name = ?, email = ?, status = ?, updated_at = ? WHERE id = ?`,
		employee.Name, employee.Email, employee.Status, employee.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return employee, nil
}

func (p *SQLProvider) SetVerificationToken(ctx context.Context, id int64, token string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE employees SET verification_token = ?, updated_at = ? WHERE id = ?`,
		token, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// MarkEmployeeVerified flips the employee to verified and active, clearing the
// verification token.
func (p *SQLProvider) MarkEmployeeVerified(ctx context.Context, id int64) (*Employee, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE employees
		SET is_verified = 1, status = ?, verification_token = NULL, updated_at = ?
		WHERE id = ?`,
		EmployeeActive, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireRowAffected(res); err != nil {
		return nil, err
	}
	return p.GetEmployee(ctx, id)
}

func (p *SQLProvider) DeactivateEmployee(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE employees SET status = ?, updated_at = ? WHERE id = ?`,
		EmployeeInactive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
