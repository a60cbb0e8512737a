package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// OpenSession returns the employee's open time entry, or ErrNotFound when the
// employee is not clocked in.
func (p *SQLProvider) OpenSession(ctx context.Context, employeeID int64) (*TimeEntry, error) {
	var entry TimeEntry
	err := p.db.GetContext(ctx, &entry, `
		SELECT * FROM time_entries
		WHERE employee_id = ? AND end_time IS NULL AND is_active = 1`, employeeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &entry, nil
}

// StartSession inserts the open entry and refreshes the employee's last-known
// device fingerprint as a single transaction. The partial unique index on
// open sessions makes a concurrent double-start fail with
// ErrOpenSessionExists instead of inserting a second open row.
func (p *SQLProvider) StartSession(ctx context.Context, entry *TimeEntry) error {
	entry.CreatedAt = time.Now().UTC()
	entry.IsActive = true

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO time_entries
			(employee_id, project_id, task_id, start_time,
			 start_ip_address, start_mac_address, device_info, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EmployeeID, entry.ProjectID, entry.TaskID, entry.StartTime,
		entry.StartIPAddress, entry.StartMACAddress, entry.DeviceInfo, entry.IsActive, entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrOpenSessionExists
		}
		return err
	}

	if entry.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE employees
		SET last_ip_address = ?, last_mac_address = ?, device_info = ?, updated_at = ?
		WHERE id = ?`,
		entry.StartIPAddress, entry.StartMACAddress, entry.DeviceInfo, entry.CreatedAt, entry.EmployeeID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CloseSession persists the stop of an open entry: end time, duration and the
// active flag flip.
func (p *SQLProvider) CloseSession(ctx context.Context, entry *TimeEntry) error {
	now := time.Now().UTC()
	entry.UpdatedAt = &now

	res, err := p.db.ExecContext(ctx, `
		UPDATE time_entries
		SET end_time = ?, duration_seconds = ?, is_active = 0, updated_at = ?
		WHERE id = ? AND end_time IS NULL`,
		entry.EndTime, entry.DurationSeconds, entry.UpdatedAt, entry.ID)
	if err != nil {
		return err
	}

	entry.IsActive = false
	return requireRowAffected(res)
}

func (p *SQLProvider) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	var entry TimeEntry
	err := p.db.GetContext(ctx, &entry, `SELECT * FROM time_entries WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEmployeeTimeEntry returns the entry only when it belongs to the employee.
func (p *SQLProvider) GetEmployeeTimeEntry(ctx context.Context, id, employeeID int64) (*TimeEntry, error) {
	var entry TimeEntry
	err := p.db.GetContext(ctx, &entry, `
		SELECT * FROM time_entries WHERE id = ? AND employee_id = ?`, id, employeeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEmployeeEntries returns the employee's entries joined with employee,
// project and task names, newest first. Date bounds on start_time are
// inclusive.
func (p *SQLProvider) ListEmployeeEntries(ctx context.Context, employeeID int64, from, to *time.Time, limit, offset int) ([]TimeEntryDetail, error) {
	entries := []TimeEntryDetail{}

	query := `
		SELECT t.*, e.name AS employee_name, p.name AS project_name, k.name AS task_name
		FROM time_entries t
		JOIN employees e ON e.id = t.employee_id
		JOIN projects p ON p.id = t.project_id
		JOIN tasks k ON k.id = t.task_id
		WHERE t.employee_id = ?`
	args := []any{employeeID}

	if from != nil {
		query += ` AND t.start_time >= ?`
		args = append(args, *from)
	}
	if to != nil {
		query += ` AND t.start_time <= ?`
		args = append(args, *to)
	}

	query += ` ORDER BY t.start_time DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	err := p.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}
