package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (p *SQLProvider) CreateScreenshot(ctx context.Context, screenshot *Screenshot) error {
	screenshot.CreatedAt = time.Now().UTC()

	res, err := p.db.ExecContext(ctx, `
		INSERT INTO screenshots
			(employee_id, time_entry_id, filename, file_path, file_size,
			 timestamp, permission_granted, width, height, format, device_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		screenshot.EmployeeID, screenshot.TimeEntryID, screenshot.Filename,
		screenshot.FilePath, screenshot.FileSize, screenshot.Timestamp,
		screenshot.PermissionGranted, screenshot.Width, screenshot.Height,
		screenshot.Format, screenshot.DeviceInfo, screenshot.CreatedAt)
	if err != nil {
		return err
	}

	screenshot.ID, err = res.LastInsertId()
	return err
}

func (p *SQLProvider) GetScreenshot(ctx context.Context, id int64) (*Screenshot, error) {
	var screenshot Screenshot
	err := p.db.GetContext(ctx, &screenshot, `SELECT * FROM screenshots WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &screenshot, nil
}

// ListScreenshots returns screenshots matching the filter, newest first.
func (p *SQLProvider) ListScreenshots(ctx context.Context, filter ScreenshotFilter) ([]Screenshot, error) {
	screenshots := []Screenshot{}

	query := `SELECT * FROM screenshots WHERE 1 = 1`
	args := []any{}

	if filter.EmployeeID != nil {
		query += ` AND employee_id = ?`
		args = append(args, *filter.EmployeeID)
	}
	if filter.TimeEntryID != nil {
		query += ` AND time_entry_id = ?`
		args = append(args, *filter.TimeEntryID)
	}
	if filter.From != nil {
		query += ` AND timestamp >= ?`
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND timestamp <= ?`
		args = append(args, *filter.To)
	}
	if filter.PermissionGranted != nil {
		query += ` AND permission_granted = ?`
		args = append(args, *filter.PermissionGranted)
	}

	query += ` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	err := p.db.SelectContext(ctx, &screenshots, query, args...)
	return screenshots, err
}

func (p *SQLProvider) DeleteScreenshot(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM screenshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
