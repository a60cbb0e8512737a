// Package tracker owns the time-entry session lifecycle: at most one open
// session per employee at any instant.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"time-tracker/internal/storage"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found or inactive")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found or doesn't belong to project")
	ErrSessionExists    = errors.New("employee already has an active time tracking session")
	ErrNoActiveSession  = errors.New("no active time tracking session found for employee")
)

// StartRequest carries the caller-supplied fields of a session start. The
// start timestamp is server-authoritative and never taken from the caller.
type StartRequest struct {
	EmployeeID int64   `json:"employee_id" binding:"required"`
	ProjectID  int64   `json:"project_id" binding:"required"`
	TaskID     int64   `json:"task_id" binding:"required"`
	IPAddress  *string `json:"ip_address"`
	MACAddress *string `json:"mac_address"`
	DeviceInfo *string `json:"device_info"`
}

type Tracker struct {
	store storage.Provider

	// now is swappable for tests.
	now func() time.Time

	logger *slog.Logger
}

func New(store storage.Provider) *Tracker {
	return &Tracker{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: slog.With("component", "tracker"),
	}
}

// Start opens a session for the employee after checking, in order: employee
// exists and is active, project exists, task belongs to the project, and no
// session is already open. The insert itself is guarded by the store's
// open-session constraint, so two concurrent starts cannot both succeed.
func (t *Tracker) Start(ctx context.Context, req StartRequest) (*storage.TimeEntry, error) {
	employee, err := t.store.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if employee.Status != storage.EmployeeActive {
		return nil, ErrEmployeeNotFound
	}

	project, err := t.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if _, err := t.store.GetTaskInProject(ctx, req.TaskID, req.ProjectID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if _, err := t.store.OpenSession(ctx, req.EmployeeID); err == nil {
		return nil, ErrSessionExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	entry := &storage.TimeEntry{
		EmployeeID:      req.EmployeeID,
		ProjectID:       req.ProjectID,
		TaskID:          req.TaskID,
		StartTime:       t.now(),
		StartIPAddress:  req.IPAddress,
		StartMACAddress: req.MACAddress,
		DeviceInfo:      req.DeviceInfo,
	}

	if err := t.store.StartSession(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrOpenSessionExists) {
			// Lost the race against a concurrent start.
			return nil, ErrSessionExists
		}
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	t.logger.Info("Started time tracking", "employee", employee.Email, "project", project.Name, "entry_id", entry.ID)

	return entry, nil
}

// Stop closes the employee's open session and computes its duration in whole
// seconds. Stopping with no open session fails with ErrNoActiveSession; a
// second stop in a row is therefore not a no-op success.
func (t *Tracker) Stop(ctx context.Context, employeeID int64) (*storage.TimeEntry, error) {
	entry, err := t.store.OpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	endTime := t.now()
	duration := int64(endTime.Sub(entry.StartTime).Seconds())

	entry.EndTime = &endTime
	entry.DurationSeconds = &duration

	if err := t.store.CloseSession(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Closed by a concurrent stop between the lookup and the update.
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}

	t.logger.Info("Stopped time tracking", "employee_id", employeeID, "duration_seconds", duration)

	return entry, nil
}

// Entries lists the employee's sessions enriched with employee, project and
// task names, newest first. Date bounds are inclusive on start_time.
func (t *Tracker) Entries(ctx context.Context, employeeID int64, from, to *time.Time, limit, offset int) ([]storage.TimeEntryDetail, error) {
	return t.store.ListEmployeeEntries(ctx, employeeID, from, to, limit, offset)
}
