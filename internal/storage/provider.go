package storage

import (
	"context"
	"log/slog"
	"time"

	"time-tracker/internal/config"
)

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Employee methods
	CreateEmployee(ctx context.Context, employee *Employee) error
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error)
	UpdateEmployee(ctx context.Context, id int64, update EmployeeUpdate) (*Employee, error)
	SetVerificationToken(ctx context.Context, id int64, token string) error
	MarkEmployeeVerified(ctx context.Context, id int64) (*Employee, error)
	DeactivateEmployee(ctx context.Context, id int64) error

	// Project methods
	CreateProject(ctx context.Context, project *Project, employeeIDs []int64) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]Project, error)
	ProjectEmployees(ctx context.Context, projectID int64) ([]Employee, error)
	UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*Project, error)
	DeactivateProject(ctx context.Context, id int64) error

	// Task methods
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	GetTaskInProject(ctx context.Context, taskID, projectID int64) (*Task, error)
	ListTasks(ctx context.Context, projectID *int64, limit, offset int) ([]Task, error)
	UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*Task, error)
	DeactivateTask(ctx context.Context, id int64) error

	// Time entry methods
	OpenSession(ctx context.Context, employeeID int64) (*TimeEntry, error)
	StartSession(ctx context.Context, entry *TimeEntry) error
	CloseSession(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	GetEmployeeTimeEntry(ctx context.Context, id, employeeID int64) (*TimeEntry, error)
	ListEmployeeEntries(ctx context.Context, employeeID int64, from, to *time.Time, limit, offset int) ([]TimeEntryDetail, error)

	// Screenshot methods
	CreateScreenshot(ctx context.Context, screenshot *Screenshot) error
	GetScreenshot(ctx context.Context, id int64) (*Screenshot, error)
	ListScreenshots(ctx context.Context, filter ScreenshotFilter) ([]Screenshot, error)
	DeleteScreenshot(ctx context.Context, id int64) error
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider, err := NewSQLiteProvider(config)
		if err != nil {
			slog.Error("Failed to open sqlite storage", "error", err)
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
