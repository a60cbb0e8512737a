package storage

import "time"

// Employee status values.
const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

type Employee struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	Status            string     `db:"status" json:"status"`
	IsVerified        bool       `db:"is_verified" json:"is_verified"`
	VerificationToken *string    `db:"verification_token" json:"verification_token,omitempty"`
	LastIPAddress     *string    `db:"last_ip_address" json:"last_ip_address"`
	LastMACAddress    *string    `db:"last_mac_address" json:"last_mac_address"`
	DeviceInfo        *string    `db:"device_info" json:"device_info,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at"`
}

type Project struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at"`

	// Assignment roster, loaded explicitly where needed.
	Employees []Employee `db:"-" json:"employees,omitempty"`
}

type Task struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	ProjectID   int64      `db:"project_id" json:"project_id"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at"`
}

// TimeEntry is a work session. EndTime == nil means the session is open.
type TimeEntry struct {
	ID              int64      `db:"id" json:"id"`
	EmployeeID      int64      `db:"employee_id" json:"employee_id"`
	ProjectID       int64      `db:"project_id" json:"project_id"`
	TaskID          int64      `db:"task_id" json:"task_id"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         *time.Time `db:"end_time" json:"end_time"`
	DurationSeconds *int64     `db:"duration_seconds" json:"duration_seconds"`
	StartIPAddress  *string    `db:"start_ip_address" json:"start_ip_address"`
	StartMACAddress *string    `db:"start_mac_address" json:"start_mac_address"`
	DeviceInfo      *string    `db:"device_info" json:"device_info,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at"`
}

// TimeEntryDetail is a TimeEntry joined with the referenced names.
// The names are a read convenience, not stored facts.
type TimeEntryDetail struct {
	TimeEntry
	EmployeeName string `db:"employee_name" json:"employee_name"`
	ProjectName  string `db:"project_name" json:"project_name"`
	TaskName     string `db:"task_name" json:"task_name"`
}

type Screenshot struct {
	ID                int64     `db:"id" json:"id"`
	EmployeeID        int64     `db:"employee_id" json:"employee_id"`
	TimeEntryID       *int64    `db:"time_entry_id" json:"time_entry_id"`
	Filename          string    `db:"filename" json:"filename"`
	FilePath          string    `db:"file_path" json:"file_path"`
	FileSize          int64     `db:"file_size" json:"file_size"`
	Timestamp         time.Time `db:"timestamp" json:"timestamp"`
	PermissionGranted bool      `db:"permission_granted" json:"permission_granted"`
	Width             *int      `db:"width" json:"width"`
	Height            *int      `db:"height" json:"height"`
	Format            *string   `db:"format" json:"format"`
	DeviceInfo        *string   `db:"device_info" json:"device_info,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// EmployeeUpdate carries optional fields for a partial update.
// Only non-nil fields are applied.
type EmployeeUpdate struct {
	Name   *string
	Email  *string
	Status *string
}

// ProjectUpdate carries optional fields for a partial update.
// EmployeeIDs == nil leaves the roster unchanged; an empty slice clears it.
type ProjectUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
	EmployeeIDs []int64
}

// TaskUpdate carries optional fields for a partial update.
type TaskUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// ScreenshotFilter narrows a screenshot listing. Nil fields are ignored.
type ScreenshotFilter struct {
	EmployeeID        *int64
	TimeEntryID       *int64
	From              *time.Time
	To                *time.Time
	PermissionGranted *bool
	Limit             int
	Offset            int
}
