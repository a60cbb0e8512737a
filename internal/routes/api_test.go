package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-tracker/internal/blob"
	"time-tracker/internal/config"
	"time-tracker/internal/email"
	"time-tracker/internal/screenshot"
	"time-tracker/internal/storage"
	"time-tracker/internal/tracker"
)

func newTestServer(t *testing.T, opts ...func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.Cfg = &config.Config{
		Secret:          "test-secret",
		TokenTTL:        60,
		VerificationTTL: 24,
		FrontendURL:     "http://localhost:5173",
		Upload: config.UploadConfig{
			Dir:            t.TempDir(),
			MaxSize:        5 * 1024 * 1024,
			JPEGQuality:    85,
			AllowedFormats: []string{"jpg", "jpeg", "png"},
		},
	}
	for _, opt := range opts {
		opt(config.Cfg)
	}

	store := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	require.NotNil(t, store)
	t.Cleanup(func() { store.Close() })

	blobs, err := blob.NewFileStore(config.Cfg.Upload.Dir)
	require.NoError(t, err)

	ingestor := screenshot.NewIngestor(store, blobs, screenshot.Config{
		MaxSize:        config.Cfg.Upload.MaxSize,
		JPEGQuality:    config.Cfg.Upload.JPEGQuality,
		AllowedFormats: config.Cfg.Upload.AllowedFormats,
	})

	r := gin.New()
	r.Use(ErrorHandler())

	Health(r.Group(""), store)

	api := r.Group("/api/v1")
	AuthRoutes(api.Group("/auth"), store)
	EmployeeRoutes(api.Group("/employees"), store, email.NewSender(config.Cfg.Email))
	ProjectRoutes(api.Group("/projects"), store)
	TaskRoutes(api.Group("/tasks"), store)
	TimeEntryRoutes(api.Group("/time-entries"), tracker.New(store))
	ScreenshotRoutes(api.Group("/screenshots"), ingestor)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// registerVerified registers an employee and completes email verification.
func registerVerified(t *testing.T, r *gin.Engine, name, address string) storage.Employee {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": name, "email": address})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var employee storage.Employee
	decode(t, w, &employee)
	require.NotNil(t, employee.VerificationToken)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/employees/%d/verify", employee.ID),
		gin.H{"token": *employee.VerificationToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verified storage.Employee
	decode(t, w, &verified)
	require.True(t, verified.IsVerified)
	require.Equal(t, storage.EmployeeActive, verified.Status)
	return verified
}

func createProject(t *testing.T, r *gin.Engine, name string, employeeIDs []int64) storage.Project {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", gin.H{"name": name, "employee_ids": employeeIDs})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project storage.Project
	decode(t, w, &project)
	return project
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestEmployeeRegistrationFlow(t *testing.T) {
	r := newTestServer(t)

	employee := registerVerified(t, r, "Alice", "alice@example.com")
	assert.Nil(t, employee.VerificationToken, "token is cleared after verification")

	// Registering the verified email again is rejected.
	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_VERIFIED")

	// An unverified registration re-issues the token instead of failing.
	w = doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Bob", "email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var bob storage.Employee
	decode(t, w, &bob)
	require.NotNil(t, bob.VerificationToken)
	firstToken := *bob.VerificationToken

	w = doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Bob", "email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var again storage.Employee
	decode(t, w, &again)
	assert.Equal(t, bob.ID, again.ID, "same employee, no duplicate row")
	require.NotNil(t, again.VerificationToken)
	require.NotEqual(t, firstToken, *again.VerificationToken, "re-registering mints a fresh token")

	// The stale token no longer verifies once a new one is issued.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/employees/%d/verify", bob.ID), gin.H{"token": firstToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/employees/%d/verify", bob.ID), gin.H{"token": *again.VerificationToken})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmployeeValidationAndUpdates(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "NoEmail"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Bad", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	employee := registerVerified(t, r, "Alice", "alice@example.com")

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/employees/%d", employee.ID), gin.H{"name": "Alice Smith"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated storage.Employee
	decode(t, w, &updated)
	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/employees/%d", employee.ID), gin.H{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/employees/9999", gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/employees/%d", employee.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", employee.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deactivated storage.Employee
	decode(t, w, &deactivated)
	assert.Equal(t, storage.EmployeeInactive, deactivated.Status, "delete is a soft deactivation")
}

func TestLogin(t *testing.T) {
	r := newTestServer(t)

	employee := registerVerified(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": employee.Email})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string           `json:"access_token"`
		TokenType   string           `json:"token_type"`
		Employee    storage.Employee `json:"employee"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, employee.ID, resp.Employee.ID)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")

	// Unverified employees cannot log in.
	w = doJSON(t, r, http.MethodPost, "/api/v1/employees", gin.H{"name": "Bob", "email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectCreatesDefaultTask(t *testing.T) {
	r := newTestServer(t)

	alice := registerVerified(t, r, "Alice", "alice@example.com")
	project := createProject(t, r, "Website", []int64{alice.ID})

	require.Len(t, project.Employees, 1)
	assert.Equal(t, alice.ID, project.Employees[0].ID)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks?project_id=%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []storage.Task
	decode(t, w, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Default Task - Website", tasks[0].Name)
}

func TestProjectRosterUpdate(t *testing.T) {
	r := newTestServer(t)

	alice := registerVerified(t, r, "Alice", "alice@example.com")
	bob := registerVerified(t, r, "Bob", "bob@example.com")
	project := createProject(t, r, "Website", []int64{alice.ID})

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%d", project.ID),
		gin.H{"employee_ids": []int64{bob.ID}})
	require.Equal(t, http.StatusOK, w.Code)

	var updated storage.Project
	decode(t, w, &updated)
	require.Len(t, updated.Employees, 1)
	assert.Equal(t, bob.ID, updated.Employees[0].ID)

	// A rename must not disturb the roster.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/projects/%d", project.ID), gin.H{"name": "Website v2"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, "Website v2", updated.Name)
	require.Len(t, updated.Employees, 1)
	assert.Equal(t, bob.ID, updated.Employees[0].ID)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/employees", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roster []storage.Employee
	decode(t, w, &roster)
	assert.Len(t, roster, 1)

	w = doJSON(t, r, http.MethodGet, "/api/v1/projects/9999/employees", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimeEntryLifecycle(t *testing.T) {
	r := newTestServer(t)

	alice := registerVerified(t, r, "Alice", "alice@example.com")
	project := createProject(t, r, "Website", []int64{alice.ID})

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks?project_id=%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []storage.Task
	decode(t, w, &tasks)
	require.NotEmpty(t, tasks)

	startBody := gin.H{"employee_id": alice.ID, "project_id": project.ID, "task_id": tasks[0].ID}

	w = doJSON(t, r, http.MethodPost, "/api/v1/time-entries/start", startBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry storage.TimeEntry
	decode(t, w, &entry)
	assert.NotZero(t, entry.ID)
	assert.True(t, entry.IsActive)
	assert.Nil(t, entry.EndTime)

	// Second start while a session is open conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/v1/time-entries/start", startBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_EXISTS")

	w = doJSON(t, r, http.MethodPost, "/api/v1/time-entries/stop", gin.H{"employee_id": alice.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var stopped storage.TimeEntry
	decode(t, w, &stopped)
	assert.Equal(t, entry.ID, stopped.ID)
	require.NotNil(t, stopped.DurationSeconds)
	assert.GreaterOrEqual(t, *stopped.DurationSeconds, int64(0))
	assert.False(t, stopped.IsActive)

	// Stop without an open session is a 404, not a silent success.
	w = doJSON(t, r, http.MethodPost, "/api/v1/time-entries/stop", gin.H{"employee_id": alice.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_ACTIVE_SESSION")

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/time-entries/employee/%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []storage.TimeEntryDetail
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].EmployeeName)
	assert.Equal(t, "Website", entries[0].ProjectName)

	// Unknown references map to 404s.
	w = doJSON(t, r, http.MethodPost, "/api/v1/time-entries/start",
		gin.H{"employee_id": int64(9999), "project_id": project.ID, "task_id": tasks[0].ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uploadScreenshot(t *testing.T, r *gin.Engine, employeeID int64, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("employee_id", fmt.Sprintf("%d", employeeID)))

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	header["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screenshots", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pngContent(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	return buf.Bytes()
}

func TestScreenshotEndpoints(t *testing.T) {
	r := newTestServer(t)

	alice := registerVerified(t, r, "Alice", "alice@example.com")
	content := pngContent(t)

	w := uploadScreenshot(t, r, alice.ID, "screen.png", "image/png", content)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var shot storage.Screenshot
	decode(t, w, &shot)
	assert.NotZero(t, shot.ID)
	assert.Equal(t, alice.ID, shot.EmployeeID)
	require.NotNil(t, shot.Format)
	assert.Equal(t, "PNG", *shot.Format)

	w = uploadScreenshot(t, r, alice.ID, "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AN_IMAGE")

	w = uploadScreenshot(t, r, 9999, "screen.png", "image/png", content)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/screenshots?employee_id=%d", alice.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []storage.Screenshot
	decode(t, w, &list)
	assert.Len(t, list, 1)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/screenshots/%d/download", shot.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, content, w.Body.Bytes())

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/screenshots/%d", shot.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/screenshots/%d", shot.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScreenshotTooLarge(t *testing.T) {
	content := pngContent(t)

	r := newTestServer(t, func(cfg *config.Config) {
		cfg.Upload.MaxSize = int64(len(content)) - 1
	})
	alice := registerVerified(t, r, "Alice", "alice@example.com")

	// The handler caps the body read at MaxSize+1, enough for the ingestor
	// to see the upload is over the limit.
	w := uploadScreenshot(t, r, alice.ID, "big.png", "image/png", content)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
}

func TestPaginationValidation(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/employees?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees?skip=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/employees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String(), "empty listing is a JSON array")

	w = doJSON(t, r, http.MethodGet, "/api/v1/time-entries/employee/1?start_date=March-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
