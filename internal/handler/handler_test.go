package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/timekeeper/internal/database"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/report"
	"github.com/locvowork/timekeeper/internal/repository"
	"github.com/locvowork/timekeeper/internal/service"
	"github.com/locvowork/timekeeper/internal/service/serviceutils"
	"github.com/locvowork/timekeeper/internal/syncengine"
	"github.com/locvowork/timekeeper/internal/timeutil"
)

type fakeSync struct{ reloads int }

func (f *fakeSync) Status() syncengine.Status { return syncengine.Status{SessionID: "s1", Loaded: true} }
func (f *fakeSync) Reload()                   { f.reloads++ }

type testServer struct {
	echo *echo.Echo
	svc  *service.AttendanceService
	sync *fakeSync
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLDB(ctx, database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	kv := database.NewKVStore(db)
	require.NoError(t, kv.EnsureSchema(ctx))
	repo := repository.NewStateRepository(kv, []domain.Employee{
		{Name: "A", Job: "Foreman", Department: "Construction"},
		{Name: "B", Department: "IT"},
	})

	svc := service.NewAttendanceService(repo, time.UTC)
	require.NoError(t, svc.Load(ctx))
	gen := report.NewGenerator(nil, report.FileTemplate{Path: "/nonexistent/template.xlsx"}, time.UTC)
	fs := &fakeSync{}

	e := echo.New()
	e.Validator = NewRequestValidator()
	h := &Handlers{
		Employee:   NewEmployeeHandler(svc),
		Attendance: NewAttendanceHandler(svc),
		Report:     NewReportHandler(service.NewReportService(svc, gen)),
		Backup:     NewBackupHandler(svc),
		Sync:       NewSyncHandler(fs),
	}
	h.Register(e)
	return &testServer{echo: e, svc: svc, sync: fs}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) serviceutils.Response {
	t.Helper()
	var resp serviceutils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func TestEmployeeRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/employees", EmployeeRequest{Name: "C", Department: "HSE"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/employees", EmployeeRequest{Name: "C"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode(t, rec).Success)

	rec = s.do(t, http.MethodPost, "/employees", EmployeeRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/employees/C", EmployeeRequest{Name: "D", Job: "Officer", Department: "HSE"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/employees/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec).Data, 3)

	rec = s.do(t, http.MethodGet, "/departments", nil)
	assert.Equal(t, []interface{}{"Construction", "HSE", "IT"}, decode(t, rec).Data)
}

func TestRecordRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/attendance/2024-03-01/records/A", RecordActionRequest{Action: "check-in", Time: "08:30"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/records/B", RecordActionRequest{Action: "check-out", Time: "17:00"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/records/A", RecordActionRequest{Action: "edit-time", Field: "checkOut", Time: "18:15"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated RecordResponse
	decodeData(t, rec, &updated)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, "8:30 AM", updated.CheckInTime)
	assert.Equal(t, "6:15 PM", updated.CheckOutTime)
	assert.Equal(t, "9.75", updated.WorkedHours)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/records/A", RecordActionRequest{Action: "dance"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/records/Z", RecordActionRequest{Action: "status", Status: "غياب"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/attendance/2024-03-01/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec).Data.(map[string]interface{})
	assert.Equal(t, 2.0, stats["total"])
	assert.Equal(t, 1.0, stats["completed"])
	assert.Equal(t, 0.0, stats["working"])

	rec = s.do(t, http.MethodGet, "/attendance/2024-03-01?filter=Completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []RecordResponse
	decodeData(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "6:15 PM", listed[0].CheckOutTime)

	rec = s.do(t, http.MethodGet, "/attendance/2024-03-01?q=B", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	decodeData(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, timeutil.EmptyClock, listed[0].CheckInTime)
	assert.Equal(t, "0.00", listed[0].WorkedHours)

	rec = s.do(t, http.MethodGet, "/attendance/01-03-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchAndReset(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/attendance/2024-03-01/batch", BatchRequest{Names: []string{"A", "B"}, Action: "status", Status: "إجازة"})
	require.Equal(t, http.StatusOK, rec.Code)
	var result service.BatchResult
	decodeData(t, rec, &result)
	assert.Len(t, result.Updated, 2)
	assert.Empty(t, result.Skipped)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/batch", BatchRequest{Names: []string{"A"}, Action: "check-in", Time: "08:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/batch", BatchRequest{Names: []string{"A", "B"}, Action: "check-out", Time: "17:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	result = service.BatchResult{}
	decodeData(t, rec, &result)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, "A", result.Updated[0].Name)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "B", result.Skipped[0].Name)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/batch", BatchRequest{Names: []string{}, Action: "status", Status: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/reset", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/reset?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records, err := s.svc.AttendanceFor("2024-03-01")
	require.NoError(t, err)
	for _, r := range records {
		assert.False(t, r.HasStatus())
	}
}

func TestSummaryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/attendance/2024-03-01/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2024-03-01")

	// no sender configured
	rec = s.do(t, http.MethodPost, "/attendance/2024-03-01/summary/share", nil)
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
}

func TestReportRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/reports/daily/2024-03-01", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "template")

	rec = s.do(t, http.MethodPost, "/reports/monthly", MonthlyReportRequest{Names: []string{"A"}, Date: "2024-03-05"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Monthly_TimeSheets_March_2024.xlsx")

	rec = s.do(t, http.MethodPost, "/reports/monthly", MonthlyReportRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/reports/monthly", MonthlyReportRequest{Names: []string{"Z"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/reports/history", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackupRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/backup", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "TimeKeeper_Backup_")
	backup := rec.Body.Bytes()

	upload := func(data []byte, confirm string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		require.NoError(t, w.WriteField("confirm", confirm))
		part, err := w.CreateFormFile("file", "backup.json")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/backup", &body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()
		s.echo.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, upload(backup, "false").Code)
	assert.Equal(t, http.StatusBadRequest, upload([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0}, "true").Code)
	assert.Equal(t, http.StatusBadRequest, upload([]byte(`{"employees": []}`), "true").Code)

	rec = upload(backup, "true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, decode(t, rec).Data.(map[string]interface{})["employees"])
}

func TestSyncRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/sync/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", decode(t, rec).Data.(map[string]interface{})["sessionId"])

	rec = s.do(t, http.MethodPost, "/sync/reload", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, s.sync.reloads)
}
