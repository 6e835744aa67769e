package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/domain/patient"
	"github.com/yungbote/maiopinion/internal/pipeline"
	"github.com/yungbote/maiopinion/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeRunner struct {
	got     pipeline.Request
	existed bool
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request, n pipeline.Notifier) (domain.Report, error) {
	f.got = req
	_, err := os.Stat(req.ImagePath)
	f.existed = err == nil
	n.Notify(pipeline.Event{Type: pipeline.EventStepStart, Step: 1, Message: "Detecting image type and body part..."})
	rep := domain.Report{ImageAnalyzed: req.ImageName, PatientCondition: req.Condition}
	n.Notify(pipeline.Event{Type: pipeline.EventComplete, Report: &rep})
	return rep, nil
}

func multipartBody(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func parseEvents(t *testing.T, body string) []pipeline.Event {
	t.Helper()
	var out []pipeline.Event
	for _, frame := range strings.Split(strings.TrimSpace(body), "\n\n") {
		require.True(t, strings.HasPrefix(frame, "data: "), "frame %q", frame)
		var e pipeline.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &e))
		out = append(out, e)
	}
	return out
}

func diagnose(t *testing.T, h *DiagnoseHandler, fields map[string]string, filename string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/api/diagnose", h.Diagnose)
	body, ct := multipartBody(t, fields, filename)
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", NewHealthHandler("github").HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"MaiOpinion API is running","llm_provider":"github"}`, rec.Body.String())
}

func TestDiagnoseRejectsBadInput(t *testing.T) {
	h := NewDiagnoseHandler(nil, &fakeRunner{}, t.TempDir(), 0)
	cases := []struct {
		name     string
		fields   map[string]string
		filename string
		want     string
	}{
		{"no image", map[string]string{"condition": "pain"}, "", "No image file provided"},
		{"no condition", nil, "tooth.png", "No condition description provided"},
		{"bad type", map[string]string{"condition": "pain"}, "notes.txt", "Invalid file type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := diagnose(t, h, tc.fields, tc.filename)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
			events := parseEvents(t, rec.Body.String())
			require.Len(t, events, 1)
			assert.Equal(t, pipeline.EventError, events[0].Type)
			assert.Equal(t, tc.want, events[0].Message)
		})
	}
}

func TestDiagnoseRejectsOversizedUpload(t *testing.T) {
	runner := &fakeRunner{}
	h := NewDiagnoseHandler(nil, runner, t.TempDir(), 100)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("condition", "Tooth pain for 3 days"))
	fw, err := w.CreateFormFile("image", "dental_xray.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0x89}, 4096))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := gin.New()
	r.POST("/api/diagnose", h.Diagnose)
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"file_too_large"`)
	assert.Contains(t, rec.Body.String(), `"message":"File too large"`)
	assert.Empty(t, runner.got.ImagePath)
}

func TestDiagnoseStreamsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	h := NewDiagnoseHandler(nil, runner, dir, 0)

	rec := diagnose(t, h, map[string]string{"condition": "Tooth pain", "email": " p@example.com "}, "my dental x-ray.PNG")
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseEvents(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, pipeline.EventComplete, events[1].Type)
	require.NotNil(t, events[1].Report)
	assert.Equal(t, "my_dental_x-ray.PNG", events[1].Report.ImageAnalyzed)

	assert.True(t, runner.existed)
	assert.Equal(t, "p@example.com", runner.got.Email)
	assert.Equal(t, "Tooth pain", runner.got.Condition)
	assert.Equal(t, filepath.Base(runner.got.ImagePath), runner.got.ImageName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "passwd", SecureFilename("../../etc/passwd"))
	assert.Equal(t, "my_scan.png", SecureFilename("my scan.png"))
	assert.Equal(t, "scan.png", SecureFilename(`C:\Users\x\scan.png`))
	assert.Equal(t, "upload", SecureFilename("..."))
	assert.True(t, AllowedFile("a.JPEG"))
	assert.False(t, AllowedFile("a"))
	assert.False(t, AllowedFile("a.tiff"))
}

func seedStore(t *testing.T) (*store.CSVStore, domain.Patient, domain.Patient) {
	t.Helper()
	st := store.NewCSVStore(filepath.Join(t.TempDir(), "p.csv"), nil)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	a := patient.New(base, "a@example.com", "pain", "Dental caries", "Filling", "7 days", 7)
	b := patient.New(base.Add(time.Second), "b@example.com", "cough", "Bronchitis", "Rest", "30 days", 30)
	require.NoError(t, st.Append(context.Background(), a))
	require.NoError(t, st.Append(context.Background(), b))
	return st, a, b
}

func TestPatientRoutes(t *testing.T) {
	st, a, _ := seedStore(t)
	h := NewPatientHandler(st)
	h.now = func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.GET("/api/patients", h.List)
	r.GET("/api/patients/stats", h.Stats)
	r.GET("/api/patients/:id", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Patients []domain.Patient `json:"patients"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/"+a.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Patient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, a, got)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/PT0", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"patient_not_found"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":2,"sent":0,"pending":2,"overdue":1,"upcoming":1}`, rec.Body.String())
}

type scanFunc func(context.Context) (int, error)

func (f scanFunc) Scan(ctx context.Context) (int, error) { return f(ctx) }

func TestReminderSend(t *testing.T) {
	r := gin.New()
	r.POST("/ok", NewReminderHandler(scanFunc(func(context.Context) (int, error) { return 2, nil })).Send)
	r.POST("/fail", NewReminderHandler(scanFunc(func(context.Context) (int, error) { return 0, errors.New("boom") })).Send)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ok", nil))
	assert.JSONEq(t, `{"sent":2}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
