package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/domain/patient"
)

func TestPromptEmail(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, "me@example.com", promptEmail(strings.NewReader("  me@example.com \n"), &out))
	assert.Contains(t, out.String(), "me@example.com")

	out.Reset()
	assert.Empty(t, promptEmail(strings.NewReader("not-an-email\n"), &out))
	assert.Contains(t, out.String(), "Skipping email registration")

	assert.Empty(t, promptEmail(strings.NewReader(""), &out))
}

func TestConfirmDelete(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirmDelete(strings.NewReader("DELETE\n"), &out))
	assert.False(t, confirmDelete(strings.NewReader("delete\n"), &out))
	assert.False(t, confirmDelete(strings.NewReader(""), &out))
}

func TestShortCondition(t *testing.T) {
	assert.Equal(t, "Tooth pain", shortCondition("Tooth pain"))
	exact := strings.Repeat("a", 25)
	assert.Equal(t, exact, shortCondition(exact))
	assert.Equal(t, strings.Repeat("a", 22)+"...", shortCondition(strings.Repeat("a", 26)))
}

func TestDefaultReportName(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "diagnostic_report_20240102_030405.json", defaultReportName(at))
}

func TestSaveReportAndSummary(t *testing.T) {
	r := domain.Report{
		Finding:     "Dental caries visible on molar",
		Diagnosis:   "Dental caries",
		Treatment:   "Dental filling",
		FollowUp:    "Return in 7 days",
		Precautions: []string{"Avoid sugary foods"},
	}
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, saveReport(path, r))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"finding\"")

	var back domain.Report
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, r.Diagnosis, back.Diagnosis)

	var out bytes.Buffer
	require.NoError(t, printSummary(&out, r))
	assert.Contains(t, out.String(), `"follow_up": "Return in 7 days"`)

	out.Reset()
	printReport(&out, r)
	assert.Contains(t, out.String(), "1. Avoid sugary foods")
	assert.Contains(t, out.String(), "Image Type: N/A")
}

func TestPrintPatientTableAndStats(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := patient.New(at, "a@example.com", "Persistent tooth pain in lower left molar", "Caries", "Filling", "7 days", 7)

	var out bytes.Buffer
	printPatientTable(&out, []domain.Patient{p})
	assert.Contains(t, out.String(), "PT20240101120000")
	assert.Contains(t, out.String(), "Persistent tooth pain ...")

	out.Reset()
	printStats(&out, []domain.Patient{p}, at.AddDate(0, 0, 10))
	assert.Contains(t, out.String(), "Overdue Follow-ups:    1")

	out.Reset()
	printPatientTable(&out, nil)
	assert.Contains(t, out.String(), "No patients registered yet.")
}
