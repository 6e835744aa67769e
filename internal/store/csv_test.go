package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/domain/patient"
)

func samplePatient(at time.Time, email string) domain.Patient {
	return patient.New(at, email, "tooth pain, sensitivity", "Dental caries", "Dental filling, fluoride", "2 weeks", 2)
}

func newTestCSV(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSVStore(filepath.Join(t.TempDir(), "patients_db.csv"), nil)
}

func TestCSVStoreMissingFileReadsEmpty(t *testing.T) {
	s := newTestCSV(t)
	rows, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.False(t, s.Exists())
}

func TestCSVStoreAppendCreatesHeader(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, samplePatient(at, "a@example.com")))

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "PT20240301093000", records[1][0])
	assert.Equal(t, "2024-03-03", records[1][7])
	assert.Equal(t, domain.SentNo, records[1][8])
}

func TestCSVStoreAppendToEmptyFileWritesHeader(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o644))

	p := samplePatient(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "a@example.com")
	require.NoError(t, s.Append(ctx, p))

	rows, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p, rows[0])

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), strings.Join(Header, ",")+"\n"))
}

func TestCSVStoreRoundTripKeepsFieldsVerbatim(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	p := samplePatient(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "a@example.com")
	p.Treatment = "Rest, \"fluids\"\nand ice"
	require.NoError(t, s.Append(ctx, p))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCSVStoreGetMissing(t *testing.T) {
	s := newTestCSV(t)
	_, err := s.Get(context.Background(), "PT0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCSVStoreMarkSent(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	a := samplePatient(base, "a@example.com")
	b := samplePatient(base.Add(time.Second), "b@example.com")
	require.NoError(t, s.Append(ctx, a))
	require.NoError(t, s.Append(ctx, b))

	n, err := s.MarkSent(ctx, []string{a.ID, "PT-missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	before, err := os.Stat(s.Path())
	require.NoError(t, err)

	n, err = s.MarkSent(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	after, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	rows, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Sent())
	assert.False(t, rows[1].Sent())
	assert.Equal(t, b, rows[1])
}

func TestCSVStoreRewriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	p := samplePatient(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "a@example.com")
	require.NoError(t, s.Append(ctx, p))
	_, err := s.MarkSent(ctx, []string{p.ID})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "patients_db.csv", entries[0].Name())
}

func TestCSVStoreReadsReorderedColumns(t *testing.T) {
	s := newTestCSV(t)
	content := "email,patient_id,follow_up_date,email_sent\nx@example.com,PT1,2024-01-02,No\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	rows, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PT1", rows[0].ID)
	assert.Equal(t, "x@example.com", rows[0].Email)
	assert.Equal(t, "2024-01-02", rows[0].FollowUpDate)
	assert.Empty(t, rows[0].Condition)
}

func TestCSVStoreClearAndExport(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	assert.ErrorIs(t, s.Clear(ctx), ErrNoDatabase)
	assert.ErrorIs(t, s.Export(filepath.Join(t.TempDir(), "out.csv")), ErrNoDatabase)

	require.NoError(t, s.Append(ctx, samplePatient(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), "a@example.com")))
	dst := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, s.Export(dst))

	src, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, src, copied)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Exists())
}

func TestCSVStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestCSV(t)
	base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := samplePatient(base.Add(time.Duration(i)*time.Second), fmt.Sprintf("p%d@example.com", i))
			assert.NoError(t, s.Append(ctx, p))
		}(i)
	}
	wg.Wait()

	rows, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 20)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "patient_id,timestamp"))
}
