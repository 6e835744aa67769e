package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesIDAndFollowUpDate(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 30, 15, 0, time.Local)
	p := New(at, "a@b.c", "Tooth pain", "Dental caries (early stage)", "Dental filling", "7 days", 7)

	assert.Equal(t, "PT20240101093015", p.ID)
	assert.Equal(t, "2024-01-08", p.FollowUpDate)
	assert.Equal(t, "2024-01-01 09:30:15", p.Timestamp)
	assert.Equal(t, p.Timestamp, p.CreatedAt)
	assert.Equal(t, SentNo, p.EmailSent)
	assert.False(t, p.Sent())
}

func TestNewCrossesMonthBoundary(t *testing.T) {
	at := time.Date(2024, 2, 25, 0, 0, 0, 0, time.Local)
	p := New(at, "a@b.c", "c", "d", "t", "10-14 days", 10)
	assert.Equal(t, "2024-03-06", p.FollowUpDate)
}

func TestDue(t *testing.T) {
	p := Patient{ID: "PT1", FollowUpDate: "2024-01-08", EmailSent: SentNo}

	due, err := p.Due(time.Date(2024, 1, 7, 23, 59, 0, 0, time.Local))
	require.NoError(t, err)
	assert.False(t, due)

	due, err = p.Due(time.Date(2024, 1, 8, 0, 0, 1, 0, time.Local))
	require.NoError(t, err)
	assert.True(t, due)

	p.EmailSent = SentYes
	due, err = p.Due(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.False(t, due)
}

func TestDueRejectsBadDate(t *testing.T) {
	p := Patient{ID: "PT1", FollowUpDate: "next week", EmailSent: SentNo}
	_, err := p.Due(time.Now())
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	today := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	rows := []Patient{
		{ID: "1", FollowUpDate: "2024-01-01", EmailSent: SentYes},
		{ID: "2", FollowUpDate: "2024-01-09", EmailSent: SentNo},
		{ID: "3", FollowUpDate: "2024-01-10", EmailSent: SentNo},
		{ID: "4", FollowUpDate: "2024-01-20", EmailSent: SentNo},
		{ID: "5", FollowUpDate: "garbage", EmailSent: SentNo},
	}
	s := Summarize(rows, today)
	assert.Equal(t, Stats{Total: 5, Sent: 1, Pending: 4, Overdue: 1, Upcoming: 2}, s)
}
