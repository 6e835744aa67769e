package patient

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	IDLayout        = "20060102150405"

	SentYes = "Yes"
	SentNo  = "No"
)

// Patient is one persisted follow-up registration. Fields are kept in their
// stored string form so a rewrite never reformats a row.
type Patient struct {
	ID               string `gorm:"primaryKey;column:patient_id" json:"patient_id"`
	Timestamp        string `gorm:"column:timestamp;not null" json:"timestamp"`
	Email            string `gorm:"column:email;not null" json:"email"`
	Condition        string `gorm:"column:condition" json:"condition"`
	Diagnosis        string `gorm:"column:diagnosis" json:"diagnosis"`
	Treatment        string `gorm:"column:treatment" json:"treatment"`
	FollowUpTimeline string `gorm:"column:follow_up_timeline" json:"follow_up_timeline"`
	FollowUpDate     string `gorm:"column:follow_up_date;index" json:"follow_up_date"`
	EmailSent        string `gorm:"column:email_sent;not null;default:No" json:"email_sent"`
	CreatedAt        string `gorm:"column:created_at;autoCreateTime:false" json:"created_at"`
}

func (Patient) TableName() string { return "patients" }

// New registers a patient at the given instant. The follow-up date is fixed
// here and never recomputed.
func New(at time.Time, email, condition, diagnosis, treatment, timeline string, days int) Patient {
	ts := at.Format(TimestampLayout)
	return Patient{
		ID:               "PT" + at.Format(IDLayout),
		Timestamp:        ts,
		Email:            email,
		Condition:        condition,
		Diagnosis:        diagnosis,
		Treatment:        treatment,
		FollowUpTimeline: timeline,
		FollowUpDate:     at.AddDate(0, 0, days).Format(DateLayout),
		EmailSent:        SentNo,
		CreatedAt:        ts,
	}
}

func (p Patient) Sent() bool {
	return strings.TrimSpace(p.EmailSent) == SentYes
}

func (p Patient) DueDate() (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(p.FollowUpDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("patient %s: follow_up_date %q: %w", p.ID, p.FollowUpDate, err)
	}
	return d, nil
}

// Due reports whether an unsent reminder's date is on or before today.
func (p Patient) Due(today time.Time) (bool, error) {
	if p.Sent() {
		return false, nil
	}
	d, err := p.DueDate()
	if err != nil {
		return false, err
	}
	return !d.After(dateOf(today)), nil
}

// Overdue reports whether an unsent reminder's date is strictly before today.
func (p Patient) Overdue(today time.Time) (bool, error) {
	if p.Sent() {
		return false, nil
	}
	d, err := p.DueDate()
	if err != nil {
		return false, err
	}
	return d.Before(dateOf(today)), nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
