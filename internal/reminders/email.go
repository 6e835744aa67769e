package reminders

import (
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
)

const (
	DefaultFromName = "MaiOpinion Healthcare Assistant"
	rule            = "================================================================================"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

func Subject(patientID string) string {
	return "Your Follow-Up Reminder - Patient ID: " + patientID
}

// RenderEmail builds the reminder text for one patient row.
func RenderEmail(p domain.Patient) Email {
	var b strings.Builder
	b.WriteString("Dear Patient,\n\n")
	b.WriteString("This is a friendly reminder about your healthcare follow-up based on your\n")
	b.WriteString("recent consultation with MaiOpinion.\n\n")
	fmt.Fprintf(&b, "Original Condition: %s\n", p.Condition)
	fmt.Fprintf(&b, "Diagnosis: %s\n", p.Diagnosis)
	fmt.Fprintf(&b, "Recommended Timeline: %s\n\n", p.FollowUpTimeline)
	fmt.Fprintf(&b, "Treatment Plan:\n%s\n\n", p.Treatment)
	b.WriteString("Next Steps:\n")
	b.WriteString("- Please schedule an appointment with your healthcare provider\n")
	b.WriteString("- Continue following the treatment recommendations\n")
	b.WriteString("- Monitor your symptoms and report any changes\n\n")
	b.WriteString("If you have any concerns or your symptoms have worsened, please seek\n")
	b.WriteString("medical attention immediately.\n\n")
	b.WriteString("Stay healthy!\n")
	b.WriteString("MaiOpinion Healthcare Team\n")
	return Email{To: p.Email, Subject: Subject(p.ID), Body: b.String()}
}
