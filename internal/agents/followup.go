package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/domain/patient"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const FollowUpPlannerName = "Follow-Up Agent"

const (
	defaultTimeline     = "7 days"
	defaultInstructions = "Follow treatment plan as prescribed"
)

// PatientWriter persists a new follow-up registration.
type PatientWriter interface {
	Append(ctx context.Context, p domain.Patient) error
}

type FollowUpPlanner struct {
	base
	store PatientWriter
	now   func() time.Time
}

// NewFollowUpPlanner returns a planner that registers patients in store.
// A nil store disables registration.
func NewFollowUpPlanner(d Deps, store PatientWriter) *FollowUpPlanner {
	return &FollowUpPlanner{
		base:  newBase(d, FollowUpPlannerName, StageFollowUp),
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the registration clock.
func (f *FollowUpPlanner) WithClock(now func() time.Time) *FollowUpPlanner {
	f.now = now
	return f
}

type FollowUpResult struct {
	Plan            domain.FollowUpPlan
	PatientID       string
	EmailRegistered bool
}

// Plan builds the follow-up plan and, when both email and condition are
// given, appends a patient row. Store errors are returned.
func (f *FollowUpPlanner) Plan(ctx context.Context, treatment domain.TreatmentPlan, diag domain.Diagnosis, email, condition string) (FollowUpResult, error) {
	treatmentText := orDefault(treatment.Treatment, "Standard care")
	label := orDefault(diag.Label, "General condition")

	plan := attempt(ctx, f.base,
		func(ctx context.Context, llm openai.Client) (domain.FollowUpPlan, error) {
			return f.ask(ctx, llm, label, treatmentText)
		},
		func() domain.FollowUpPlan { return FollowUpByKeywords(label) },
	)
	plan.Timeline = orDefault(plan.Timeline, defaultTimeline)
	plan.Instructions = orDefault(plan.Instructions, defaultInstructions)

	res := FollowUpResult{Plan: plan}
	email, condition = strings.TrimSpace(email), strings.TrimSpace(condition)
	if email == "" || condition == "" || f.store == nil {
		return res, nil
	}

	days := ParseTimelineDays(plan.Timeline)
	p := patient.New(f.now(), email, condition, label, treatmentText, plan.Timeline, days)
	if err := f.store.Append(ctx, p); err != nil {
		return res, fmt.Errorf("register patient: %w", err)
	}
	res.PatientID = p.ID
	res.EmailRegistered = true
	f.log.Info("patient registered for follow-up", "patient_id", p.ID, "email", email, "follow_up_date", p.FollowUpDate)
	return res, nil
}

type followUpReply struct {
	FollowUp            string `json:"follow_up"`
	Timeline            string `json:"timeline"`
	PatientInstructions string `json:"patient_instructions"`
}

func (f *FollowUpPlanner) ask(ctx context.Context, llm openai.Client, label, treatment string) (domain.FollowUpPlan, error) {
	var reply followUpReply
	err := askJSON(ctx, llm, openai.ChatRequest{
		System: "You are a care coordinator. Always respond with valid JSON only.",
		User: fmt.Sprintf(`You are a care coordinator. Create a follow-up plan for the patient.

Diagnosis: %s
Treatment Plan: %s

Provide your response in JSON format with these exact keys:
- follow_up: Main follow-up recommendation (1-2 sentences about when and why to follow up)
- timeline: Specific timeframe (e.g., "7 days", "2 weeks", "3-5 days")
- patient_instructions: Encouraging and supportive message for patient (1-2 sentences)

Be supportive and clear. Respond ONLY with valid JSON, no other text.`, label, treatment),
		Temperature: 0.4,
		MaxTokens:   200,
	}, &reply)
	if err != nil {
		return domain.FollowUpPlan{}, err
	}
	if strings.TrimSpace(reply.FollowUp) == "" {
		return domain.FollowUpPlan{}, fmt.Errorf("follow-up reply missing follow_up")
	}
	return domain.FollowUpPlan{
		Message:      strings.TrimSpace(reply.FollowUp),
		Timeline:     strings.TrimSpace(reply.Timeline),
		Instructions: strings.TrimSpace(reply.PatientInstructions),
	}, nil
}

func FollowUpByKeywords(diagnosis string) domain.FollowUpPlan {
	d := strings.ToLower(diagnosis)
	switch {
	case containsAny(d, "dental", "caries"):
		return domain.FollowUpPlan{
			Message:      "Schedule dental check-up within 7 days to assess pain reduction and treatment effectiveness.",
			Timeline:     "7 days",
			Instructions: "Rinse with warm salt water twice daily and monitor pain levels. Contact your dentist immediately if pain worsens or swelling occurs.",
		}
	case strings.Contains(d, "fracture"):
		return domain.FollowUpPlan{
			Message:      "Follow up with orthopedic specialist in 2 weeks for healing assessment and potential imaging.",
			Timeline:     "2 weeks",
			Instructions: "Rest and immobilize the affected area. Track healing progress and report any increased pain, numbness, or discoloration.",
		}
	case containsAny(d, "dermatological", "skin"):
		return domain.FollowUpPlan{
			Message:      "Dermatology appointment recommended within 10-14 days to evaluate treatment response.",
			Timeline:     "10-14 days",
			Instructions: "Monitor the affected area daily for changes. Take photos to track progression and avoid known irritants.",
		}
	default:
		return domain.FollowUpPlan{
			Message:      "Specialist consultation recommended within 5-7 days for comprehensive evaluation.",
			Timeline:     "5-7 days",
			Instructions: "Keep a symptom diary and note any changes. Seek immediate medical attention if symptoms worsen significantly.",
		}
	}
}
