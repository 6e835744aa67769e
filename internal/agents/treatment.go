package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const TreatmentPlannerName = "Treatment Agent"

type TreatmentPlanner struct {
	base
}

func NewTreatmentPlanner(d Deps) *TreatmentPlanner {
	return &TreatmentPlanner{base: newBase(d, TreatmentPlannerName, StageTreatment)}
}

func (t *TreatmentPlanner) Plan(ctx context.Context, diag domain.Diagnosis) domain.TreatmentPlan {
	label := orDefault(diag.Label, "Unknown condition")
	confidence := domain.ParseConfidence(string(diag.Confidence), domain.ConfidenceMedium)
	plan := attempt(ctx, t.base,
		func(ctx context.Context, llm openai.Client) (domain.TreatmentPlan, error) {
			return t.ask(ctx, llm, label, confidence)
		},
		func() domain.TreatmentPlan { return TreatmentByKeywords(label) },
	)
	if plan.Precautions == nil {
		plan.Precautions = []string{}
	}
	t.log.Info("treatment planned", "precautions", len(plan.Precautions))
	return plan
}

type treatmentReply struct {
	Treatment   string   `json:"treatment"`
	Precautions []string `json:"precautions"`
}

func (t *TreatmentPlanner) ask(ctx context.Context, llm openai.Client, label string, confidence domain.Confidence) (domain.TreatmentPlan, error) {
	var reply treatmentReply
	err := askJSON(ctx, llm, openai.ChatRequest{
		System: "You are a medical treatment advisor. Always respond with valid JSON only.",
		User: fmt.Sprintf(`You are a treatment advisor. Based on the diagnosis, suggest evidence-based treatment options.

Diagnosis: %s
Confidence Level: %s

Provide your response in JSON format with these exact keys:
- treatment: Main treatment recommendation (2-3 sentences, practical and actionable)
- precautions: List of 2-3 precautions or lifestyle recommendations (array of strings)

Focus on safe, evidence-based recommendations. Respond ONLY with valid JSON, no other text.`, label, confidence),
		Temperature: 0.3,
		MaxTokens:   250,
	}, &reply)
	if err != nil {
		return domain.TreatmentPlan{}, err
	}
	if strings.TrimSpace(reply.Treatment) == "" {
		return domain.TreatmentPlan{}, fmt.Errorf("treatment reply missing treatment")
	}
	return domain.TreatmentPlan{Treatment: strings.TrimSpace(reply.Treatment), Precautions: reply.Precautions}, nil
}

func TreatmentByKeywords(diagnosis string) domain.TreatmentPlan {
	d := strings.ToLower(diagnosis)
	switch {
	case containsAny(d, "dental", "caries", "cavity"):
		return domain.TreatmentPlan{
			Treatment: "Dental filling recommended to restore tooth structure. Use fluoride toothpaste twice daily. Schedule dentist appointment within 3-5 days.",
			Precautions: []string{
				"Reduce sugar intake and sugary beverages",
				"Avoid extremely hot or cold foods",
				"Maintain good oral hygiene with regular brushing and flossing",
			},
		}
	case strings.Contains(d, "fracture"):
		return domain.TreatmentPlan{
			Treatment: "Immobilization and rest recommended. Consult orthopedic specialist for proper casting or splinting. Pain management with over-the-counter analgesics as needed.",
			Precautions: []string{
				"Avoid weight-bearing or stress on affected area",
				"Apply ice packs to reduce swelling",
				"Keep the area elevated when possible",
			},
		}
	case containsAny(d, "dermatological", "skin"):
		return domain.TreatmentPlan{
			Treatment: "Topical treatment and dermatologist consultation recommended. Keep area clean and moisturized. Avoid scratching or irritating the affected area.",
			Precautions: []string{
				"Avoid harsh soaps or chemicals on affected area",
				"Protect from direct sunlight",
				"Monitor for changes in size, color, or symptoms",
			},
		}
	default:
		return domain.TreatmentPlan{
			Treatment: "Specialist consultation recommended for proper diagnosis and treatment plan. Monitor symptoms and seek immediate care if condition worsens.",
			Precautions: []string{
				"Keep detailed notes of symptom progression",
				"Avoid self-medication without professional advice",
				"Seek emergency care if severe symptoms develop",
			},
		}
	}
}
