package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

func TestTreatmentByKeywords(t *testing.T) {
	dental := TreatmentByKeywords("Dental caries (early stage)")
	assert.Contains(t, dental.Treatment, "filling")
	assert.Len(t, dental.Precautions, 3)

	assert.Contains(t, TreatmentByKeywords("Possible bone fracture").Treatment, "Immobilization")
	assert.Contains(t, TreatmentByKeywords("Dermatological condition").Treatment, "Topical treatment")

	generic := TreatmentByKeywords("Condition requiring specialist evaluation")
	assert.Contains(t, generic.Treatment, "Specialist consultation")
	assert.Equal(t, []string{
		"Keep detailed notes of symptom progression",
		"Avoid self-medication without professional advice",
		"Seek emergency care if severe symptoms develop",
	}, generic.Precautions)
}

func TestTreatmentPlanProvider(t *testing.T) {
	var got openai.ChatRequest
	p := NewTreatmentPlanner(Deps{LLM: capture(`{"treatment":"Root canal therapy."}`, &got)})
	plan := p.Plan(context.Background(), domain.Diagnosis{Label: "Pulpitis", Confidence: "high"})

	assert.Equal(t, "Root canal therapy.", plan.Treatment)
	assert.NotNil(t, plan.Precautions)
	assert.Empty(t, plan.Precautions)
	assert.Contains(t, got.User, "Diagnosis: Pulpitis")
	assert.Contains(t, got.User, "Confidence Level: high")
	assert.Equal(t, 250, got.MaxTokens)
}

func TestTreatmentPlanFallback(t *testing.T) {
	p := NewTreatmentPlanner(Deps{LLM: failing()})
	plan := p.Plan(context.Background(), domain.Diagnosis{Label: "Dental caries (early stage)"})
	assert.Contains(t, plan.Treatment, "Dental filling")
}
