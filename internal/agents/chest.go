package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const ChestSpecialistName = "Chest X-ray Diagnostic Agent"

type ChestSpecialist struct {
	base
}

func NewChestSpecialist(d Deps) *ChestSpecialist {
	return &ChestSpecialist{base: newBase(d, ChestSpecialistName, StageChest)}
}

func (s *ChestSpecialist) Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) string {
	return attemptWithImage(ctx, s.base, imagePath,
		func(ctx context.Context, llm openai.Client) (string, error) {
			return askText(ctx, llm, openai.ChatRequest{
				System: "You are an experienced radiologist providing professional chest X-ray interpretations.",
				User: fmt.Sprintf(`You are an expert radiologist specializing in chest X-ray interpretation.

Patient Condition: %s
Image Type: %s
Imaging Modality: %s

Based on the patient's symptoms, provide a detailed chest X-ray assessment including:
1. Lung field findings (infiltrates, consolidation, effusion, etc.)
2. Cardiac silhouette evaluation
3. Mediastinal structures assessment
4. Any abnormalities or areas of concern
5. Clinical correlation with symptoms

Provide a concise, professional radiological finding (2-3 sentences).`, condition, orDefault(det.BodyPart, "chest/lungs"), orDefault(det.Modality, "X-ray")),
				Temperature: 0.7,
				MaxTokens:   200,
			})
		},
		func() string { return ChestFindings(condition) },
	)
}

func ChestFindings(condition string) string {
	c := strings.ToLower(condition)
	switch {
	case containsAny(c, "cough", "fever", "pneumonia", "infection"):
		return "Bilateral interstitial infiltrates visible in lower lung fields, consistent with community-acquired pneumonia. Increased opacity in right lower lobe with possible consolidation. No pleural effusion or pneumothorax detected. Cardiac silhouette within normal limits."
	case containsAny(c, "chest pain", "pain"):
		return "Chest X-ray shows clear lung fields bilaterally with no acute infiltrates or consolidation. Cardiac silhouette appears mildly enlarged, suggesting possible cardiomegaly. No evidence of pneumothorax or pleural effusion. Recommend cardiac evaluation for chest pain etiology."
	case containsAny(c, "breath", "breathing", "dyspnea", "shortness"):
		return "Bilateral lung hyperinflation noted with flattened diaphragms, suggestive of chronic obstructive pulmonary disease (COPD) or asthma exacerbation. No acute infiltrates. Increased anteroposterior diameter consistent with air trapping. Recommend pulmonary function testing."
	case containsAny(c, "fluid", "edema", "swelling"):
		return "Bilateral perihilar haziness and Kerley B lines present, consistent with pulmonary edema. Enlarged cardiac silhouette indicating cardiomegaly. Small bilateral pleural effusions noted. Findings suggestive of congestive heart failure. Urgent cardiology consultation recommended."
	case containsAny(c, "tuberculosis", "tb", "chronic", "night sweats"):
		return "Upper lobe predominant fibronodular opacities with cavitary lesions identified in the right apex. Findings are suspicious for pulmonary tuberculosis. Calcified granulomas present suggesting old healed infection with possible reactivation. Sputum culture and AFB testing recommended."
	default:
		return "Chest X-ray demonstrates increased interstitial markings in bilateral lower lung fields with possible early infiltrate. Cardiomediastinal silhouette appears within normal limits. No pleural effusion or pneumothorax. Clinical correlation recommended."
	}
}
