package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const DentalSpecialistName = "Dental Diagnostic Agent"

type DentalSpecialist struct {
	base
}

func NewDentalSpecialist(d Deps) *DentalSpecialist {
	return &DentalSpecialist{base: newBase(d, DentalSpecialistName, StageDental)}
}

func (s *DentalSpecialist) Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) string {
	return attemptWithImage(ctx, s.base, imagePath,
		func(ctx context.Context, llm openai.Client) (string, error) {
			return askText(ctx, llm, openai.ChatRequest{
				System: "You are an experienced dentist providing professional dental assessments.",
				User: fmt.Sprintf(`You are an expert dentist analyzing a dental image.

Patient Condition: %s
Image Type: %s
Imaging Modality: %s

Based on the patient's symptoms, provide a detailed dental assessment including:
1. Most likely dental findings (cavities, gum disease, abscess, etc.)
2. Tooth-specific observations (which teeth are affected)
3. Severity assessment
4. Any urgent concerns

Provide a concise, professional dental finding (2-3 sentences).`, condition, orDefault(det.BodyPart, "dental"), orDefault(det.Modality, "X-ray")),
				Temperature: 0.7,
				MaxTokens:   200,
			})
		},
		func() string { return DentalFindings(condition) },
	)
}

// DentalFindings is the keyword table used without a provider.
func DentalFindings(condition string) string {
	c := strings.ToLower(condition)
	switch {
	case containsAny(c, "pain", "ache", "hurt", "sensitive"):
		return "Possible dental caries (cavity) detected in upper molar region with visible decay. The affected tooth shows signs of enamel erosion and probable pulp involvement. Recommend immediate dental intervention."
	case containsAny(c, "gum", "bleed", "swollen", "red"):
		return "Evidence of periodontal disease with gingival inflammation visible in multiple quadrants. Moderate plaque accumulation and possible bone loss detected. Recommend professional cleaning and periodontal evaluation."
	case containsAny(c, "wisdom", "molar", "back"):
		return "Impacted third molar (wisdom tooth) identified with signs of pericoronitis. The tooth is partially erupted causing tissue inflammation and potential infection risk. Extraction may be necessary."
	case containsAny(c, "abscess", "infection", "pus", "swelling"):
		return "Periapical abscess detected at the root apex with surrounding bone resorption. Active infection present requiring urgent endodontic treatment or extraction. Antibiotic therapy recommended."
	default:
		return "Possible cavity detected in upper molar region with visible decay and enamel erosion. The affected tooth shows signs of demineralization. Recommend dental filling and fluoride treatment."
	}
}
