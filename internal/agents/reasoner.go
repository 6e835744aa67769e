package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const ReasonerName = "Clinical Reasoning Agent"

const defaultReasoning = "Based on visual findings and symptoms"

type Reasoner struct {
	base
}

func NewReasoner(d Deps) *Reasoner {
	return &Reasoner{base: newBase(d, ReasonerName, StageReasoning)}
}

// FindingText accepts either a plain string or a structured value with a
// "finding" key.
func FindingText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if f, ok := t["finding"]; ok {
			return fmt.Sprint(f)
		}
		return fmt.Sprint(t)
	case map[string]string:
		if f, ok := t["finding"]; ok {
			return f
		}
		return fmt.Sprint(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Reason turns findings and the patient condition into a diagnosis.
func (r *Reasoner) Reason(ctx context.Context, findings any, condition string) domain.Diagnosis {
	finding := FindingText(findings)
	diag := attempt(ctx, r.base,
		func(ctx context.Context, llm openai.Client) (domain.Diagnosis, error) {
			return r.ask(ctx, llm, finding, condition)
		},
		func() domain.Diagnosis { return DiagnoseByKeywords(finding, condition) },
	)
	diag.Confidence = domain.ParseConfidence(string(diag.Confidence), domain.ConfidenceMedium)
	diag.Reasoning = orDefault(diag.Reasoning, defaultReasoning)
	r.log.Info("diagnosis produced", "diagnosis", diag.Label, "confidence", string(diag.Confidence))
	return diag
}

type diagnosisReply struct {
	Diagnosis  string `json:"diagnosis"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

func (r *Reasoner) ask(ctx context.Context, llm openai.Client, finding, condition string) (domain.Diagnosis, error) {
	var reply diagnosisReply
	err := askJSON(ctx, llm, openai.ChatRequest{
		System: "You are a clinical reasoning assistant. Always respond with valid JSON only.",
		User: fmt.Sprintf(`You are a clinical reasoning assistant. Based on the following information, provide a diagnosis.

Visual Finding: %s
Patient Symptoms: %s

Provide your response in JSON format with these exact keys:
- diagnosis: The most likely diagnosis (brief, 2-5 words)
- confidence: Your confidence level (high/medium/low)
- reasoning: Brief explanation (one sentence)

Respond ONLY with valid JSON, no other text.`, finding, condition),
		Temperature: 0.3,
		MaxTokens:   200,
	}, &reply)
	if err != nil {
		return domain.Diagnosis{}, err
	}
	if strings.TrimSpace(reply.Diagnosis) == "" {
		return domain.Diagnosis{}, fmt.Errorf("reasoning reply missing diagnosis")
	}
	return domain.Diagnosis{
		Label:      strings.TrimSpace(reply.Diagnosis),
		Confidence: domain.Confidence(reply.Confidence),
		Reasoning:  strings.TrimSpace(reply.Reasoning),
	}, nil
}

// DiagnoseByKeywords keys on the findings text only.
func DiagnoseByKeywords(finding, _ string) domain.Diagnosis {
	f := strings.ToLower(finding)
	switch {
	case containsAny(f, "cavity", "decay"):
		return domain.Diagnosis{Label: "Dental caries (early stage)", Confidence: domain.ConfidenceHigh, Reasoning: "Visual cavity detection with pain symptoms indicates active caries"}
	case strings.Contains(f, "fracture"):
		return domain.Diagnosis{Label: "Possible bone fracture", Confidence: domain.ConfidenceMedium, Reasoning: "Visual fracture pattern requires radiological confirmation"}
	case strings.Contains(f, "skin"):
		return domain.Diagnosis{Label: "Dermatological condition", Confidence: domain.ConfidenceMedium, Reasoning: "Skin irregularity pattern suggests inflammatory response"}
	default:
		return domain.Diagnosis{Label: "Condition requiring specialist evaluation", Confidence: domain.ConfidenceLow, Reasoning: "Visual findings are non-specific, need additional clinical context"}
	}
}
