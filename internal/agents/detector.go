package agents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const DetectorName = "Image Detection Agent"

const detectorSystemPrompt = "You are a medical imaging classification expert. Always respond with valid JSON only."

type Detector struct {
	base
}

func NewDetector(d Deps) *Detector {
	return &Detector{base: newBase(d, DetectorName, StageDetection)}
}

// Detect classifies the image/condition pair. It never fails.
func (d *Detector) Detect(ctx context.Context, imagePath, condition string) domain.Detection {
	det := attemptWithImage(ctx, d.base, imagePath,
		func(ctx context.Context, llm openai.Client) (domain.Detection, error) {
			return d.ask(ctx, llm, imagePath, condition)
		},
		func() domain.Detection { return DetectByKeywords(imagePath, condition) },
	)
	d.log.Info("image classified", "image_type", string(det.Category), "confidence", string(det.Confidence))
	return det
}

type detectionReply struct {
	ImageType       string `json:"image_type"`
	Confidence      string `json:"confidence"`
	BodyPart        string `json:"body_part"`
	ImagingModality string `json:"imaging_modality"`
	Reasoning       string `json:"reasoning"`
}

func (d *Detector) ask(ctx context.Context, llm openai.Client, imagePath, condition string) (domain.Detection, error) {
	var reply detectionReply
	err := askJSON(ctx, llm, openai.ChatRequest{
		System:      detectorSystemPrompt,
		User:        detectorPrompt(filepath.Base(imagePath), condition),
		Temperature: 0.3,
		MaxTokens:   300,
	}, &reply)
	if err != nil {
		return domain.Detection{}, err
	}
	category := strings.ToLower(strings.TrimSpace(reply.ImageType))
	if category == "" {
		return domain.Detection{}, fmt.Errorf("detection reply missing image_type")
	}
	return domain.Detection{
		Category:   domain.Category(category),
		Confidence: domain.ParseConfidence(reply.Confidence, domain.ConfidenceMedium),
		BodyPart:   orDefault(reply.BodyPart, "unspecified"),
		Modality:   orDefault(reply.ImagingModality, "unknown"),
		Reasoning:  strings.TrimSpace(reply.Reasoning),
	}, nil
}

func detectorPrompt(filename, condition string) string {
	return fmt.Sprintf(`You are a medical imaging specialist. Based on the information provided, identify the type of medical image.

Image filename: %s
Patient condition: %s

Classify this as one of the following image types:
- dental: Dental X-rays, intraoral photos, teeth images
- chest_xray: Chest X-rays, lung imaging
- brain_scan: Brain CT, MRI, head scans
- skin: Dermatology photos, skin lesions
- bone_xray: Bone fractures, skeletal X-rays (non-chest)
- eye: Retinal scans, eye examinations
- ultrasound: Ultrasound imaging
- other: Any other type

Respond ONLY with valid JSON in this exact format:
{
    "image_type": "one of the types above",
    "confidence": "high/medium/low",
    "body_part": "specific body part identified",
    "imaging_modality": "X-ray/CT/MRI/photograph/ultrasound/other",
    "reasoning": "brief explanation of classification"
}`, filename, orDefault(condition, "Not specified"))
}

type keywordRule struct {
	filename  []string
	condition []string
	detection domain.Detection
}

// Checked in order; the first match wins.
var detectionRules = []keywordRule{
	{
		filename:  []string{"tooth", "teeth", "dental", "molar", "cavity"},
		condition: []string{"tooth", "teeth", "dental", "cavity", "gum", "molar"},
		detection: domain.Detection{
			Category:   domain.CategoryDental,
			Confidence: domain.ConfidenceHigh,
			BodyPart:   "teeth/oral cavity",
			Modality:   "X-ray or photograph",
			Reasoning:  "Filename or condition indicates dental imaging",
		},
	},
	{
		filename:  []string{"chest", "lung", "thorax", "respiratory"},
		condition: []string{"chest", "lung", "breathing", "cough", "respiratory", "pneumonia"},
		detection: domain.Detection{
			Category:   domain.CategoryChestXray,
			Confidence: domain.ConfidenceHigh,
			BodyPart:   "chest/lungs",
			Modality:   "X-ray",
			Reasoning:  "Filename or condition indicates chest/lung imaging",
		},
	},
	{
		filename:  []string{"brain", "head", "skull", "cranial", "mri", "ct"},
		condition: []string{"brain", "head", "headache", "concussion", "stroke", "seizure"},
		detection: domain.Detection{
			Category:   domain.CategoryBrainScan,
			Confidence: domain.ConfidenceHigh,
			BodyPart:   "brain/head",
			Modality:   "CT or MRI",
			Reasoning:  "Filename or condition indicates brain imaging",
		},
	},
	{
		filename:  []string{"skin", "lesion", "mole", "rash", "derma"},
		condition: []string{"skin", "rash", "lesion", "mole", "itch"},
		detection: domain.Detection{
			Category:   domain.CategorySkin,
			Confidence: domain.ConfidenceHigh,
			BodyPart:   "skin",
			Modality:   "photograph",
			Reasoning:  "Filename or condition indicates dermatology imaging",
		},
	},
}

var unknownDetection = domain.Detection{
	Category:   domain.CategoryOther,
	Confidence: domain.ConfidenceLow,
	BodyPart:   "unspecified",
	Modality:   "unknown",
	Reasoning:  "Could not determine specific image type from available information",
}

// DetectByKeywords is the deterministic detector used without a provider.
func DetectByKeywords(imagePath, condition string) domain.Detection {
	filename := strings.ToLower(filepath.Base(imagePath))
	cond := strings.ToLower(condition)
	for _, r := range detectionRules {
		if containsAny(filename, r.filename...) || containsAny(cond, r.condition...) {
			return r.detection
		}
	}
	return unknownDetection
}
