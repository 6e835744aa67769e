package diagnosis

import "strings"

// Category is the imaging category assigned by the detector.
type Category string

const (
	CategoryDental     Category = "dental"
	CategoryChestXray  Category = "chest_xray"
	CategoryBrainScan  Category = "brain_scan"
	CategorySkin       Category = "skin"
	CategoryBoneXray   Category = "bone_xray"
	CategoryEye        Category = "eye"
	CategoryUltrasound Category = "ultrasound"
	CategoryOther      Category = "other"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParseConfidence lowercases s and returns def when s is empty.
func ParseConfidence(s string, def Confidence) Confidence {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return def
	}
	return Confidence(v)
}

// Detection is produced once per request by the detector.
type Detection struct {
	Category   Category   `json:"image_type"`
	Confidence Confidence `json:"confidence"`
	BodyPart   string     `json:"body_part"`
	Modality   string     `json:"imaging_modality"`
	Reasoning  string     `json:"reasoning"`
}
