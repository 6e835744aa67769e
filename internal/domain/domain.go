package domain

import (
	"github.com/yungbote/maiopinion/internal/domain/diagnosis"
	"github.com/yungbote/maiopinion/internal/domain/patient"
)

type (
	Category      = diagnosis.Category
	Confidence    = diagnosis.Confidence
	Detection     = diagnosis.Detection
	Diagnosis     = diagnosis.Diagnosis
	TreatmentPlan = diagnosis.TreatmentPlan
	FollowUpPlan  = diagnosis.FollowUpPlan
	Report        = diagnosis.Report
	Workflow      = diagnosis.Workflow

	Patient      = patient.Patient
	PatientStats = patient.Stats
)

const (
	CategoryDental     = diagnosis.CategoryDental
	CategoryChestXray  = diagnosis.CategoryChestXray
	CategoryBrainScan  = diagnosis.CategoryBrainScan
	CategorySkin       = diagnosis.CategorySkin
	CategoryBoneXray   = diagnosis.CategoryBoneXray
	CategoryEye        = diagnosis.CategoryEye
	CategoryUltrasound = diagnosis.CategoryUltrasound
	CategoryOther      = diagnosis.CategoryOther

	ConfidenceHigh   = diagnosis.ConfidenceHigh
	ConfidenceMedium = diagnosis.ConfidenceMedium
	ConfidenceLow    = diagnosis.ConfidenceLow

	SentYes = patient.SentYes
	SentNo  = patient.SentNo
)

func ParseConfidence(s string, def Confidence) Confidence { return diagnosis.ParseConfidence(s, def) }
