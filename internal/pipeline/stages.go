package pipeline

import (
	"context"

	"github.com/yungbote/maiopinion/internal/agents"
	"github.com/yungbote/maiopinion/internal/domain"
)

type Detector interface {
	Detect(ctx context.Context, imagePath, condition string) domain.Detection
}

type Analyzer interface {
	Analyze(ctx context.Context, imagePath, condition string, det domain.Detection) agents.Analysis
}

type Reasoner interface {
	Reason(ctx context.Context, findings any, condition string) domain.Diagnosis
}

type TreatmentPlanner interface {
	Plan(ctx context.Context, diag domain.Diagnosis) domain.TreatmentPlan
}

type FollowUpPlanner interface {
	Plan(ctx context.Context, treatment domain.TreatmentPlan, diag domain.Diagnosis, email, condition string) (agents.FollowUpResult, error)
}

// Stages are the five pipeline steps in order.
type Stages struct {
	Detector  Detector
	Router    Analyzer
	Reasoner  Reasoner
	Treatment TreatmentPlanner
	FollowUp  FollowUpPlanner
}

// NewStages builds the standard agents over shared deps. Patients are
// registered in w; a nil w disables registration.
func NewStages(d agents.Deps, w agents.PatientWriter) Stages {
	return Stages{
		Detector:  agents.NewDetector(d),
		Router:    agents.NewRouter(d),
		Reasoner:  agents.NewReasoner(d),
		Treatment: agents.NewTreatmentPlanner(d),
		FollowUp:  agents.NewFollowUpPlanner(d, w),
	}
}
