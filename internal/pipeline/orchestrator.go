package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/maiopinion/internal/agents"
	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/observability"
	"github.com/yungbote/maiopinion/internal/platform/ctxutil"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

const (
	findingsPreview  = 200
	treatmentPreview = 150
	followUpPreview  = 150
)

// Request is one pipeline run. ImageName is reported in place of the path
// when set (uploads are stored under a generated name).
type Request struct {
	ImagePath string
	ImageName string
	Condition string
	Email     string
}

type Orchestrator struct {
	stages Stages
	log    *logger.Logger
	now    func() time.Time
}

func New(stages Stages, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{stages: stages, log: log.With("component", "Orchestrator"), now: time.Now}
}

// WithClock overrides the report timestamp clock.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Validate checks the inputs a run cannot start without.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ImagePath) == "" {
		return ErrMissingImage
	}
	if info, err := os.Stat(r.ImagePath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingImage, r.ImagePath)
	}
	if strings.TrimSpace(r.Condition) == "" {
		return ErrMissingCondition
	}
	return nil
}

// Run executes the five stages in order, notifying n of each step, and
// returns the aggregate report. On failure n receives a single error event.
func (o *Orchestrator) Run(ctx context.Context, req Request, n Notifier) (domain.Report, error) {
	if n == nil {
		n = discard{}
	}
	rep, err := o.run(ctx, req, n)
	if err != nil {
		o.log.Error("pipeline failed", append([]interface{}{"error", err}, ctxutil.LogFields(ctx)...)...)
		n.Notify(ErrorEvent(err))
		return domain.Report{}, err
	}
	o.log.Info("pipeline complete", append([]interface{}{
		"specialist", rep.AgentWorkflow.Step2,
		"patient_id", rep.PatientID,
	}, ctxutil.LogFields(ctx)...)...)
	n.Notify(Event{Type: EventComplete, Report: &rep})
	return rep, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request, n Notifier) (domain.Report, error) {
	if err := req.Validate(); err != nil {
		return domain.Report{}, err
	}
	ctx, root := observability.StartSpan(ctx, "pipeline.run")
	defer root.End()

	// Step 1
	var det domain.Detection
	if err := o.stage(ctx, n, 1, "Detecting image type and body part...", "detection", func(ctx context.Context, span trace.Span) error {
		det = o.stages.Detector.Detect(ctx, req.ImagePath, req.Condition)
		span.SetAttributes(attribute.String("image_type", string(det.Category)))
		return nil
	}); err != nil {
		return domain.Report{}, err
	}
	n.Notify(Event{
		Type:    EventStepComplete,
		Step:    1,
		Message: fmt.Sprintf("Detected: %s (%s confidence)", det.Category, det.Confidence),
		Result:  fmt.Sprintf("%s - %s", det.Category, det.BodyPart),
	})

	// Step 2
	var analysis agents.Analysis
	if err := o.stage(ctx, n, 2, "Routing to specialized diagnostic agent...", "specialist", func(ctx context.Context, span trace.Span) error {
		analysis = o.stages.Router.Analyze(ctx, req.ImagePath, req.Condition, det)
		span.SetAttributes(attribute.String("agent", analysis.AgentUsed))
		if strings.TrimSpace(analysis.Findings) == "" {
			return fmt.Errorf("%w: specialist returned no findings", ErrValidation)
		}
		return nil
	}); err != nil {
		return domain.Report{}, err
	}
	n.Notify(Event{
		Type:    EventStepComplete,
		Step:    2,
		Message: "Analysis complete using " + analysis.AgentUsed,
		Result:  Truncate(analysis.Findings, findingsPreview),
	})

	// Step 3
	var diag domain.Diagnosis
	if err := o.stage(ctx, n, 3, "Analyzing findings to generate diagnosis...", "reasoning", func(ctx context.Context, _ trace.Span) error {
		diag = o.stages.Reasoner.Reason(ctx, analysis.Findings, req.Condition)
		if strings.TrimSpace(diag.Label) == "" || diag.Confidence == "" {
			return fmt.Errorf("%w: reasoning requires diagnosis and confidence", ErrValidation)
		}
		return nil
	}); err != nil {
		return domain.Report{}, err
	}
	n.Notify(Event{
		Type:    EventStepComplete,
		Step:    3,
		Message: "Diagnosis: " + diag.Label,
		Result:  fmt.Sprintf("%s (Confidence: %s)", diag.Label, diag.Confidence),
	})

	// Step 4
	var plan domain.TreatmentPlan
	if err := o.stage(ctx, n, 4, "Creating treatment plan...", "treatment", func(ctx context.Context, _ trace.Span) error {
		plan = o.stages.Treatment.Plan(ctx, diag)
		if strings.TrimSpace(plan.Treatment) == "" {
			return fmt.Errorf("%w: treatment plan requires treatment", ErrValidation)
		}
		return nil
	}); err != nil {
		return domain.Report{}, err
	}
	n.Notify(Event{
		Type:    EventStepComplete,
		Step:    4,
		Message: "Treatment plan generated",
		Result:  Truncate(plan.Treatment, treatmentPreview),
	})

	// Step 5
	var fu agents.FollowUpResult
	if err := o.stage(ctx, n, 5, "Generating follow-up care plan...", "followup", func(ctx context.Context, span trace.Span) error {
		var err error
		fu, err = o.stages.FollowUp.Plan(ctx, plan, diag, strings.TrimSpace(req.Email), req.Condition)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Bool("email_registered", fu.EmailRegistered))
		if strings.TrimSpace(fu.Plan.Message) == "" {
			return fmt.Errorf("%w: follow-up plan requires follow_up", ErrValidation)
		}
		return nil
	}); err != nil {
		return domain.Report{}, err
	}
	n.Notify(Event{
		Type:    EventStepComplete,
		Step:    5,
		Message: "Follow-up timeline: " + fu.Plan.Timeline,
		Result:  Truncate(fu.Plan.Message, followUpPreview),
	})

	precautions := plan.Precautions
	if precautions == nil {
		precautions = []string{}
	}
	imageName := req.ImageName
	if imageName == "" {
		imageName = filepath.Base(req.ImagePath)
	}
	return domain.Report{
		Timestamp:           o.now().Format(time.RFC3339),
		PatientCondition:    req.Condition,
		ImageAnalyzed:       imageName,
		ImageType:           det.Category,
		BodyPart:            det.BodyPart,
		ImagingModality:     det.Modality,
		DetectionConfidence: det.Confidence,
		Finding:             analysis.Findings,
		Diagnosis:           diag.Label,
		Confidence:          diag.Confidence,
		Treatment:           plan.Treatment,
		Precautions:         precautions,
		FollowUp:            fu.Plan.Message,
		Timeline:            fu.Plan.Timeline,
		PatientInstructions: fu.Plan.Instructions,
		PatientID:           fu.PatientID,
		EmailRegistered:     fu.EmailRegistered,
		AgentWorkflow: domain.Workflow{
			Step1: agents.DetectorName,
			Step2: analysis.AgentUsed,
			Step3: agents.ReasonerName,
			Step4: agents.TreatmentPlannerName,
			Step5: agents.FollowUpPlannerName,
		},
	}, nil
}

// stage announces step and runs fn inside a span. Once ctx is done it
// neither announces nor runs.
func (o *Orchestrator) stage(ctx context.Context, n Notifier, step int, startMsg, name string, fn func(context.Context, trace.Span) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.Notify(Event{Type: EventStepStart, Step: step, Message: startMsg})
	ctx, span := observability.StartSpan(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	o.log.Debug("stage finished", "stage", name, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
