package diagnosis

// Workflow names the agent that ran at each pipeline step.
type Workflow struct {
	Step1 string `json:"step_1"`
	Step2 string `json:"step_2"`
	Step3 string `json:"step_3"`
	Step4 string `json:"step_4"`
	Step5 string `json:"step_5"`
}

// Report is the aggregate of every stage output for one run.
type Report struct {
	Timestamp           string     `json:"timestamp"`
	PatientCondition    string     `json:"patient_condition"`
	ImageAnalyzed       string     `json:"image_analyzed"`
	ImageType           Category   `json:"image_type"`
	BodyPart            string     `json:"body_part"`
	ImagingModality     string     `json:"imaging_modality"`
	DetectionConfidence Confidence `json:"detection_confidence"`
	Finding             string     `json:"finding"`
	Diagnosis           string     `json:"diagnosis"`
	Confidence          Confidence `json:"confidence"`
	Treatment           string     `json:"treatment"`
	Precautions         []string   `json:"precautions"`
	FollowUp            string     `json:"follow_up"`
	Timeline            string     `json:"timeline"`
	PatientInstructions string     `json:"patient_instructions"`
	PatientID           string     `json:"patient_id,omitempty"`
	EmailRegistered     bool       `json:"email_registered"`
	AgentWorkflow       Workflow   `json:"agent_workflow"`
}
