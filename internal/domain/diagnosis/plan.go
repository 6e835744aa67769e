package diagnosis

type Diagnosis struct {
	Label      string     `json:"diagnosis"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

type TreatmentPlan struct {
	Treatment   string   `json:"treatment"`
	Precautions []string `json:"precautions"`
}

// FollowUpPlan carries a free-form timeline such as "7 days" or "2 weeks".
type FollowUpPlan struct {
	Message      string `json:"follow_up"`
	Timeline     string `json:"timeline"`
	Instructions string `json:"patient_instructions"`
}
