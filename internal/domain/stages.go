package domain

// DealStage represents the stage of a deal in the sales pipeline
type DealStage string

const (
	DealStageLead        DealStage = "lead"
	DealStageAppointment DealStage = "appointment"
	DealStageDesign      DealStage = "design"
	DealStageQuoteSent   DealStage = "quote_sent"
	DealStageDelivery    DealStage = "delivery"
	DealStageAssembly    DealStage = "assembly"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

// PipelineStages lists every stage in board order
var PipelineStages = []DealStage{
	DealStageLead,
	DealStageAppointment,
	DealStageDesign,
	DealStageQuoteSent,
	DealStageDelivery,
	DealStageAssembly,
	DealStageWon,
	DealStageLost,
}

var stageLabels = map[DealStage]string{
	DealStageLead:        "1. Lead/Contact",
	DealStageAppointment: "2. Appointment Set",
	DealStageDesign:      "3. Design",
	DealStageQuoteSent:   "4. Quote Sent",
	DealStageDelivery:    "5. In Delivery",
	DealStageAssembly:    "6. In Assembly",
	DealStageWon:         "7. Closed Won",
	DealStageLost:        "8. Closed Lost",
}

// IsValid checks if the DealStage is a valid enum value
func (s DealStage) IsValid() bool {
	_, ok := stageLabels[s]
	return ok
}

// IsClosed reports whether the stage is terminal
func (s DealStage) IsClosed() bool {
	return s == DealStageWon || s == DealStageLost
}

// Label returns the display label, or the raw value for unknown stages
func (s DealStage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Order returns the position in the pipeline, -1 when unknown
func (s DealStage) Order() int {
	for i, stage := range PipelineStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// ActiveStages returns the non-terminal stages in pipeline order
func ActiveStages() []DealStage {
	out := make([]DealStage, 0, len(PipelineStages))
	for _, s := range PipelineStages {
		if !s.IsClosed() {
			out = append(out, s)
		}
	}
	return out
}
