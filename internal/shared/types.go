package shared

const (
	TypeRepairDefaultAddress = "address:repair_default"
	TypeSweepDefaultAddress  = "address:sweep_defaults"

	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// RepairDefaultPayload là payload của task address:repair_default
type RepairDefaultPayload struct {
	UserID string `json:"userId"`
}

// SweepDefaultsPayload là payload của task address:sweep_defaults
type SweepDefaultsPayload struct {
	PageSize int `json:"pageSize,omitempty"`
}

// Context keys set by middleware
const (
	ContextUserID    = "userId"
	ContextSessionID = "sessionId"
	ContextRequestID = "request_id"
)
