package models

// ActionStatus is the outcome of an automated response.
type ActionStatus string

const (
	ActionCompleted ActionStatus = "Completed"
	ActionFailed    ActionStatus = "Failed"
)

// AutomatedAction records an automated response taken by the threat scanner.
type AutomatedAction struct {
	ID        int64        `json:"id"`
	Timestamp string       `json:"timestamp"`
	Action    string       `json:"action"`
	Trigger   string       `json:"trigger"`
	Status    ActionStatus `json:"status"`
}
