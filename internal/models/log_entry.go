package models

import "time"

// Audit actions written by the case ledger
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionNotify = "NOTIFY"
)

type LogEntry struct {
	ID        int       `json:"id"`
	CaseID    *int      `json:"case_id"`
	CaseName  string    `json:"case_name,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type LogRequest struct {
	Action  string `json:"action" validate:"required,max=50"`
	Details string `json:"details"`
}
