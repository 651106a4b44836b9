package domain

import "time"

// ApprovalStatus is the maker-checker state machine. PENDING is the only
// non-terminal state; APPROVED and REJECTED are final.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ApprovalRequest links a pending command to a required second-party decision.
// Durable state, so a command can suspend across process restarts between
// submission and decision. At most one request exists per command identity.
type ApprovalRequest struct {
	CommandID   string         `json:"commandID"` // Primary Key; 1:1 with the command
	Status      ApprovalStatus `json:"status"`
	RequestedAt time.Time      `json:"requestedAt"`
	ApproverID  *string        `json:"approverID,omitempty"` // Checker principal, set on decision
	DecidedAt   *time.Time     `json:"decidedAt,omitempty"`
}
