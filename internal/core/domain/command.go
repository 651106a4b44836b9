package domain

import (
	"encoding/json"
	"time"
)

// CommandStatus is the lifecycle state of a submitted command.
type CommandStatus string

const (
	CommandPending  CommandStatus = "PENDING"
	CommandExecuted CommandStatus = "EXECUTED"
	CommandRejected CommandStatus = "REJECTED"
	CommandFailed   CommandStatus = "FAILED"
)

// IsTerminal reports whether the status permits no further transition.
func (s CommandStatus) IsTerminal() bool {
	return s == CommandExecuted || s == CommandRejected || s == CommandFailed
}

// Command is the unit of intent: a requested state-changing operation.
// Identity is assigned once at submission and never reused. The struct is
// immutable after submission; lifecycle state lives on the CommandRecord.
type Command struct {
	CommandID    string          `json:"commandID"`    // Primary Key (UUID)
	Entity       string          `json:"entity"`       // Entity tag, e.g. LOAN
	Action       string          `json:"action"`       // Action tag, e.g. DISBURSE
	OriginatorID string          `json:"originatorID"` // Maker principal
	Payload      json.RawMessage `json:"payload"`      // Opaque to the engine; handlers decode it
	SubmittedAt  time.Time       `json:"submittedAt"`
}

// Result is the outcome data produced by an executed command. Opaque to the
// engine; persisted as JSON alongside the command record.
type Result map[string]any

// CommandRecord is the audit entry wrapping a Command. Created at submission
// with status PENDING and resolved exactly once; never deleted. Only the
// transaction coordinator transitions its status, through a single guarded
// compare-and-set keyed by command identity.
type CommandRecord struct {
	Command
	Status        CommandStatus `json:"status"`
	ApproverID    *string       `json:"approverID,omitempty"` // Checker principal, when resolved via approval
	ResolvedAt    *time.Time    `json:"resolvedAt,omitempty"`
	Result        Result        `json:"result,omitempty"`        // Set on EXECUTED
	FailureReason string        `json:"failureReason,omitempty"` // Set on FAILED
}

// OutcomeStatus classifies the result of submitting or deciding a command.
type OutcomeStatus string

const (
	OutcomeExecuted         OutcomeStatus = "EXECUTED"
	OutcomeAwaitingApproval OutcomeStatus = "AWAITING_APPROVAL"
	OutcomeRejected         OutcomeStatus = "REJECTED"
	OutcomeFailed           OutcomeStatus = "FAILED"
)

// Outcome is what the engine returns to a caller for a submit or decide.
type Outcome struct {
	CommandID string        `json:"commandID"`
	Status    OutcomeStatus `json:"status"`
	Result    Result        `json:"result,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// OutcomeFromRecord derives the caller-visible outcome of an already-resolved
// command record. Used to answer duplicate execution or decision attempts with
// the originally recorded result.
func OutcomeFromRecord(rec *CommandRecord) Outcome {
	out := Outcome{CommandID: rec.CommandID}
	switch rec.Status {
	case CommandExecuted:
		out.Status = OutcomeExecuted
		out.Result = rec.Result
	case CommandRejected:
		out.Status = OutcomeRejected
	case CommandFailed:
		out.Status = OutcomeFailed
		out.Reason = rec.FailureReason
	default:
		out.Status = OutcomeAwaitingApproval
	}
	return out
}
