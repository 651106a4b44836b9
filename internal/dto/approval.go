package dto

import (
	"time"

	"github.com/nimbusfin/coreledger/internal/core/domain"
)

// ApprovalRequestResponse is a pending approval as returned to checkers.
type ApprovalRequestResponse struct {
	CommandID   string     `json:"commandID"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ApproverID  *string    `json:"approverID,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}

// ToApprovalRequestResponse converts a domain.ApprovalRequest to its DTO.
func ToApprovalRequestResponse(req *domain.ApprovalRequest) ApprovalRequestResponse {
	return ApprovalRequestResponse{
		CommandID:   req.CommandID,
		Status:      string(req.Status),
		RequestedAt: req.RequestedAt,
		ApproverID:  req.ApproverID,
		DecidedAt:   req.DecidedAt,
	}
}

// ListApprovalsParams paginates pending approval listings.
type ListApprovalsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListApprovalsResponse is a page of pending approvals.
type ListApprovalsResponse struct {
	Approvals []ApprovalRequestResponse `json:"approvals"`
	NextToken *string                   `json:"nextToken,omitempty"`
}
