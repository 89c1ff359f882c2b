package remote

import "github.com/pipeboard/pipeboard/internal/deal"

// API paths served by the system of record.
const (
	PathDeals               = "/api/deals"
	PathDealStage           = "/api/deals/:id/stage"
	PathPendingNotification = "/api/notifications/pending"
	PathMarkRead            = "/api/notifications/read"
	PathHealth              = "/healthz"
)

// Error reasons carried in ErrorResponse.Reason.
const (
	ReasonNotFound     = "not_found"
	ReasonInvalidStage = "invalid_stage"
	ReasonBadRequest   = "bad_request"
	ReasonUnavailable  = "unavailable"
)

// DealsResponse is the body of GET /api/deals.
type DealsResponse struct {
	Deals []deal.Deal `json:"deals"`
}

// StageUpdateRequest is the body of PATCH /api/deals/:id/stage.
type StageUpdateRequest struct {
	Stage deal.Stage `json:"stage"`
}

// StageUpdateResponse echoes the updated deal.
type StageUpdateResponse struct {
	Deal deal.Deal `json:"deal"`
}

// NotificationsResponse is the body of GET /api/notifications/pending.
type NotificationsResponse struct {
	Notifications []deal.Notification `json:"notifications"`
}

// MarkReadRequest is the body of POST /api/notifications/read.
type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
