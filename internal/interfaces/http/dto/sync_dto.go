package dto

import (
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// SyncRecordQuery holds the query parameters of the audit log listing
type SyncRecordQuery struct {
	Operation     string     `form:"operation" binding:"omitempty,oneof=CREATE_ORDER IMPORT_ORDERS IMPORT_ORDER UPDATE_STATUS APPLY_STOCK"`
	Outcome       string     `form:"outcome" binding:"omitempty,oneof=CREATED SKIPPED ALREADY_EXISTS CREATE_FAILED NOT_FOUND SUCCEEDED FAILED"`
	SellerOrderID string     `form:"seller_order_id" binding:"omitempty,max=64"`
	Since         *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Filter converts the query into a repository filter
func (q SyncRecordQuery) Filter() fulfillment.SyncRecordFilter {
	return fulfillment.SyncRecordFilter{
		Operation:     fulfillment.SyncOperation(q.Operation),
		Outcome:       fulfillment.SyncOutcome(q.Outcome),
		SellerOrderID: q.SellerOrderID,
		Since:         q.Since,
		Limit:         q.Limit,
	}
}

// SyncRecordResponse is the API representation of an audit log entry
type SyncRecordResponse struct {
	ID            string    `json:"id"`
	Operation     string    `json:"operation"`
	Outcome       string    `json:"outcome"`
	OrderID       string    `json:"order_id,omitempty"`
	SellerOrderID string    `json:"seller_order_id,omitempty"`
	ExternalID    string    `json:"external_id,omitempty"`
	BatchNumber   int       `json:"batch_number,omitempty"`
	OrderCount    int       `json:"order_count,omitempty"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToSyncRecordResponses converts domain records for the API
func ToSyncRecordResponses(records []fulfillment.SyncRecord) []SyncRecordResponse {
	out := make([]SyncRecordResponse, len(records))
	for i, r := range records {
		out[i] = SyncRecordResponse{
			ID:            r.ID.String(),
			Operation:     string(r.Operation),
			Outcome:       string(r.Outcome),
			OrderID:       r.OrderID,
			SellerOrderID: r.SellerOrderID,
			ExternalID:    r.ExternalID,
			BatchNumber:   r.BatchNumber,
			OrderCount:    r.OrderCount,
			Message:       r.Message,
			CreatedAt:     r.CreatedAt,
		}
	}
	return out
}

// JobListQuery holds the query parameters of the import job listing
type JobListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// JobIDRequest represents a request with a job id path parameter
type JobIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ChallengeRequest is the body of a webhook URL verification delivery
type ChallengeRequest struct {
	Challenge string `json:"challenge"`
}

// ChallengeResponse echoes the verification challenge
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}
