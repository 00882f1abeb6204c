// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded by the resolver and service layers.
const (
	ActionSignup          = "SIGNUP"
	ActionLogin           = "LOGIN"
	ActionCreateBook      = "CREATE_BOOK"
	ActionCreateClub      = "CREATE_CLUB"
	ActionDeleteClub      = "DELETE_CLUB"
	ActionJoinClub        = "JOIN_CLUB"
	ActionLeaveClub       = "LEAVE_CLUB"
	ActionAddClubBook     = "ADD_CLUB_BOOK"
	ActionRemoveClubBook  = "REMOVE_CLUB_BOOK"
	ActionCreateReview    = "CREATE_REVIEW"
	ActionDeleteReview    = "DELETE_REVIEW"
	ActionRateBook        = "RATE_BOOK"
	ActionOperationDenied = "OPERATION_DENIED"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type,omitempty"`
	ResourceID    string          `json:"resource_id"`
	Operation     string          `json:"operation,omitempty"`
	AccessGranted bool            `json:"access_granted"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}

// Details marshals v for ChangeDetails, dropping it on failure.
func Details(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
