package model

import (
	"time"

	"github.com/dev-mohitbeniwal/bookclub/model"
)

// Operation kinds.
const (
	KindQuery    = "query"
	KindMutation = "mutation"
)

// OperationRequest asks whether Subject may run one GraphQL operation.
// Subject is nil for anonymous callers.
type OperationRequest struct {
	Operation string          `json:"operation"`
	Kind      string          `json:"kind"`
	Subject   *model.Identity `json:"subject,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (r OperationRequest) Authenticated() bool {
	return r.Subject != nil && r.Subject.ID != ""
}
