// Package audit records final eligibility decisions for compliance review.
// Every terminal turn produces one record, persisted to Postgres and
// published to Kafka for downstream reporting.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Decision is one final eligibility outcome. It is append-only; the fact
// snapshot captures what the decision was based on at the moment it fired.
type Decision struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversation_id"`
	FinalState     string    `json:"final_state"`
	EligibilityTag string    `json:"eligibility_result"`
	Age            *float64  `json:"age,omitempty"`
	RSA            *bool     `json:"rsa,omitempty"`
	Schooling      *bool     `json:"schooling,omitempty"`
	City           string    `json:"city,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	DecidedAt      time.Time `json:"decided_at"`
}
