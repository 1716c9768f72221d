package model

import "time"

type EventType string

const (
	EventLoanCreated   EventType = "created"
	EventStatusChanged EventType = "status_changed"
	EventLoanReturned  EventType = "returned"
	EventFinePaid      EventType = "fine_paid"
	EventLoanRenewed   EventType = "renewed"
	EventLoanDeleted   EventType = "deleted"
)

// LoanEvent is published on every loan transition and kept for audit.
type LoanEvent struct {
	ID         string     `json:"id" db:"id" bson:"_id"`
	LoanID     string     `json:"prestamoId" db:"loan_id" bson:"prestamo"`
	BookID     string     `json:"libro" db:"book_id" bson:"libro"`
	Type       EventType  `json:"type" db:"type" bson:"type"`
	From       LoanStatus `json:"from,omitempty" db:"from_status" bson:"from,omitempty"`
	To         LoanStatus `json:"to,omitempty" db:"to_status" bson:"to,omitempty"`
	Fine       int64      `json:"multa" db:"fine" bson:"multa"`
	OccurredAt time.Time  `json:"occurredAt" db:"occurred_at" bson:"occurredAt"`
}
