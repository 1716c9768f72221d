package model

import "time"

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusLoaned    LoanStatus = "loaned"
	LoanStatusReturned  LoanStatus = "returned"
	LoanStatusOverdue   LoanStatus = "overdue"
	LoanStatusCancelled LoanStatus = "cancelled"
)

const MaxRenewals = 3

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusPending: {LoanStatusLoaned, LoanStatusCancelled},
	LoanStatusLoaned:  {LoanStatusOverdue, LoanStatusReturned, LoanStatusCancelled},
	LoanStatusOverdue: {LoanStatusReturned},
}

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusPending, LoanStatusLoaned, LoanStatusReturned, LoanStatusOverdue, LoanStatusCancelled:
		return true
	}
	return false
}

// Active loans hold the book.
func (s LoanStatus) Active() bool {
	return s == LoanStatusLoaned || s == LoanStatusOverdue
}

func (s LoanStatus) Terminal() bool {
	return s == LoanStatusReturned || s == LoanStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s. Keeping the
// same status is always allowed.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	if s == next {
		return true
	}
	for _, st := range loanTransitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

type Loan struct {
	ID            string     `json:"_id" db:"id" bson:"_id"`
	BookID        string     `json:"libro" db:"book_id" bson:"libro"`
	BorrowerID    string     `json:"usuario" db:"borrower_id" bson:"usuario"`
	LoanDate      time.Time  `json:"fechaPrestamo" db:"loan_date" bson:"fechaPrestamo"`
	DueDate       time.Time  `json:"fechaDevolucion" db:"due_date" bson:"fechaDevolucion"`
	Status        LoanStatus `json:"estado" db:"status" bson:"estado"`
	Notes         string     `json:"observaciones" db:"notes" bson:"observaciones"`
	Renewals      int        `json:"renovaciones" db:"renewals" bson:"renovaciones"`
	Fine          int64      `json:"multa" db:"fine" bson:"multa"`
	TermsAccepted bool       `json:"terminosAceptados" db:"terms_accepted" bson:"terminosAceptados"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// LoanView is a loan joined with its book and borrower as they are now.
type LoanView struct {
	Loan
	Book     *Book `json:"libroDetalle,omitempty"`
	Borrower *User `json:"usuarioDetalle,omitempty"`
}

type LoanFilter struct {
	Status     LoanStatus
	BookID     string
	BorrowerID string
}

type CreateLoanRequest struct {
	BookID        string     `json:"libro" validate:"required"`
	BorrowerID    string     `json:"usuario" validate:"required"`
	LoanDate      *Date      `json:"fechaPrestamo"`
	DueDate       Date       `json:"fechaDevolucion"`
	Status        LoanStatus `json:"estado" validate:"omitempty,oneof=pending loaned"`
	Notes         string     `json:"observaciones" validate:"max=2000"`
	Renewals      int        `json:"renovaciones" validate:"gte=0,max=3"`
	Fine          int64      `json:"multa" validate:"gte=0"`
	TermsAccepted bool       `json:"terminosAceptados"`
}

// UpdateLoanRequest is a partial edit; nil fields are left unchanged.
type UpdateLoanRequest struct {
	DueDate       *Date       `json:"fechaDevolucion"`
	Status        *LoanStatus `json:"estado" validate:"omitempty,oneof=pending loaned returned overdue cancelled"`
	Notes         *string     `json:"observaciones" validate:"omitempty,max=2000"`
	Renewals      *int        `json:"renovaciones" validate:"omitempty,gte=0,max=3"`
	Fine          *int64      `json:"multa" validate:"omitempty,gte=0"`
	TermsAccepted *bool       `json:"terminosAceptados"`
}

type RenewLoanRequest struct {
	Days int `json:"dias" validate:"omitempty,gt=0,lte=90"`
}

type LoanResponse struct {
	Message string `json:"message"`
	Loan    Loan   `json:"prestamo"`
}

// LateEstimate is the display-only lateness figure shown while a loan is open.
type LateEstimate struct {
	LoanID   string    `json:"prestamoId"`
	AsOf     time.Time `json:"fecha"`
	LateDays int       `json:"diasRetraso"`
	Fine     int64     `json:"multaEstimada"`
}
