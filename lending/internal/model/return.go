package model

import "time"

type BookCondition string

const (
	BookConditionGood        BookCondition = "good"
	BookConditionLightDamage BookCondition = "light_damage"
	BookConditionHeavyDamage BookCondition = "heavy_damage"
	BookConditionLost        BookCondition = "lost"
)

// Return is the audit record written when a loan is closed. Only FinePaid
// changes after creation.
type Return struct {
	ID               string        `json:"_id" db:"id" bson:"_id"`
	LoanID           string        `json:"prestamo" db:"loan_id" bson:"prestamo"`
	BookID           string        `json:"libro" db:"book_id" bson:"libro"`
	BorrowerID       string        `json:"usuario" db:"borrower_id" bson:"usuario"`
	BookTitle        string        `json:"libroTitulo" db:"book_title" bson:"libroTitulo"`
	BookISBN         string        `json:"libroIsbn" db:"book_isbn" bson:"libroIsbn"`
	BorrowerName     string        `json:"usuarioNombre" db:"borrower_name" bson:"usuarioNombre"`
	ReturnedAt       time.Time     `json:"fechaDevolucion" db:"returned_at" bson:"fechaDevolucion"`
	OriginalLoanDate time.Time     `json:"fechaPrestamoOriginal" db:"original_loan_date" bson:"fechaPrestamoOriginal"`
	ExpectedDueDate  time.Time     `json:"fechaDevolucionEsperada" db:"expected_due_date" bson:"fechaDevolucionEsperada"`
	LateDays         int           `json:"diasRetraso" db:"late_days" bson:"diasRetraso"`
	Fine             int64         `json:"multaCalculada" db:"fine" bson:"multaCalculada"`
	BookCondition    BookCondition `json:"estadoLibro" db:"book_condition" bson:"estadoLibro"`
	Notes            string        `json:"observaciones" db:"notes" bson:"observaciones"`
	FinePaid         bool          `json:"multaPagada" db:"fine_paid" bson:"multaPagada"`
	CreatedBy        string        `json:"creadoPor" db:"created_by" bson:"creadoPor"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

type RegisterReturnRequest struct {
	LoanID        string        `json:"prestamoId" validate:"required"`
	BookCondition BookCondition `json:"estadoLibro" validate:"omitempty,oneof=good light_damage heavy_damage lost"`
	Notes         string        `json:"observaciones" validate:"max=2000"`
	FinePaid      bool          `json:"multaPagada"`
	CreatedBy     string        `json:"-"`
}

type UpdateFinePaidRequest struct {
	FinePaid *bool `json:"multaPagada" validate:"required"`
}

type ReturnFilter struct {
	BorrowerID string
	BookID     string
	From, To   time.Time
}

type ReturnResponse struct {
	Message string `json:"message"`
	Return  Return `json:"devolucion"`
}

type ListReturns struct {
	Items       []Return `json:"devoluciones"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	Total       int      `json:"total"`
}
