package repository

import (
	"context"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

// TxFunc runs against a repository bound to one storage transaction.
type TxFunc func(ctx context.Context, repo Repository) error

type Repository interface {
	BookRepository
	AuthorRepository
	UserRepository
	OperatorRepository
	LoanRepository
	ReturnRepository
	EventRepository

	// WithinTx runs fn atomically when the backend supports it. Nested
	// calls reuse the outer transaction.
	WithinTx(ctx context.Context, fn TxFunc) error
}

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, bookID string, availability model.Availability) error
	SetCover(ctx context.Context, bookID, coverURL string) (model.Book, error)
}

type AuthorRepository interface {
	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	GetAuthor(ctx context.Context, id string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	DeleteAuthor(ctx context.Context, id string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type OperatorRepository interface {
	CreateOperator(ctx context.Context, op model.Operator) (model.Operator, error)
	GetOperator(ctx context.Context, id string) (model.Operator, error)
	GetOperatorByEmail(ctx context.Context, email string) (model.Operator, error)
	UpdateOperatorProfile(ctx context.Context, op model.Operator) (model.Operator, error)
	SetOperatorPassword(ctx context.Context, id, passwordHash string) error
}

type LoanRepository interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, id string) (model.Loan, error)
	// LockLoan reads the loan and holds it until the transaction ends.
	LockLoan(ctx context.Context, id string) (model.Loan, error)
	ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.Loan, error)
	UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	SetLoanFine(ctx context.Context, id string, fine int64) error
	DeleteLoan(ctx context.Context, id string) (model.Loan, error)
}

type ReturnRepository interface {
	CreateReturn(ctx context.Context, rec model.Return) (model.Return, error)
	GetReturn(ctx context.Context, id string) (model.Return, error)
	ListReturns(ctx context.Context, filter model.ReturnFilter, paging model.Paging) ([]model.Return, error)
	CountReturns(ctx context.Context, filter model.ReturnFilter) (int, error)
	SetFinePaid(ctx context.Context, id string, paid bool) (model.Return, error)
}

type EventRepository interface {
	// SaveEvent ignores events that were already stored.
	SaveEvent(ctx context.Context, event model.LoanEvent) error
	ListEvents(ctx context.Context, loanID string) ([]model.LoanEvent, error)
}
