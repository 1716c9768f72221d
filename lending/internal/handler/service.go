package handler

import (
	"context"
	"io"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	GetLoan(ctx context.Context, id string) (model.LoanView, error)
	ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.LoanView, error)
	UpdateLoan(ctx context.Context, id string, req model.UpdateLoanRequest) (model.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
	RenewLoan(ctx context.Context, id string, days int) (model.Loan, error)
	EstimateLoan(ctx context.Context, id string) (model.LateEstimate, error)
	ListLoanEvents(ctx context.Context, loanID string) ([]model.LoanEvent, error)
	RecordEvent(ctx context.Context, event model.LoanEvent) error

	RegisterReturn(ctx context.Context, req model.RegisterReturnRequest) (model.Return, error)
	GetReturn(ctx context.Context, id string) (model.Return, error)
	ListReturns(ctx context.Context, filter model.ReturnFilter, paging model.Paging) (model.ListReturns, error)
	UpdateFinePaid(ctx context.Context, id string, paid bool) (model.Return, error)
}

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, bookID string, availability model.Availability) error
	UploadCover(ctx context.Context, bookID, filename, contentType string, body io.Reader) (model.Book, error)
	CoverLink(ctx context.Context, bookID string) (string, error)

	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	GetAuthor(ctx context.Context, id string) (model.Author, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	UpdateAuthor(ctx context.Context, id string, req model.UpdateAuthorRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, id string) error

	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	GetUser(ctx context.Context, id string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.Operator, error)
	Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error)
	Me(ctx context.Context, operatorID string) (model.Operator, error)
	UpdateProfile(ctx context.Context, operatorID string, req model.UpdateProfileRequest) (model.Operator, error)
	ChangePassword(ctx context.Context, operatorID string, req model.ChangePasswordRequest) error
}

var (
	_ LoanService    = (*service.Service)(nil)
	_ CatalogService = (*service.Service)(nil)
	_ AuthService    = (*service.Service)(nil)
)
