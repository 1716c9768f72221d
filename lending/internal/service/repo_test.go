package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
)

// memRepo is an in-memory repository. Transactions are serialized and
// rolled back on error.
type memRepo struct {
	txMu sync.Mutex

	mu        sync.Mutex
	books     map[string]model.Book
	authors   map[string]model.Author
	users     map[string]model.User
	operators map[string]model.Operator
	loans     map[string]model.Loan
	returns   map[string]model.Return
	events    map[string]model.LoanEvent
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		books:     map[string]model.Book{},
		authors:   map[string]model.Author{},
		users:     map[string]model.User{},
		operators: map[string]model.Operator{},
		loans:     map[string]model.Loan{},
		returns:   map[string]model.Return{},
		events:    map[string]model.LoanEvent{},
	}
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *memRepo) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	books, loans, returns := clone(r.books), clone(r.loans), clone(r.returns)
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		r.books, r.loans, r.returns = books, loans, returns
		r.mu.Unlock()
		return err
	}
	return nil
}

func get[V any](mu *sync.Mutex, m map[string]V, id string) (V, error) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := m[id]
	if !ok {
		var zero V
		return zero, errs.ErrNotFound
	}
	return v, nil
}

func put[V any](mu *sync.Mutex, m map[string]V, id string, v V, mustExist bool) (V, error) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := m[id]; ok != mustExist {
		var zero V
		if mustExist {
			return zero, errs.ErrNotFound
		}
		return zero, errs.ErrDuplicate
	}
	m[id] = v
	return v, nil
}

func del[V any](mu *sync.Mutex, m map[string]V, id string) (V, error) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := m[id]
	if !ok {
		return v, errs.ErrNotFound
	}
	delete(m, id)
	return v, nil
}

func (r *memRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	return put(&r.mu, r.books, book.ID, book, false)
}

func (r *memRepo) GetBook(_ context.Context, id string) (model.Book, error) {
	return get(&r.mu, r.books, id)
}

func (r *memRepo) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Book{}
	for _, b := range r.books {
		if filter.Availability != "" && b.Availability != filter.Availability {
			continue
		}
		if filter.AuthorID != "" && b.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *memRepo) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	return put(&r.mu, r.books, book.ID, book, true)
}

func (r *memRepo) DeleteBook(_ context.Context, id string) error {
	_, err := del(&r.mu, r.books, id)
	return err
}

func (r *memRepo) SetAvailability(_ context.Context, bookID string, availability model.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return errs.ErrNotFound
	}
	b.Availability = availability
	r.books[bookID] = b
	return nil
}

func (r *memRepo) SetCover(_ context.Context, bookID, coverURL string) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[bookID]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	b.CoverURL = coverURL
	r.books[bookID] = b
	return b, nil
}

func (r *memRepo) CreateAuthor(_ context.Context, author model.Author) (model.Author, error) {
	return put(&r.mu, r.authors, author.ID, author, false)
}

func (r *memRepo) GetAuthor(_ context.Context, id string) (model.Author, error) {
	return get(&r.mu, r.authors, id)
}

func (r *memRepo) ListAuthors(context.Context) ([]model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Author{}
	for _, a := range r.authors {
		out = append(out, a)
	}
	return out, nil
}

func (r *memRepo) UpdateAuthor(_ context.Context, author model.Author) (model.Author, error) {
	return put(&r.mu, r.authors, author.ID, author, true)
}

func (r *memRepo) DeleteAuthor(_ context.Context, id string) error {
	_, err := del(&r.mu, r.authors, id)
	return err
}

func (r *memRepo) CreateUser(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Identification == user.Identification {
			r.mu.Unlock()
			return model.User{}, errs.ErrDuplicate
		}
	}
	r.mu.Unlock()
	return put(&r.mu, r.users, user.ID, user, false)
}

func (r *memRepo) GetUser(_ context.Context, id string) (model.User, error) {
	return get(&r.mu, r.users, id)
}

func (r *memRepo) ListUsers(context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memRepo) UpdateUser(_ context.Context, user model.User) (model.User, error) {
	return put(&r.mu, r.users, user.ID, user, true)
}

func (r *memRepo) DeleteUser(_ context.Context, id string) error {
	_, err := del(&r.mu, r.users, id)
	return err
}

func (r *memRepo) CreateOperator(_ context.Context, op model.Operator) (model.Operator, error) {
	if _, err := r.GetOperatorByEmail(context.Background(), op.Email); err == nil {
		return model.Operator{}, errs.ErrDuplicate
	}
	return put(&r.mu, r.operators, op.ID, op, false)
}

func (r *memRepo) GetOperator(_ context.Context, id string) (model.Operator, error) {
	return get(&r.mu, r.operators, id)
}

func (r *memRepo) GetOperatorByEmail(_ context.Context, email string) (model.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range r.operators {
		if op.Email == email {
			return op, nil
		}
	}
	return model.Operator{}, errs.ErrNotFound
}

func (r *memRepo) UpdateOperatorProfile(_ context.Context, op model.Operator) (model.Operator, error) {
	cur, err := get(&r.mu, r.operators, op.ID)
	if err != nil {
		return model.Operator{}, err
	}
	cur.Name, cur.Phone, cur.Address, cur.City, cur.Country = op.Name, op.Phone, op.Address, op.City, op.Country
	cur.BirthDate, cur.UpdatedAt = op.BirthDate, op.UpdatedAt
	return put(&r.mu, r.operators, cur.ID, cur, true)
}

func (r *memRepo) SetOperatorPassword(_ context.Context, id, passwordHash string) error {
	cur, err := get(&r.mu, r.operators, id)
	if err != nil {
		return err
	}
	cur.PasswordHash = passwordHash
	_, err = put(&r.mu, r.operators, id, cur, true)
	return err
}

func (r *memRepo) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	return put(&r.mu, r.loans, loan.ID, loan, false)
}

func (r *memRepo) GetLoan(_ context.Context, id string) (model.Loan, error) {
	return get(&r.mu, r.loans, id)
}

func (r *memRepo) LockLoan(ctx context.Context, id string) (model.Loan, error) {
	return r.GetLoan(ctx, id)
}

func (r *memRepo) ListLoans(_ context.Context, filter model.LoanFilter) ([]model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Loan{}
	for _, l := range r.loans {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.BookID != "" && l.BookID != filter.BookID {
			continue
		}
		if filter.BorrowerID != "" && l.BorrowerID != filter.BorrowerID {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) UpdateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	return put(&r.mu, r.loans, loan.ID, loan, true)
}

func (r *memRepo) SetLoanFine(_ context.Context, id string, fine int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loans[id]
	if !ok {
		return errs.ErrNotFound
	}
	l.Fine = fine
	r.loans[id] = l
	return nil
}

func (r *memRepo) DeleteLoan(_ context.Context, id string) (model.Loan, error) {
	return del(&r.mu, r.loans, id)
}

func (r *memRepo) CreateReturn(_ context.Context, rec model.Return) (model.Return, error) {
	r.mu.Lock()
	for _, existing := range r.returns {
		if existing.LoanID == rec.LoanID {
			r.mu.Unlock()
			return model.Return{}, errs.ErrDuplicate
		}
	}
	r.mu.Unlock()
	return put(&r.mu, r.returns, rec.ID, rec, false)
}

func (r *memRepo) GetReturn(_ context.Context, id string) (model.Return, error) {
	return get(&r.mu, r.returns, id)
}

func (r *memRepo) filterReturns(filter model.ReturnFilter) []model.Return {
	out := []model.Return{}
	for _, rec := range r.returns {
		if filter.BorrowerID != "" && rec.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.BookID != "" && rec.BookID != filter.BookID {
			continue
		}
		if !filter.From.IsZero() && rec.ReturnedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.ReturnedAt.After(filter.To) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReturnedAt.After(out[j].ReturnedAt) })
	return out
}

func (r *memRepo) ListReturns(_ context.Context, filter model.ReturnFilter, paging model.Paging) ([]model.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.filterReturns(filter)
	start := paging.Offset()
	if start >= len(all) {
		return []model.Return{}, nil
	}
	end := start + paging.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memRepo) CountReturns(_ context.Context, filter model.ReturnFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filterReturns(filter)), nil
}

func (r *memRepo) SetFinePaid(_ context.Context, id string, paid bool) (model.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.returns[id]
	if !ok {
		return model.Return{}, errs.ErrNotFound
	}
	rec.FinePaid = paid
	r.returns[id] = rec
	return rec, nil
}

func (r *memRepo) SaveEvent(_ context.Context, event model.LoanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		r.events[event.ID] = event
	}
	return nil
}

func (r *memRepo) ListEvents(_ context.Context, loanID string) ([]model.LoanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.LoanEvent{}
	for _, e := range r.events {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
