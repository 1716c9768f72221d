package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (r *Repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	return insertOne(ctx, r.coll(loansColl), loan)
}

func (r *Repository) GetLoan(ctx context.Context, id string) (model.Loan, error) {
	return findOne[model.Loan](ctx, r.coll(loansColl), byID(id))
}

// LockLoan touches the document inside a transaction so that a concurrent
// transaction on the same loan fails with a write conflict.
func (r *Repository) LockLoan(ctx context.Context, id string) (model.Loan, error) {
	if !r.inTx {
		return r.GetLoan(ctx, id)
	}
	return updateOne[model.Loan](ctx, r.coll(loansColl), id, bson.M{"$set": bson.M{
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *Repository) ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.Loan, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["estado"] = filter.Status
	}
	if filter.BookID != "" {
		q["libro"] = filter.BookID
	}
	if filter.BorrowerID != "" {
		q["usuario"] = filter.BorrowerID
	}
	return findAll[model.Loan](ctx, r.coll(loansColl), q,
		options.Find().SetSort(bson.D{{Key: "fechaPrestamo", Value: -1}}))
}

func (r *Repository) UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	return updateOne[model.Loan](ctx, r.coll(loansColl), loan.ID, bson.M{"$set": bson.M{
		"fechaDevolucion":   loan.DueDate,
		"estado":            loan.Status,
		"observaciones":     loan.Notes,
		"renovaciones":      loan.Renewals,
		"multa":             loan.Fine,
		"terminosAceptados": loan.TermsAccepted,
		"updatedAt":         loan.UpdatedAt,
	}})
}

func (r *Repository) SetLoanFine(ctx context.Context, id string, fine int64) error {
	_, err := updateOne[model.Loan](ctx, r.coll(loansColl), id, bson.M{"$set": bson.M{
		"multa":     fine,
		"updatedAt": time.Now().UTC(),
	}})
	return err
}

func (r *Repository) DeleteLoan(ctx context.Context, id string) (model.Loan, error) {
	var loan model.Loan
	if err := r.coll(loansColl).FindOneAndDelete(ctx, byID(id)).Decode(&loan); err != nil {
		return model.Loan{}, mapErr(err)
	}
	return loan, nil
}

func (r *Repository) CreateReturn(ctx context.Context, rec model.Return) (model.Return, error) {
	return insertOne(ctx, r.coll(returnsColl), rec)
}

func (r *Repository) GetReturn(ctx context.Context, id string) (model.Return, error) {
	return findOne[model.Return](ctx, r.coll(returnsColl), byID(id))
}

func returnQuery(f model.ReturnFilter) bson.M {
	q := bson.M{}
	if f.BorrowerID != "" {
		q["usuario"] = f.BorrowerID
	}
	if f.BookID != "" {
		q["libro"] = f.BookID
	}
	dates := bson.M{}
	if !f.From.IsZero() {
		dates["$gte"] = f.From
	}
	if !f.To.IsZero() {
		dates["$lte"] = f.To
	}
	if len(dates) > 0 {
		q["fechaDevolucion"] = dates
	}
	return q
}

func (r *Repository) ListReturns(ctx context.Context, filter model.ReturnFilter, paging model.Paging) ([]model.Return, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "fechaDevolucion", Value: -1}}).
		SetSkip(int64(paging.Offset())).
		SetLimit(int64(paging.Limit))
	return findAll[model.Return](ctx, r.coll(returnsColl), returnQuery(filter), opts)
}

func (r *Repository) CountReturns(ctx context.Context, filter model.ReturnFilter) (int, error) {
	n, err := r.coll(returnsColl).CountDocuments(ctx, returnQuery(filter))
	if err != nil {
		return 0, mapErr(err)
	}
	return int(n), nil
}

func (r *Repository) SetFinePaid(ctx context.Context, id string, paid bool) (model.Return, error) {
	return updateOne[model.Return](ctx, r.coll(returnsColl), id, bson.M{"$set": bson.M{
		"multaPagada": paid,
		"updatedAt":   time.Now().UTC(),
	}})
}

func (r *Repository) SaveEvent(ctx context.Context, event model.LoanEvent) error {
	_, err := r.coll(eventsColl).InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return mapErr(err)
}

func (r *Repository) ListEvents(ctx context.Context, loanID string) ([]model.LoanEvent, error) {
	return findAll[model.LoanEvent](ctx, r.coll(eventsColl), bson.M{"prestamo": loanID},
		options.Find().SetSort(asc("occurredAt")))
}
