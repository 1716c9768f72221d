package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	lendingRepo "github.com/Astemirdum/library-lending/lending/internal/repository"
	"github.com/Astemirdum/library-lending/pkg/mongodb"
)

// Collection names match the documents the front end was built against.
const (
	authorsColl   = "authors"
	booksColl     = "libros"
	usersColl     = "users"
	operatorsColl = "authusers"
	loansColl     = "prestamos"
	returnsColl   = "devoluciones"
	eventsColl    = "loan_events"
)

type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	// useTx needs a replica set.
	useTx bool
	inTx  bool
	log   *zap.Logger
}

var _ lendingRepo.Repository = (*Repository)(nil)

func NewRepository(ctx context.Context, db *mongodb.DB, useTx bool, log *zap.Logger) (*Repository, error) {
	r := &Repository{
		client: db.Client,
		db:     db.Database,
		useTx:  useTx,
		log:    log.Named("repo"),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, errors.Wrap(err, "ensure indexes")
	}
	return r, nil
}

func asc(key string) bson.D {
	return bson.D{{Key: key, Value: 1}}
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		booksColl: {
			{Keys: asc("isbn"), Options: unique},
			{Keys: asc("disponibilidad")},
		},
		usersColl: {
			{Keys: asc("identificacion"), Options: unique},
			{Keys: asc("email"), Options: unique},
		},
		operatorsColl: {
			{Keys: asc("username"), Options: unique},
			{Keys: asc("email"), Options: unique},
		},
		loansColl: {
			{Keys: asc("libro")},
			{Keys: asc("usuario")},
			{Keys: asc("estado")},
		},
		returnsColl: {
			// one return per loan
			{Keys: asc("prestamo"), Options: unique},
			{Keys: bson.D{{Key: "fechaDevolucion", Value: -1}}},
		},
		eventsColl: {
			{Keys: bson.D{{Key: "prestamo", Value: 1}, {Key: "occurredAt", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrap(err, name)
		}
	}
	return nil
}

func (r *Repository) WithinTx(ctx context.Context, fn lendingRepo.TxFunc) error {
	if !r.useTx || r.inTx {
		return fn(ctx, r)
	}
	sess, err := r.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer sess.EndSession(ctx)

	txRepo := *r
	txRepo.inTx = true
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &txRepo)
	})
	return err
}

func (r *Repository) coll(name string) *mongo.Collection {
	return r.db.Collection(name)
}

func byID(id string) bson.M {
	return bson.M{"_id": id}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (T, error) {
	var item T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&item); err != nil {
		return item, mapErr(err)
	}
	return item, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cur.Close(ctx)
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "cursor.All")
	}
	return items, nil
}

// updateOne applies update and returns the document after the change.
func updateOne[T any](ctx context.Context, coll *mongo.Collection, id string, update any) (T, error) {
	var item T
	err := coll.FindOneAndUpdate(ctx, byID(id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if err != nil {
		return item, mapErr(err)
	}
	return item, nil
}

func insertOne[T any](ctx context.Context, coll *mongo.Collection, doc T) (T, error) {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		var zero T
		return zero, mapErr(err)
	}
	return doc, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrap(errs.ErrDuplicate, err.Error())
	}
	return err
}
