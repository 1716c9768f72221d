package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (r *Repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	return insertOne(ctx, r.coll(booksColl), book)
}

func (r *Repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	return findOne[model.Book](ctx, r.coll(booksColl), byID(id))
}

func (r *Repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := bson.M{}
	if filter.Availability != "" {
		q["disponibilidad"] = filter.Availability
	}
	if filter.AuthorID != "" {
		q["autor"] = filter.AuthorID
	}
	return findAll[model.Book](ctx, r.coll(booksColl), q, options.Find().SetSort(asc("titulo")))
}

func (r *Repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	return updateOne[model.Book](ctx, r.coll(booksColl), book.ID, bson.M{"$set": bson.M{
		"titulo":          book.Title,
		"autor":           book.AuthorID,
		"isbn":            book.ISBN,
		"editorial":       book.Publisher,
		"año_publicacion": book.Year,
		"genero":          book.Genre,
		"paginas":         book.Pages,
		"idioma":          book.Language,
		"sinopsis":        book.Synopsis,
		"portada":         book.CoverURL,
		"disponibilidad":  book.Availability,
		"updatedAt":       book.UpdatedAt,
	}})
}

func (r *Repository) DeleteBook(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll(booksColl), id)
}

func (r *Repository) SetAvailability(ctx context.Context, bookID string, availability model.Availability) error {
	_, err := updateOne[model.Book](ctx, r.coll(booksColl), bookID, bson.M{"$set": bson.M{
		"disponibilidad": availability,
		"updatedAt":      time.Now().UTC(),
	}})
	return err
}

func (r *Repository) SetCover(ctx context.Context, bookID, coverURL string) (model.Book, error) {
	return updateOne[model.Book](ctx, r.coll(booksColl), bookID, bson.M{"$set": bson.M{
		"portada":   coverURL,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *Repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	return insertOne(ctx, r.coll(authorsColl), author)
}

func (r *Repository) GetAuthor(ctx context.Context, id string) (model.Author, error) {
	return findOne[model.Author](ctx, r.coll(authorsColl), byID(id))
}

func (r *Repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return findAll[model.Author](ctx, r.coll(authorsColl), bson.M{},
		options.Find().SetSort(bson.D{{Key: "apellido", Value: 1}, {Key: "nombre", Value: 1}}))
}

func (r *Repository) UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	return updateOne[model.Author](ctx, r.coll(authorsColl), author.ID, bson.M{"$set": bson.M{
		"nombre":       author.Name,
		"apellido":     author.Surname,
		"nacionalidad": author.Nationality,
		"generos":      author.Genres,
		"biografia":    author.Biography,
		"fotografia":   author.PhotoURL,
		"obras":        author.Works,
		"premios":      author.Awards,
		"idioma":       author.Language,
		"redes":        author.Social,
	}})
}

func (r *Repository) DeleteAuthor(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll(authorsColl), id)
}

func (r *Repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return insertOne(ctx, r.coll(usersColl), user)
}

func (r *Repository) GetUser(ctx context.Context, id string) (model.User, error) {
	return findOne[model.User](ctx, r.coll(usersColl), byID(id))
}

func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.coll(usersColl), bson.M{},
		options.Find().SetSort(bson.D{{Key: "apellido", Value: 1}, {Key: "nombre", Value: 1}}))
}

func (r *Repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	return updateOne[model.User](ctx, r.coll(usersColl), user.ID, bson.M{"$set": bson.M{
		"tipoIdentificacion": user.IDType,
		"identificacion":     user.Identification,
		"nombre":             user.Name,
		"apellido":           user.Surname,
		"telefono":           user.Phone,
		"direccion":          user.Address,
		"email":              user.Email,
		"rol":                user.Role,
		"updatedAt":          user.UpdatedAt,
	}})
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll(usersColl), id)
}

func (r *Repository) CreateOperator(ctx context.Context, op model.Operator) (model.Operator, error) {
	return insertOne(ctx, r.coll(operatorsColl), op)
}

func (r *Repository) GetOperator(ctx context.Context, id string) (model.Operator, error) {
	return findOne[model.Operator](ctx, r.coll(operatorsColl), byID(id))
}

func (r *Repository) GetOperatorByEmail(ctx context.Context, email string) (model.Operator, error) {
	return findOne[model.Operator](ctx, r.coll(operatorsColl), bson.M{"email": email})
}

func (r *Repository) UpdateOperatorProfile(ctx context.Context, op model.Operator) (model.Operator, error) {
	return updateOne[model.Operator](ctx, r.coll(operatorsColl), op.ID, bson.M{"$set": bson.M{
		"name":      op.Name,
		"phone":     op.Phone,
		"address":   op.Address,
		"city":      op.City,
		"country":   op.Country,
		"birthDate": op.BirthDate,
		"updatedAt": op.UpdatedAt,
	}})
}

func (r *Repository) SetOperatorPassword(ctx context.Context, id, passwordHash string) error {
	_, err := updateOne[model.Operator](ctx, r.coll(operatorsColl), id, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	}})
	return err
}
