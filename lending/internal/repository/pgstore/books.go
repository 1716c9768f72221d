package pgstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var bookColumns = []string{
	"id", "title", "author_id", "isbn", "publisher", "year", "genre", "pages",
	"language", "synopsis", "cover_url", "availability", "created_at", "updated_at",
}

var returningBook = "returning " + strings.Join(bookColumns, ", ")

func (r *Repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	if err := checkID(book.AuthorID); err != nil {
		return model.Book{}, err
	}
	b := qb.Insert(booksTableName).
		SetMap(map[string]any{
			"id":           book.ID,
			"title":        book.Title,
			"author_id":    book.AuthorID,
			"isbn":         book.ISBN,
			"publisher":    book.Publisher,
			"year":         book.Year,
			"genre":        book.Genre,
			"pages":        book.Pages,
			"language":     book.Language,
			"synopsis":     book.Synopsis,
			"cover_url":    book.CoverURL,
			"availability": book.Availability,
			"created_at":   book.CreatedAt,
			"updated_at":   book.UpdatedAt,
		}).
		Suffix(returningBook)
	res, err := getOne[model.Book](ctx, r.db, b)
	if err != nil {
		r.log.Error("CreateBook", zap.String("isbn", book.ISBN), zap.Error(err))
		return model.Book{}, err
	}
	return res, nil
}

func (r *Repository) GetBook(ctx context.Context, id string) (model.Book, error) {
	if err := checkID(id); err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title")
	if filter.Availability != "" {
		q = q.Where(sq.Eq{"availability": filter.Availability})
	}
	if filter.AuthorID != "" {
		if err := checkID(filter.AuthorID); err != nil {
			return []model.Book{}, nil
		}
		q = q.Where(sq.Eq{"author_id": filter.AuthorID})
	}
	return getAll[model.Book](ctx, r.db, q)
}

func (r *Repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	if err := checkID(book.ID); err != nil {
		return model.Book{}, err
	}
	if err := checkID(book.AuthorID); err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, qb.Update(booksTableName).
		SetMap(map[string]any{
			"title":        book.Title,
			"author_id":    book.AuthorID,
			"isbn":         book.ISBN,
			"publisher":    book.Publisher,
			"year":         book.Year,
			"genre":        book.Genre,
			"pages":        book.Pages,
			"language":     book.Language,
			"synopsis":     book.Synopsis,
			"cover_url":    book.CoverURL,
			"availability": book.Availability,
			"updated_at":   book.UpdatedAt,
		}).
		Where(sq.Eq{"id": book.ID}).
		Suffix(returningBook))
}

func (r *Repository) DeleteBook(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Delete(booksTableName).Where(sq.Eq{"id": id}))
}

func (r *Repository) SetAvailability(ctx context.Context, bookID string, availability model.Availability) error {
	if err := checkID(bookID); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Update(booksTableName).
		Set("availability", availability).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": bookID}))
}

func (r *Repository) SetCover(ctx context.Context, bookID, coverURL string) (model.Book, error) {
	if err := checkID(bookID); err != nil {
		return model.Book{}, err
	}
	return getOne[model.Book](ctx, r.db, qb.Update(booksTableName).
		Set("cover_url", coverURL).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": bookID}).
		Suffix(returningBook))
}
