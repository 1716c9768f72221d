package pgstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var authorColumns = []string{
	"id", "name", "surname", "nationality", "genres", "biography",
	"photo_url", "works", "awards", "language", "social",
}

var returningAuthor = "returning " + strings.Join(authorColumns, ", ")

func authorValues(a model.Author) map[string]any {
	return map[string]any{
		"name":        a.Name,
		"surname":     a.Surname,
		"nationality": a.Nationality,
		"genres":      nonNil(a.Genres),
		"biography":   a.Biography,
		"photo_url":   a.PhotoURL,
		"works":       nonNil(a.Works),
		"awards":      a.Awards,
		"language":    a.Language,
		"social":      a.Social,
	}
}

func (r *Repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	values := authorValues(author)
	values["id"] = author.ID
	return getOne[model.Author](ctx, r.db, qb.Insert(authorsTableName).
		SetMap(values).
		Suffix(returningAuthor))
}

func (r *Repository) GetAuthor(ctx context.Context, id string) (model.Author, error) {
	if err := checkID(id); err != nil {
		return model.Author{}, err
	}
	return getOne[model.Author](ctx, r.db, qb.Select(authorColumns...).
		From(authorsTableName).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return getAll[model.Author](ctx, r.db, qb.Select(authorColumns...).
		From(authorsTableName).
		OrderBy("surname", "name"))
}

func (r *Repository) UpdateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	if err := checkID(author.ID); err != nil {
		return model.Author{}, err
	}
	return getOne[model.Author](ctx, r.db, qb.Update(authorsTableName).
		SetMap(authorValues(author)).
		Where(sq.Eq{"id": author.ID}).
		Suffix(returningAuthor))
}

func (r *Repository) DeleteAuthor(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Delete(authorsTableName).Where(sq.Eq{"id": id}))
}
