package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if err := s.checkAuthor(ctx, req.AuthorID); err != nil {
		return model.Book{}, err
	}
	now := s.now()
	book := bookFromRequest(req)
	book.ID = uuid.NewString()
	book.CreatedAt = now
	book.UpdatedAt = now
	if book.Availability == "" {
		book.Availability = model.AvailabilityAvailable
	}
	if !book.Availability.Valid() {
		return model.Book{}, errs.Validation("unknown disponibilidad %q", book.Availability)
	}
	return s.repo.CreateBook(ctx, book)
}

func bookFromRequest(req model.CreateBookRequest) model.Book {
	return model.Book{
		Title:        req.Title,
		AuthorID:     req.AuthorID,
		ISBN:         strings.TrimSpace(req.ISBN),
		Publisher:    req.Publisher,
		Year:         req.Year,
		Genre:        req.Genre,
		Pages:        req.Pages,
		Language:     req.Language,
		Synopsis:     req.Synopsis,
		CoverURL:     req.CoverURL,
		Availability: req.Availability,
	}
}

func (s *Service) checkAuthor(ctx context.Context, authorID string) error {
	_, err := s.repo.GetAuthor(ctx, authorID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Validation("autor %s does not exist", authorID)
	}
	return err
}

func (s *Service) GetBook(ctx context.Context, id string) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	if filter.Availability != "" && !filter.Availability.Valid() {
		return nil, errs.Validation("unknown disponibilidad %q", filter.Availability)
	}
	return s.repo.ListBooks(ctx, filter)
}

// UpdateBook replaces the book's fields. An empty availability keeps the
// current one.
func (s *Service) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (model.Book, error) {
	cur, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if req.AuthorID != cur.AuthorID {
		if err := s.checkAuthor(ctx, req.AuthorID); err != nil {
			return model.Book{}, err
		}
	}
	book := bookFromRequest(req)
	book.ID = cur.ID
	book.CreatedAt = cur.CreatedAt
	book.UpdatedAt = s.now()
	if book.Availability == "" {
		book.Availability = cur.Availability
	}
	if book.CoverURL == "" {
		book.CoverURL = cur.CoverURL
	}
	if !book.Availability.Valid() {
		return model.Book{}, errs.Validation("unknown disponibilidad %q", book.Availability)
	}
	return s.repo.UpdateBook(ctx, book)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	return s.repo.DeleteBook(ctx, id)
}

// UploadCover stores the image and points the book at it. The previous
// object is removed when it lived in the same bucket.
func (s *Service) UploadCover(ctx context.Context, bookID, filename, contentType string, body io.Reader) (model.Book, error) {
	if s.covers == nil {
		return model.Book{}, errs.ErrStorageDisabled
	}
	cur, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	key, err := s.covers.Upload(ctx, "covers/"+bookID+"/", filename, body, contentType)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "upload cover")
	}
	book, err := s.repo.SetCover(ctx, bookID, s.covers.ObjectURL(key))
	if err != nil {
		return model.Book{}, err
	}
	if oldKey, ok := s.covers.KeyFromURL(cur.CoverURL); ok {
		if err := s.covers.Delete(ctx, oldKey); err != nil {
			s.log.Warn("delete old cover", zap.String("key", oldKey), zap.Error(err))
		}
	}
	return book, nil
}

// CoverLink returns a readable URL for the book's cover, presigning
// objects kept in the cover bucket.
func (s *Service) CoverLink(ctx context.Context, bookID string) (string, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.CoverURL == "" {
		return "", errors.Wrap(errs.ErrNotFound, "book has no cover")
	}
	if s.covers == nil {
		return book.CoverURL, nil
	}
	if key, ok := s.covers.KeyFromURL(book.CoverURL); ok {
		return s.covers.PresignedGetURL(ctx, key)
	}
	return book.CoverURL, nil
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	author := authorFromRequest(req)
	author.ID = uuid.NewString()
	return s.repo.CreateAuthor(ctx, author)
}

func authorFromRequest(req model.CreateAuthorRequest) model.Author {
	a := model.Author{
		Name:        req.Name,
		Surname:     req.Surname,
		Nationality: req.Nationality,
		Genres:      req.Genres,
		Biography:   req.Biography,
		PhotoURL:    req.PhotoURL,
		Works:       req.Works,
		Awards:      req.Awards,
		Language:    req.Language,
		Social:      req.Social,
	}
	if a.Genres == nil {
		a.Genres = []string{}
	}
	if a.Works == nil {
		a.Works = []string{}
	}
	return a
}

func (s *Service) GetAuthor(ctx context.Context, id string) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx)
}

func (s *Service) UpdateAuthor(ctx context.Context, id string, req model.UpdateAuthorRequest) (model.Author, error) {
	author := authorFromRequest(req)
	author.ID = id
	return s.repo.UpdateAuthor(ctx, author)
}

func (s *Service) DeleteAuthor(ctx context.Context, id string) error {
	return s.repo.DeleteAuthor(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	now := s.now()
	user := userFromRequest(req)
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.repo.CreateUser(ctx, user)
}

func userFromRequest(req model.CreateUserRequest) model.User {
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	return model.User{
		IDType:         req.IDType,
		Identification: strings.TrimSpace(req.Identification),
		Name:           req.Name,
		Surname:        req.Surname,
		Phone:          req.Phone,
		Address:        req.Address,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Role:           role,
	}
}

func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	user := userFromRequest(req)
	user.ID = id
	user.UpdatedAt = s.now()
	return s.repo.UpdateUser(ctx, user)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
